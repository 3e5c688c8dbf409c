// Package record decodes JSONL crawl records and streams them from files
// one line at a time, isolating per-line failures.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// Record is one crawl record as it appears on a JSONL line.
// Optional fields are pointers so absent and empty stay distinguishable.
// Unknown fields are ignored.
type Record struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	ContentText *string `json:"content_text,omitempty"`
	MetaContent *string `json:"meta_content,omitempty"`
	Language    *string `json:"language,omitempty"`
}

// wireRecord keeps url as a pointer so a missing key can be told apart from
// a type error during decoding.
type wireRecord struct {
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	ContentText *string `json:"content_text"`
	MetaContent *string `json:"meta_content"`
	Language    *string `json:"language"`
}

// Parse decodes a single line. Invalid JSON yields ERR_401_MALFORMED_RECORD;
// a missing, null or empty url yields ERR_402_MISSING_URL.
func Parse(line []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, perrors.New(perrors.ErrCodeBlankLine, "blank line", nil)
	}

	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, perrors.New(perrors.ErrCodeMalformedRecord,
			fmt.Sprintf("invalid JSON: %v", err), err)
	}
	if w.URL == nil || *w.URL == "" {
		return nil, perrors.New(perrors.ErrCodeMissingURL, "missing required field url", nil)
	}

	return &Record{
		URL:         *w.URL,
		Title:       w.Title,
		ContentText: w.ContentText,
		MetaContent: w.MetaContent,
		Language:    w.Language,
	}, nil
}

// Deref returns the pointed-to string or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
