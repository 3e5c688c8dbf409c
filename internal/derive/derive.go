// Package derive computes the indexable fields of a crawl record: the
// content preview, the language tag and the NSFW flag.
package derive

import (
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/pulse/internal/blocklist"
	"github.com/Aman-CERP/pulse/internal/record"
)

const (
	// DefaultPreviewLength is the preview limit in characters.
	DefaultPreviewLength = 500

	// DefaultLanguage is used when a record carries no language.
	DefaultLanguage = "en"

	// Ellipsis marks a truncated preview.
	Ellipsis = "..."
)

// Document is the indexable form of one record.
type Document struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Preview  string `json:"preview"`
	Language string `json:"language"`
	MetaTags string `json:"meta_tags"`
	NSFW     bool   `json:"nsfw"`
}

// Preview trims content and truncates it to max characters (runes, not
// bytes), appending Ellipsis when anything was cut.
func Preview(content string, max int) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= max {
		return content
	}

	n := 0
	for i := range content {
		if n == max {
			return content[:i] + Ellipsis
		}
		n++
	}
	return content
}

// Language returns lang when set and non-empty, otherwise fallback.
func Language(lang *string, fallback string) string {
	if lang != nil && *lang != "" {
		return *lang
	}
	return fallback
}

// IsNSFW classifies a record. Any listed match among content, title, meta,
// raw url and url host flags the record; evaluation order does not matter.
func IsNSFW(rec *record.Record, bl *blocklist.Blocklist) bool {
	candidates := []string{
		record.Deref(rec.ContentText),
		record.Deref(rec.Title),
		record.Deref(rec.MetaContent),
		rec.URL,
	}
	for _, text := range candidates {
		if IsNSFWDomain(text, bl) {
			return true
		}
	}
	// Host rule. With the current ExtractDomain it agrees with the raw url
	// rule above; it stays separate so either can change on its own.
	host := ExtractDomain(rec.URL)
	return host != "" && bl.Contains(host)
}

// Deriver turns records into documents. It holds only read-only state and
// may be shared.
type Deriver struct {
	Blocklist       *blocklist.Blocklist
	PreviewLength   int
	DefaultLanguage string
}

// NewDeriver returns a Deriver with the default preview length and language.
func NewDeriver(bl *blocklist.Blocklist) *Deriver {
	return &Deriver{
		Blocklist:       bl,
		PreviewLength:   DefaultPreviewLength,
		DefaultLanguage: DefaultLanguage,
	}
}

// Derive builds the Document for rec. It has no side effects.
func (d *Deriver) Derive(rec *record.Record) Document {
	maxLen := d.PreviewLength
	if maxLen <= 0 {
		maxLen = DefaultPreviewLength
	}
	fallback := d.DefaultLanguage
	if fallback == "" {
		fallback = DefaultLanguage
	}

	content := record.Deref(rec.ContentText)
	return Document{
		URL:      rec.URL,
		Title:    record.Deref(rec.Title),
		Content:  content,
		Preview:  Preview(content, maxLen),
		Language: Language(rec.Language, fallback),
		MetaTags: record.Deref(rec.MetaContent),
		NSFW:     IsNSFW(rec, d.Blocklist),
	}
}
