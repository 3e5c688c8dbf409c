// Package discovery resolves the input glob to a fixed, ordered file list.
package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// DefaultPattern is the crawl output layout the job reads by default.
const DefaultPattern = "analyses/partition=*/*.jsonl"

// Discover resolves pattern against the filesystem once and returns the
// matching regular files in lexical order. The result is a snapshot; files
// created afterwards are not picked up. Zero matches is fatal.
func Discover(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid input pattern %q", pattern), err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			slog.Warn("discovery_stat_failed",
				slog.String("path", m),
				slog.String("error", err.Error()))
			continue
		}
		if info.IsDir() {
			slog.Debug("discovery_skip_dir", slog.String("path", m))
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, perrors.New(perrors.ErrCodeNoInput,
			fmt.Sprintf("no files found matching pattern: %s", pattern), nil).
			WithDetail("pattern", pattern).
			WithSuggestion("Check input.pattern or run from the directory containing the crawl output")
	}

	slog.Info("discovery_complete",
		slog.String("pattern", pattern),
		slog.Int("files", len(files)))
	return files, nil
}
