// Package blocklist loads the static set of NSFW domains used to classify
// crawl records.
package blocklist

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// Blocklist is an immutable set of lowercase domain strings.
// It is safe for concurrent reads once constructed.
type Blocklist struct {
	domains map[string]struct{}
}

// Empty returns a blocklist that matches nothing.
func Empty() *Blocklist {
	return &Blocklist{domains: map[string]struct{}{}}
}

// New builds a blocklist from literal entries, normalizing each one.
func New(entries ...string) *Blocklist {
	b := Empty()
	for _, e := range entries {
		b.domains[normalize(e)] = struct{}{}
	}
	return b
}

// Read parses a newline-delimited list. Every line is trimmed and lowercased
// and kept as a domain literal without further validation.
func Read(r io.Reader) (*Blocklist, error) {
	b := Empty()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			b.domains[normalize(line)] = struct{}{}
		}
		if err == io.EOF {
			return b, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Load reads the blocklist file at path.
func Load(path string) (*Blocklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeBlocklistUnreadable,
			fmt.Sprintf("cannot open blocklist %s", path), err)
	}
	defer func() { _ = f.Close() }()

	b, err := Read(f)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeBlocklistUnreadable,
			fmt.Sprintf("cannot read blocklist %s", path), err)
	}
	return b, nil
}

// LoadOrEmpty loads the blocklist and degrades to an empty set when the
// resource is missing or unreadable. The outcome records which happened.
func LoadOrEmpty(path string, logger *slog.Logger) (*Blocklist, perrors.Outcome) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := Load(path)
	if err != nil {
		logger.Info("blocklist_unavailable",
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.String("effect", "continuing without NSFW domain list"))
		return Empty(), perrors.Skip(perrors.ErrCodeBlocklistUnreadable, err)
	}

	logger.Info("blocklist_loaded",
		slog.String("path", path),
		slog.Int("domains", b.Len()))
	return b, perrors.Succeeded()
}

// Contains reports whether domain is listed. The lookup is exact; callers
// normalize their input first.
func (b *Blocklist) Contains(domain string) bool {
	if b == nil {
		return false
	}
	_, ok := b.domains[domain]
	return ok
}

// Len returns the number of distinct entries.
func (b *Blocklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.domains)
}

func normalize(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}
