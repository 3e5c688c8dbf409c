package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/oklog/ulid/v2"

	"github.com/Aman-CERP/pulse/internal/derive"
	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// IndexPrefix prefixes every index directory name.
const IndexPrefix = "index_"

// IndexName returns the directory name for a job started at t.
func IndexName(t time.Time) string {
	return fmt.Sprintf("%s%d", IndexPrefix, t.Unix())
}

// BleveSink buffers documents in a bleve batch and writes the batch to the
// index on Commit. Writes added since the last successful commit stay
// buffered when a commit fails, so a later commit still carries them.
type BleveSink struct {
	mu      sync.Mutex
	index   bleve.Index
	batch   *bleve.Batch
	path    string
	pending int
	closed  bool
}

// CreateSink creates a new index directory named after start under root.
// Creation is serialized with a lock file in root; an existing directory
// with the same name is an error rather than being reused.
func CreateSink(root string, start time.Time) (*BleveSink, error) {
	lock := newRootLock(root)
	if err := lock.Lock(); err != nil {
		return nil, perrors.New(perrors.ErrCodeIndexCreate, "cannot lock index root", err).
			WithDetail("root", root)
	}
	defer func() { _ = lock.Unlock() }()

	path := filepath.Join(root, IndexName(start))
	if _, err := os.Stat(path); err == nil {
		return nil, perrors.New(perrors.ErrCodeIndexCreate,
			fmt.Sprintf("index directory already exists: %s", path), nil).
			WithSuggestion("Another job started in the same second; retry shortly")
	}

	idx, err := bleve.New(path, NewDocumentMapping())
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeIndexCreate,
			fmt.Sprintf("cannot create index at %s", path), err)
	}

	slog.Info("index_created", slog.String("path", path))
	return newSink(idx, path), nil
}

// NewMemSink returns a sink over an in-memory index, for tests.
func NewMemSink() (*BleveSink, error) {
	idx, err := bleve.NewMemOnly(NewDocumentMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return newSink(idx, ""), nil
}

func newSink(idx bleve.Index, path string) *BleveSink {
	return &BleveSink{index: idx, batch: idx.NewBatch(), path: path}
}

// Path returns the index directory, or "" for in-memory sinks.
func (s *BleveSink) Path() string {
	return s.path
}

// AddDocument buffers doc under a fresh ULID. Records are not deduplicated,
// so the URL cannot serve as the document ID.
func (s *BleveSink) AddDocument(_ context.Context, doc derive.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}

	if err := s.batch.Index(ulid.Make().String(), toFields(doc)); err != nil {
		return fmt.Errorf("failed to add document %s: %w", doc.URL, err)
	}
	s.pending++
	return nil
}

// Commit writes all buffered documents to the index.
func (s *BleveSink) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.pending == 0 {
		return nil
	}

	if err := s.index.Batch(s.batch); err != nil {
		return fmt.Errorf("failed to commit %d documents: %w", s.pending, err)
	}
	s.batch.Reset()
	s.pending = 0
	return nil
}

// Pending returns the number of documents buffered since the last commit.
func (s *BleveSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// DocCount returns the number of committed documents.
func (s *BleveSink) DocCount() (uint64, error) {
	return s.index.DocCount()
}

// Searcher exposes read access to the sink's index.
func (s *BleveSink) Searcher() *Searcher {
	return &Searcher{index: s.index, path: s.path}
}

// Close closes the index. Uncommitted documents are dropped.
func (s *BleveSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.pending > 0 {
		slog.Warn("index_closed_with_pending",
			slog.String("path", s.path),
			slog.Int("pending", s.pending))
	}
	return s.index.Close()
}

func toFields(doc derive.Document) map[string]interface{} {
	return map[string]interface{}{
		FieldURL:      doc.URL,
		FieldTitle:    doc.Title,
		FieldContent:  doc.Content,
		FieldPreview:  doc.Preview,
		FieldLanguage: doc.Language,
		FieldMetaTags: doc.MetaTags,
		FieldNSFW:     doc.NSFW,
	}
}
