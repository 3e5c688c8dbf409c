package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/pulse/internal/derive"
	"github.com/Aman-CERP/pulse/internal/ui"
)

// mockSink records additions and commits. Commit calls listed in failCommits
// (1-based) fail and keep their documents pending.
type mockSink struct {
	added       []derive.Document
	pending     int
	committed   []int
	commitCalls int
	failCommits map[int]bool
	failAdd     func(derive.Document) bool
	closed      bool
	path        string
}

func (m *mockSink) AddDocument(_ context.Context, doc derive.Document) error {
	if m.failAdd != nil && m.failAdd(doc) {
		return errors.New("add rejected")
	}
	m.added = append(m.added, doc)
	m.pending++
	return nil
}

func (m *mockSink) Commit(_ context.Context) error {
	m.commitCalls++
	if m.failCommits[m.commitCalls] {
		return errors.New("disk full")
	}
	m.committed = append(m.committed, m.pending)
	m.pending = 0
	return nil
}

func (m *mockSink) Path() string { return m.path }

func (m *mockSink) Close() error {
	m.closed = true
	return nil
}

// MockRenderer implements ui.Renderer for testing.
type MockRenderer struct {
	mu             sync.Mutex
	ProgressEvents []ui.ProgressEvent
	ErrorEvents    []ui.ErrorEvent
	CompleteCalled bool
	Stats          ui.CompletionStats
}

func (m *MockRenderer) Start(context.Context) error { return nil }

func (m *MockRenderer) UpdateProgress(event ui.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProgressEvents = append(m.ProgressEvents, event)
}

func (m *MockRenderer) AddError(event ui.ErrorEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorEvents = append(m.ErrorEvents, event)
}

func (m *MockRenderer) Complete(stats ui.CompletionStats) {
	m.CompleteCalled = true
	m.Stats = stats
}

func (m *MockRenderer) Stop() error { return nil }

// writeJSONL writes lines into dir/rel, creating parent directories.
func writeJSONL(t *testing.T, dir, rel string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func fixedClock() func() time.Time {
	t := time.Unix(1700000000, 0)
	return func() time.Time { return t }
}
