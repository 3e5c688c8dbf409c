package ui

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of job progress.
type Snapshot struct {
	Stage       Stage
	FilesDone   int
	FilesTotal  int
	CurrentFile string
	Documents   int
	Rate        float64
	Warnings    int
	LastWarning string
	Elapsed     time.Duration
}

// Progress returns the fraction of files finished, in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.FilesTotal <= 0 {
		return 0
	}
	p := float64(s.FilesDone) / float64(s.FilesTotal)
	if p > 1 {
		return 1
	}
	return p
}

// ProgressTracker accumulates events for the TUI. It is safe for
// concurrent use.
type ProgressTracker struct {
	mu    sync.RWMutex
	snap  Snapshot
	start time.Time
	now   func() time.Time
}

// NewProgressTracker creates a tracker starting now.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{start: time.Now(), now: time.Now}
}

// Apply folds a progress event into the tracker.
func (p *ProgressTracker) Apply(event ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snap.Stage = event.Stage
	if event.Total > 0 {
		p.snap.FilesTotal = event.Total
		// Current is the 1-based file being read; the previous ones are done.
		p.snap.FilesDone = event.Current - 1
		if event.Stage != StageIndexing {
			p.snap.FilesDone = event.Current
		}
	}
	if event.CurrentFile != "" {
		p.snap.CurrentFile = event.CurrentFile
	}
	if event.Documents > 0 {
		p.snap.Documents = event.Documents
		p.snap.Rate = event.Rate
	}
}

// AddError counts a warning and remembers its text.
func (p *ProgressTracker) AddError(event ErrorEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snap.Warnings++
	if event.Err != nil {
		p.snap.LastWarning = event.Err.Error()
	}
}

// Snapshot returns a copy of the current state.
func (p *ProgressTracker) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.snap
	s.Elapsed = p.now().Sub(p.start)
	return s
}
