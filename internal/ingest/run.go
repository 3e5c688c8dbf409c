package ingest

import (
	"sort"
	"time"

	"github.com/Aman-CERP/pulse/internal/ui"
)

// JobRun is the mutable state of one indexing job.
type JobRun struct {
	// IndexPath is the directory the job writes to.
	IndexPath string
	Start     time.Time

	// Files is the discovered input set and FileIndex the file being read.
	Files     []string
	FileIndex int

	// Processed counts documents handed to the sink successfully.
	Processed      int
	Flagged        int
	FilesProcessed int
	SkippedFiles   int
	Commits        int
	FailedCommits  int

	// SkippedLines counts dropped lines by reason code.
	SkippedLines map[string]int
}

// NewJobRun starts a run at start.
func NewJobRun(start time.Time) *JobRun {
	return &JobRun{Start: start, SkippedLines: make(map[string]int)}
}

// SkipLine counts a dropped line.
func (r *JobRun) SkipLine(reason string) {
	r.SkippedLines[reason]++
}

// TotalSkippedLines sums skipped lines over all reasons.
func (r *JobRun) TotalSkippedLines() int {
	n := 0
	for _, c := range r.SkippedLines {
		n += c
	}
	return n
}

// SkipReasons returns the reason codes seen, sorted.
func (r *JobRun) SkipReasons() []string {
	reasons := make([]string, 0, len(r.SkippedLines))
	for reason := range r.SkippedLines {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}

// Elapsed returns the time since the run started.
func (r *JobRun) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.Start)
}

// Rate returns processed documents per second since the run started.
func (r *JobRun) Rate(now time.Time) float64 {
	secs := r.Elapsed(now).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Processed) / secs
}

// Stats converts the run into the renderer's summary.
func (r *JobRun) Stats(now time.Time) ui.CompletionStats {
	return ui.CompletionStats{
		IndexPath:     r.IndexPath,
		Files:         r.FilesProcessed,
		Documents:     r.Processed,
		Flagged:       r.Flagged,
		SkippedLines:  r.TotalSkippedLines(),
		SkippedFiles:  r.SkippedFiles,
		Commits:       r.Commits,
		FailedCommits: r.FailedCommits,
		Duration:      r.Elapsed(now),
	}
}

// snapshot returns a copy that does not share the skip map.
func (r *JobRun) snapshot() JobRun {
	cp := *r
	cp.Files = append([]string(nil), r.Files...)
	cp.SkippedLines = make(map[string]int, len(r.SkippedLines))
	for k, v := range r.SkippedLines {
		cp.SkippedLines[k] = v
	}
	return cp
}
