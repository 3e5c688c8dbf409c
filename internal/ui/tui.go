package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// TUIRenderer renders a live progress panel using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *jobModel
	tracker *ProgressTracker
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer.
// Returns an error if the output is not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	tracker := NewProgressTracker()
	model := newJobModel(tracker, cfg.Pattern)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:     cfg,
		tracker: tracker,
		model:   model,
		done:    make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	var opts []tea.ProgramOption
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	opts = append(opts, tea.WithContext(ctx))

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.tracker.Apply(event)
}

// AddError implements Renderer.
func (r *TUIRenderer) AddError(event ErrorEvent) {
	r.tracker.AddError(event)
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.Apply(ProgressEvent{Stage: StageComplete})
	if r.program != nil {
		r.program.Send(completeMsg(stats))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()

	if program == nil {
		return nil
	}
	program.Quit()

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}
	return nil
}

type completeMsg CompletionStats
type tickMsg time.Time

// jobModel is the bubbletea model for job progress.
type jobModel struct {
	tracker  *ProgressTracker
	pattern  string
	width    int
	spinner  spinner.Model
	bar      progress.Model
	styles   Styles
	complete bool
	stats    CompletionStats
}

func newJobModel(tracker *ProgressTracker, pattern string) *jobModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &jobModel{
		tracker: tracker,
		pattern: pattern,
		width:   80,
		spinner: s,
		bar: progress.New(
			progress.WithSolidFill(ColorAccent),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
		styles: DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m *jobModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *jobModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(20, msg.Width-20)
	case completeMsg:
		m.complete = true
		m.stats = CompletionStats(msg)
		return m, tea.Quit
	case tickMsg:
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *jobModel) View() string {
	if m.complete {
		return m.renderComplete()
	}

	snap := m.tracker.Snapshot()
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Header.Render(snap.Stage.String())))

	if snap.FilesTotal > 0 {
		pct := snap.Progress()
		lines = append(lines, fmt.Sprintf("%s  %3.0f%%", m.bar.ViewAs(pct), pct*100))
		lines = append(lines, m.styles.Label.Render(fmt.Sprintf("%d / %d files", snap.FilesDone, snap.FilesTotal)))
	}

	lines = append(lines, m.styles.Label.Render(fmt.Sprintf("%s documents  •  %.1f docs/s  •  %s",
		humanize.Comma(int64(snap.Documents)), snap.Rate, snap.Elapsed.Round(time.Second))))

	if snap.CurrentFile != "" {
		lines = append(lines, m.styles.Dim.Render(truncateLeft(snap.CurrentFile, m.width-6)))
	}
	if snap.Warnings > 0 {
		lines = append(lines, m.styles.Warning.Render(fmt.Sprintf("%d skipped  last: %s",
			snap.Warnings, truncateLeft(snap.LastWarning, m.width-24))))
	}

	title := "pulse indexer"
	if m.pattern != "" {
		title += " • " + m.pattern
	}
	return m.styles.Header.Render(title) + "\n" + m.styles.Panel.Render(strings.Join(lines, "\n")) + "\n"
}

func (m *jobModel) renderComplete() string {
	s := m.stats
	summary := fmt.Sprintf("%s documents from %d files in %s (%.1f docs/s)",
		humanize.Comma(int64(s.Documents)), s.Files, s.Duration.Round(100*time.Millisecond), s.Rate())
	out := m.styles.Success.Render("✓ "+summary) + "\n"
	if s.SkippedLines > 0 || s.SkippedFiles > 0 || s.FailedCommits > 0 {
		out += m.styles.Warning.Render(fmt.Sprintf("  skipped %d lines, %d files; %d failed commits",
			s.SkippedLines, s.SkippedFiles, s.FailedCommits)) + "\n"
	}
	if s.IndexPath != "" {
		out += m.styles.Label.Render("  index: "+s.IndexPath) + "\n"
	}
	return out
}

// truncateLeft keeps the tail of s, which is the informative part of a path.
func truncateLeft(s string, width int) string {
	if width < 4 {
		width = 4
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}
