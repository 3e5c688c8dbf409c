// Package output formats command results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Aman-CERP/pulse/internal/store"
	"github.com/Aman-CERP/pulse/internal/ui"
)

// previewWidth bounds the preview excerpt printed per hit.
const previewWidth = 200

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a Writer. Color is used only for terminals without NO_COLOR.
func New(out io.Writer) *Writer {
	return &Writer{
		out:    out,
		styles: ui.GetStyles(!ui.IsTTY(out) || ui.DetectNoColor()),
	}
}

// Status prints a message with an optional icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon == "" {
		icon = " "
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Status(w.styles.Success.Render("✓"), fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Status(w.styles.Warning.Render("!"), fmt.Sprintf(format, args...))
}

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Hits prints one block per search hit.
func (w *Writer) Hits(res *store.Results, offset int) {
	if len(res.Hits) == 0 {
		w.Status("", "No results.")
		return
	}

	_, _ = fmt.Fprintf(w.out, "%s\n\n", w.styles.Dim.Render(
		fmt.Sprintf("%s matches, showing %d", humanize.Comma(int64(res.Total)), len(res.Hits))))

	for i, hit := range res.Hits {
		title := hit.Title
		if title == "" {
			title = "(untitled)"
		}
		tags := []string{hit.Language, fmt.Sprintf("score %.3f", hit.Score)}
		if hit.NSFW {
			tags = append(tags, w.styles.Warning.Render("nsfw"))
		}

		_, _ = fmt.Fprintf(w.out, "%d. %s\n", offset+i+1, w.styles.Header.Render(title))
		_, _ = fmt.Fprintf(w.out, "   %s\n", hit.URL)
		_, _ = fmt.Fprintf(w.out, "   %s\n", w.styles.Dim.Render(strings.Join(tags, " · ")))
		if p := excerpt(hit.Preview, previewWidth); p != "" {
			_, _ = fmt.Fprintf(w.out, "   %s\n", p)
		}
		_, _ = fmt.Fprintln(w.out)
	}
}

// IndexRow is one line of the index listing.
type IndexRow struct {
	Info      store.IndexInfo
	Documents uint64
	Latest    bool
	Err       error
}

// Indexes prints a table of index directories.
func (w *Writer) Indexes(rows []IndexRow, now time.Time) error {
	if len(rows) == 0 {
		w.Status("", "No indexes found.")
		return nil
	}

	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tCREATED\tDOCUMENTS\t")
	for _, r := range rows {
		docs := humanize.Comma(int64(r.Documents))
		if r.Err != nil {
			docs = "unreadable"
		}
		name := r.Info.Name
		if r.Latest {
			name += " *"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t\n", name, humanize.RelTime(r.Info.CreatedAt, now, "ago", "from now"), docs)
	}
	return tw.Flush()
}

// excerpt collapses whitespace and cuts s to width runes.
func excerpt(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		r = r[:width]
	}
	return string(r) + "…"
}
