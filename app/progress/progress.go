package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	bubbles "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const barWidth = 40

// Reporter surfaces i/n progress of a sequential loop.
type Reporter interface {
	Start(total int, label string)
	Advance(item string)
	Done()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New draws a progress bar on out when it is a terminal and enabled is set;
// otherwise progress is logged.
func New(out io.Writer, enabled bool) Reporter {
	if enabled && IsTerminal(out) {
		return NewBar(out)
	}
	return &LogReporter{}
}

// Bar redraws a single line on each step.
type Bar struct {
	out     io.Writer
	model   bubbles.Model
	label   string
	total   int
	current int
}

func NewBar(out io.Writer) *Bar {
	return &Bar{
		out:   out,
		model: bubbles.New(bubbles.WithDefaultGradient(), bubbles.WithWidth(barWidth)),
	}
}

func (b *Bar) Start(total int, label string) {
	b.total = total
	b.current = 0
	b.label = label
	b.draw("")
}

func (b *Bar) Advance(item string) {
	b.current++
	b.draw(item)
}

func (b *Bar) Done() {
	fmt.Fprintln(b.out)
}

func (b *Bar) percent() float64 {
	if b.total <= 0 {
		return 1
	}
	return float64(b.current) / float64(b.total)
}

func (b *Bar) draw(item string) {
	line := fmt.Sprintf("%s %s %d/%d", b.label, b.model.ViewAs(b.percent()), b.current, b.total)
	if item != "" {
		line += " " + LabelStyle.Render(item)
	}
	// \r plus clear-to-end keeps the bar on one line
	fmt.Fprintf(b.out, "\r%s\x1b[K", line)
}

// LogReporter emits one structured log line per step.
type LogReporter struct {
	label   string
	total   int
	current int
}

func (l *LogReporter) Start(total int, label string) {
	l.total = total
	l.current = 0
	l.label = label
}

func (l *LogReporter) Advance(item string) {
	l.current++
	slog.Info(l.label, "progress", fmt.Sprintf("%d/%d", l.current, l.total), "item", item)
}

func (l *LogReporter) Done() {}

// Summary is the key/value block printed after a run.
type Summary struct {
	Title string
	Rows  [][2]string
}

func (s Summary) Add(label string, value any) Summary {
	s.Rows = append(s.Rows, [2]string{label, fmt.Sprint(value)})
	return s
}

// Render returns the summary as a bordered lipgloss box when styled is set,
// and as plain indented lines otherwise.
func (s Summary) Render(styled bool) string {
	width := 0
	for _, row := range s.Rows {
		width = max(width, len(row[0]))
	}

	lines := make([]string, 0, len(s.Rows)+1)
	if !styled {
		lines = append(lines, s.Title)
		for _, row := range s.Rows {
			lines = append(lines, fmt.Sprintf("  - %-*s %s", width+1, row[0]+":", row[1]))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, SummaryTitleStyle.Render(s.Title))
	for _, row := range s.Rows {
		label := LabelStyle.Width(width + 2).Render(row[0] + ":")
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, ValueStyle.Render(row[1])))
	}
	return SummaryStyle.Render(strings.Join(lines, "\n"))
}

// Print writes the summary to out, styled when out is a terminal.
func (s Summary) Print(out io.Writer) {
	fmt.Fprintln(out, s.Render(IsTerminal(out)))
}
