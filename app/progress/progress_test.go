package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_NonTerminalLogs(t *testing.T) {
	var buf bytes.Buffer

	reporter := New(&buf, true)
	if _, ok := reporter.(*LogReporter); !ok {
		t.Fatalf("Expected LogReporter for non-terminal writer, got %T", reporter)
	}

	reporter.Start(2, "Fetching issues")
	reporter.Advance("org/repo#1")
	reporter.Done()

	if buf.Len() != 0 {
		t.Errorf("LogReporter should not write to the output, got %q", buf.String())
	}
}

func TestBar_Draw(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Start(4, "Fetching issues")
	bar.Advance("org/repo#1")
	bar.Advance("org/repo#2")
	bar.Done()

	out := buf.String()
	if !strings.Contains(out, "Fetching issues") {
		t.Error("Bar should print its label")
	}
	if !strings.Contains(out, "2/4") {
		t.Errorf("Bar should print the count, got %q", out)
	}
	if !strings.Contains(out, "org/repo#2") {
		t.Error("Bar should print the current item")
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Done should end the line")
	}
	if bar.percent() != 0.5 {
		t.Errorf("Expected 0.5, got %f", bar.percent())
	}
}

func TestBar_EmptyTotal(t *testing.T) {
	bar := NewBar(&bytes.Buffer{})
	bar.Start(0, "Nothing")
	if bar.percent() != 1 {
		t.Errorf("Empty loop should be complete, got %f", bar.percent())
	}
}

func TestSummary_Render(t *testing.T) {
	summary := Summary{Title: "Sync complete!"}.
		Add("in flight", 3).
		Add("upcoming", 1).
		Add("completed", 12)

	plain := summary.Render(false)
	expected := "Sync complete!\n  - in flight: 3\n  - upcoming:  1\n  - completed: 12"
	if plain != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, plain)
	}

	styled := summary.Render(true)
	for _, want := range []string{"Sync complete!", "in flight:", "12"} {
		if !strings.Contains(styled, want) {
			t.Errorf("Styled summary should contain %q, got:\n%s", want, styled)
		}
	}
}
