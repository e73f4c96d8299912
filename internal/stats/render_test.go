package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/readlog/internal/model"
)

func TestRenderSummary(t *testing.T) {
	summary := New(WithClock(fixedClock(2023))).CalculateAll(scenarioBooks())
	var buf bytes.Buffer
	if err := RenderSummary(&buf, summary, 60, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, part := range []string{
		"Books: 4",
		"Average rating: 4.0",
		"Most read genre: Fantasy (2)",
		"Pages read: 1300",
		"Books per month (2023)",
		"Books per year",
		"Genres",
		"Science Fiction",
	} {
		if !strings.Contains(out, part) {
			t.Fatalf("expected %q in output:\n%s", part, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes in output")
	}
}

func TestRenderSummaryPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, 60, false); err != nil {
		t.Fatalf("render nil: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Statistics unavailable." {
		t.Fatalf("unexpected nil output: %q", buf.String())
	}
	buf.Reset()
	if err := RenderSummary(&buf, &model.Summary{}, 60, false); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No books found." {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestRenderBarsScalesToMax(t *testing.T) {
	var buf bytes.Buffer
	bars := []Bar{{Label: "2023", Value: 4}, {Label: "2022", Value: 2}, {Label: "2021", Value: 0}}
	if err := RenderBars(&buf, "Years", bars, 30, false); err != nil {
		t.Fatalf("render bars: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || lines[0] != "Years" {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	full := strings.Count(lines[1], "█")
	half := strings.Count(lines[2], "█")
	if full != BarWidthFor(30, 4, 1) || half != barLength(2, 4, full) {
		t.Fatalf("unexpected bar lengths %d and %d", full, half)
	}
	if strings.Count(lines[3], "█") != 0 || !strings.HasSuffix(lines[3], " 0") {
		t.Fatalf("expected empty bar for zero, got %q", lines[3])
	}
}

func TestBarWidthFor(t *testing.T) {
	if got := BarWidthFor(0, 3, 1); got != minBarWidth {
		t.Fatalf("expected min width %d, got %d", minBarWidth, got)
	}
	if got := BarWidthFor(80, 3, 2); got != 80-3-3-2-1 {
		t.Fatalf("unexpected width %d", got)
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
	flat := Sparkline([]int{2, 2, 2})
	if flat != "+++" {
		t.Fatalf("unexpected flat sparkline %q", flat)
	}
	line := Sparkline([]int{0, 5, 10})
	if len(line) != 3 || line[0] != ' ' || line[2] != '@' {
		t.Fatalf("unexpected sparkline %q", line)
	}
}

func TestShare(t *testing.T) {
	if Share(1, 0) != 0 {
		t.Fatalf("expected 0 share for empty total")
	}
	if Share(1, 4) != 25 {
		t.Fatalf("expected 25%%")
	}
}
