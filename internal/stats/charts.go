package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/readlog/internal/model"
)

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

const (
	barRune             = '█'
	barSeparator        = " │ "
	minBarWidth         = 10
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	barColor            = "\x1b[36m"
	sparkChars          = " .:-=+*#%@"
)

// RenderBars writes a horizontal bar chart scaled to the largest value.
// A width of 0 sizes the chart to the terminal.
func RenderBars(w io.Writer, title string, bars []Bar, width int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	labelWidth := 0
	maxVal := 0
	for _, b := range bars {
		if lw := runewidth.StringWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if width <= 0 {
		width = terminalWidth()
	}
	barWidth := BarWidthFor(width, labelWidth, len(fmt.Sprint(maxVal)))
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		n := barLength(b.Value, maxVal, barWidth)
		bar := strings.Repeat(string(barRune), n)
		if useColor && n > 0 {
			bar = barColor + bar + colorReset
		}
		label := runewidth.FillRight(b.Label, labelWidth)
		if _, err := fmt.Fprintf(w, "%s%s%s %d\n", label, barSeparator, bar, b.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BarWidthFor computes the bar area that fits next to labels and values.
func BarWidthFor(totalWidth, labelWidth, valueWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	width := totalWidth - labelWidth - utf8.RuneCountInString(barSeparator) - valueWidth - 1
	if width < minBarWidth {
		width = minBarWidth
	}
	return width
}

func barLength(value, maxVal, width int) int {
	if value <= 0 || maxVal <= 0 {
		return 0
	}
	n := int(math.Round(float64(value) / float64(maxVal) * float64(width)))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}

// MonthBars converts month counts into chart bars using short month names.
func MonthBars(months model.MonthCounts) []Bar {
	bars := make([]Bar, len(months))
	for i, n := range months {
		bars[i] = Bar{Label: model.MonthNames[i][:3], Value: n}
	}
	return bars
}

// CountBars converts an ordered count mapping into chart bars.
func CountBars(counts model.Counts) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: c.Key, Value: c.Count}
	}
	return bars
}

// RatingBars converts a rating distribution into bars, highest rating first.
func RatingBars(dist model.RatingDistribution) []Bar {
	bars := make([]Bar, 0, len(dist))
	for r := len(dist); r >= 1; r-- {
		bars = append(bars, Bar{Label: strings.Repeat("*", r), Value: dist.Get(r)})
	}
	return bars
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if minVal == maxVal {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := float64(v-minVal) / float64(maxVal-minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
