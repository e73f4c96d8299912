package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/stats"
)

const unavailableText = "Statistics unavailable."

func renderOverview(sum *model.Summary, width int) string {
	if sum == nil {
		return unavailableText
	}
	if sum.TotalBooks == 0 {
		return "No books found."
	}
	genre := "-"
	if sum.MostReadGenre != nil {
		genre = fmt.Sprintf("%s (%d)", sum.MostReadGenre.Genre, sum.MostReadGenre.Count)
	}
	cards := []string{
		metricCard("Books", fmt.Sprintf("%d", sum.TotalBooks)),
		metricCard("Avg rating", fmt.Sprintf("%.1f", sum.AverageRating)),
		metricCard("Pages read", fmt.Sprintf("%d", sum.TotalPagesRead)),
		metricCard("Most read genre", genre),
	}
	var out string
	if width < 80 {
		out = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		out = lipgloss.JoinVertical(lipgloss.Left, row1, cards[3])
	}
	trend := headerStyle.Render(fmt.Sprintf("%d by month: %s", sum.Year, stats.Sparkline(sum.BooksPerMonth[:])))
	return out + "\n\n" + trend
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTimeline(sum *model.Summary, width int) string {
	if sum == nil {
		return unavailableText
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("Books per month (%d)", sum.Year)
	if err := stats.RenderBars(&buf, title, stats.MonthBars(sum.BooksPerMonth), width, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	if len(sum.BooksPerYear) == 0 {
		buf.WriteString("No completion dates recorded.\n")
	} else if err := stats.RenderBars(&buf, "Books per year", stats.CountBars(sum.BooksPerYear), width, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderRatings(sum *model.Summary, authors model.Counts, width int) string {
	if sum == nil {
		return unavailableText
	}
	var buf bytes.Buffer
	if err := stats.RenderBars(&buf, "Ratings", stats.RatingBars(sum.RatingDistribution), width, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	if len(authors) > 0 {
		buf.WriteString("Top authors\n")
		for i, a := range authors {
			fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, a.Key, a.Count)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func genreColumns() []table.Column {
	return []table.Column{
		{Title: "Genre", Width: 24},
		{Title: "Books", Width: 6},
		{Title: "Share", Width: 7},
	}
}

func genreRows(genres model.Counts) []table.Row {
	total := genres.Total()
	rows := make([]table.Row, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, table.Row{
			g.Key,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1f%%", stats.Share(g.Count, total)),
		})
	}
	return rows
}

func newGenreTable() table.Model {
	t := table.New(
		table.WithColumns(genreColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(genreTableStyles())
	return t
}

func genreTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) setGenreTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.genreLayout.width == width && m.genreLayout.height == viewportHeight {
		return
	}
	m.genreLayout.width = width
	m.genreLayout.height = viewportHeight
	m.genreTable.SetWidth(width)
	m.genreTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustGenreTableHeight(height)
	if m.genreLayout.height != viewportHeight {
		m.genreLayout.height = viewportHeight
		m.genreTable.SetHeight(viewportHeight)
	}
}

// adjustGenreTableHeight corrects for header and border lines so the
// rendered table fills exactly bodyHeight lines.
func (m *Model) adjustGenreTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.genreTable.Height()
	for range 2 {
		viewHeight := lipgloss.Height(m.genreTable.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		m.genreTable.SetHeight(height)
	}
	return height
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
