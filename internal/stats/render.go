package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/readlog/internal/model"
)

// RenderSummary prints a text report for a statistics summary. A nil summary
// means the statistics could not be calculated.
func RenderSummary(w io.Writer, s *model.Summary, width int, useColor bool) error {
	if s == nil {
		_, err := fmt.Fprintln(w, "Statistics unavailable.")
		return err
	}
	if s.TotalBooks == 0 {
		_, err := fmt.Fprintln(w, "No books found.")
		return err
	}
	if err := renderTotals(w, s); err != nil {
		return err
	}
	monthTitle := fmt.Sprintf("Books per month (%d)  %s", s.Year, Sparkline(s.BooksPerMonth[:]))
	if err := RenderBars(w, monthTitle, MonthBars(s.BooksPerMonth), width, useColor); err != nil {
		return err
	}
	if err := RenderBars(w, "Books per year", CountBars(s.BooksPerYear), width, useColor); err != nil {
		return err
	}
	if err := RenderBars(w, "Ratings", RatingBars(s.RatingDistribution), width, useColor); err != nil {
		return err
	}
	return RenderGenreTable(w, s.GenreDistribution)
}

func renderTotals(w io.Writer, s *model.Summary) error {
	genre := "-"
	if s.MostReadGenre != nil {
		genre = fmt.Sprintf("%s (%d)", s.MostReadGenre.Genre, s.MostReadGenre.Count)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Books: %d", s.TotalBooks),
		fmt.Sprintf("Average rating: %.1f", s.AverageRating),
		fmt.Sprintf("Most read genre: %s", genre),
		fmt.Sprintf("Pages read: %d", s.TotalPagesRead),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGenreTable prints the genre distribution with each genre's share.
func RenderGenreTable(w io.Writer, genres model.Counts) error {
	if len(genres) == 0 {
		_, err := fmt.Fprintln(w, "No genres recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Genres"); err != nil {
		return err
	}
	total := genres.Total()
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{
			g.Key,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1f%%", Share(g.Count, total)),
		})
	}
	for _, line := range FormatTable([]string{"Genre", "Books", "Share"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// Share returns part as a percentage of total, or 0 when total is 0.
func Share(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
