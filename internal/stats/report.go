package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/store"
)

// topAuthorsLimit is the number of authors listed in a report.
const topAuthorsLimit = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Books      []model.Book
	Summary    *model.Summary
	TopAuthors model.Counts
}

// BuildReport loads books, applies the filters in cfg and computes statistics.
// When a year filter is set the monthly breakdown covers that year instead of
// the current one. A nil engine uses the defaults.
func BuildReport(ctx context.Context, st store.Store, cfg model.StatsConfig, engine *Engine) (Report, error) {
	books, err := st.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load books: %w", err)
	}
	books = FilterBooks(books, cfg)
	if engine == nil {
		engine = New()
	}

	summary := engine.CalculateAll(books)
	if summary != nil && cfg.Year > 0 {
		summary.Year = cfg.Year
		summary.BooksPerMonth = BooksPerMonthIn(books, cfg.Year)
	}
	return Report{
		Books:      books,
		Summary:    summary,
		TopAuthors: TopAuthors(books, topAuthorsLimit),
	}, nil
}

// FilterBooks keeps books matching the genre, year and since filters.
// Books without a usable completion date never match a since filter.
func FilterBooks(books []model.Book, cfg model.StatsConfig) []model.Book {
	books = library.Filter(books, model.Query{Genre: cfg.Genre, Year: cfg.Year})
	if cfg.Since == nil {
		return books
	}
	y, m, d := cfg.Since.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		done, ok := b.CompletedOn()
		if !ok || done.Before(since) {
			continue
		}
		out = append(out, b)
	}
	return out
}
