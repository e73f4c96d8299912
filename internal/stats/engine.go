// Package stats contains statistics calculations and reporting.
package stats

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/verte-zerg/readlog/internal/model"
)

// Recorder receives the outcome of every full statistics calculation.
type Recorder interface {
	RecordCalculation(books int, failed bool)
}

// Engine computes reading statistics over a book collection. It holds no
// state between calls; the clock is read once per calculation.
type Engine struct {
	now      func() time.Time
	logger   *slog.Logger
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to determine the current year.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used to report failed calculations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New returns an Engine using the system clock and the default logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateAll computes every metric for books. Statistics are best effort:
// if any calculation panics the failure is logged and nil is returned.
func (e *Engine) CalculateAll(books []model.Book) (summary *model.Summary) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("failed to calculate statistics",
				slog.Any("error", r),
				slog.Int("books", len(books)))
			summary = nil
			e.record(len(books), true)
		}
	}()

	year := e.now().Year()
	summary = &model.Summary{
		TotalBooks:         TotalBooks(books),
		AverageRating:      AverageRating(books),
		MostReadGenre:      MostReadGenre(books),
		TotalPagesRead:     TotalPagesRead(books),
		Year:               year,
		BooksPerMonth:      BooksPerMonthIn(books, year),
		BooksPerYear:       BooksPerYear(books),
		RatingDistribution: RatingDistribution(books),
		GenreDistribution:  GenreDistribution(books),
	}
	e.record(len(books), false)
	return summary
}

// BooksPerMonth buckets books completed in the engine's current year by month.
func (e *Engine) BooksPerMonth(books []model.Book) model.MonthCounts {
	return BooksPerMonthIn(books, e.now().Year())
}

func (e *Engine) record(books int, failed bool) {
	if e.recorder != nil {
		e.recorder.RecordCalculation(books, failed)
	}
}

// CalculateAll computes all statistics with a default engine.
func CalculateAll(books []model.Book) *model.Summary {
	return New().CalculateAll(books)
}

// TotalBooks returns the number of books.
func TotalBooks(books []model.Book) int {
	return len(books)
}

// AverageRating returns the mean rating over rated books, rounded half away
// from zero to one decimal place. Books without a rating are skipped; with no
// ratings at all the result is 0.
func AverageRating(books []model.Book) float64 {
	sum, count := 0, 0
	for _, b := range books {
		if b.Rating == nil {
			continue
		}
		sum += *b.Rating
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum*10)/float64(count)) / 10
}

// MostReadGenre returns the genre with the most books. On ties the genre
// first seen in input order wins. Returns nil when no book has a genre.
func MostReadGenre(books []model.Book) *model.GenreCount {
	counts := genreCounts(books)
	if len(counts) == 0 {
		return nil
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return &model.GenreCount{Genre: best.Key, Count: best.Count}
}

// TotalPagesRead sums page counts of books that have one.
func TotalPagesRead(books []model.Book) int {
	total := 0
	for _, b := range books {
		if b.PageCount != nil {
			total += *b.PageCount
		}
	}
	return total
}

// BooksPerMonth buckets books completed in the current calendar year by month,
// using a default engine's clock.
func BooksPerMonth(books []model.Book) model.MonthCounts {
	return New().BooksPerMonth(books)
}

// BooksPerMonthIn buckets books completed in year by month. Books without a
// usable completion date, or finished in another year, are not counted.
func BooksPerMonthIn(books []model.Book, year int) model.MonthCounts {
	var months model.MonthCounts
	for _, b := range books {
		date, ok := b.CompletedOn()
		if !ok || date.Year() != year {
			continue
		}
		months[date.Month()-1]++
	}
	return months
}

// BooksPerYear counts completed books per year, newest year first. Only years
// with at least one book are present.
func BooksPerYear(books []model.Book) model.Counts {
	perYear := map[int]int{}
	for _, b := range books {
		date, ok := b.CompletedOn()
		if !ok {
			continue
		}
		perYear[date.Year()]++
	}
	years := make([]int, 0, len(perYear))
	for year := range perYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	out := make(model.Counts, 0, len(years))
	for _, year := range years {
		out = append(out, model.Count{Key: strconv.Itoa(year), Count: perYear[year]})
	}
	return out
}

// RatingDistribution counts books per rating 1..5. Ratings outside that range
// are ignored.
func RatingDistribution(books []model.Book) model.RatingDistribution {
	var dist model.RatingDistribution
	for _, b := range books {
		if b.Rating == nil {
			continue
		}
		r := *b.Rating
		if r < 1 || r > 5 {
			continue
		}
		dist[r-1]++
	}
	return dist
}

// GenreDistribution counts books per genre, highest count first. Equal counts
// keep the order in which the genres first appear.
func GenreDistribution(books []model.Book) model.Counts {
	counts := genreCounts(books)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// genreCounts accumulates genre counts in first-insertion order.
func genreCounts(books []model.Book) model.Counts {
	index := map[string]int{}
	var counts model.Counts
	for _, b := range books {
		genre, ok := b.GenreValue()
		if !ok {
			continue
		}
		if i, seen := index[genre]; seen {
			counts[i].Count++
			continue
		}
		index[genre] = len(counts)
		counts = append(counts, model.Count{Key: genre, Count: 1})
	}
	return counts
}
