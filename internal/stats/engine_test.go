package stats

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/readlog/internal/model"
)

func book(rating int, genre string, pages int, date string) model.Book {
	b := model.Book{Title: genre + " book", Author: "someone"}
	if rating != 0 {
		b.Rating = model.Int(rating)
	}
	if genre != "" {
		b.Genre = model.String(genre)
	}
	if pages != 0 {
		b.PageCount = model.Int(pages)
	}
	if date != "" {
		b.DateCompleted = model.String(date)
	}
	return b
}

func scenarioBooks() []model.Book {
	return []model.Book{
		book(5, "Fantasy", 300, "2023-01-15"),
		book(4, "Fantasy", 250, "2023-02-20"),
		book(3, "Science Fiction", 400, "2023-03-10"),
		book(4, "Mystery", 350, "2022-12-15"),
	}
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

type recorderStub struct {
	calls  int
	failed int
	books  int
}

func (r *recorderStub) RecordCalculation(books int, failed bool) {
	r.calls++
	r.books = books
	if failed {
		r.failed++
	}
}

func TestCalculateAllScenario(t *testing.T) {
	rec := &recorderStub{}
	engine := New(WithClock(fixedClock(2023)), WithRecorder(rec))
	summary := engine.CalculateAll(scenarioBooks())
	if summary == nil {
		t.Fatalf("expected summary")
	}
	if summary.TotalBooks != 4 {
		t.Fatalf("expected 4 books, got %d", summary.TotalBooks)
	}
	if summary.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %v", summary.AverageRating)
	}
	if summary.MostReadGenre == nil || *summary.MostReadGenre != (model.GenreCount{Genre: "Fantasy", Count: 2}) {
		t.Fatalf("unexpected most read genre: %+v", summary.MostReadGenre)
	}
	if summary.TotalPagesRead != 1300 {
		t.Fatalf("expected 1300 pages, got %d", summary.TotalPagesRead)
	}
	wantYears := model.Counts{{Key: "2023", Count: 3}, {Key: "2022", Count: 1}}
	if !equalCounts(summary.BooksPerYear, wantYears) {
		t.Fatalf("unexpected books per year: %+v", summary.BooksPerYear)
	}
	if summary.RatingDistribution != (model.RatingDistribution{0, 0, 1, 2, 1}) {
		t.Fatalf("unexpected rating distribution: %v", summary.RatingDistribution)
	}
	if summary.BooksPerMonth.Get("January") != 1 || summary.BooksPerMonth.Get("February") != 1 ||
		summary.BooksPerMonth.Get("March") != 1 || summary.BooksPerMonth.Get("December") != 0 {
		t.Fatalf("unexpected books per month: %v", summary.BooksPerMonth)
	}
	if summary.Year != 2023 {
		t.Fatalf("expected year 2023, got %d", summary.Year)
	}
	if rec.calls != 1 || rec.failed != 0 || rec.books != 4 {
		t.Fatalf("unexpected recorder state: %+v", rec)
	}

	out, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	for _, part := range []string{
		`"booksPerYear":{"2023":3,"2022":1}`,
		`"ratingDistribution":{"1":0,"2":0,"3":1,"4":2,"5":1}`,
		`"mostReadGenre":{"genre":"Fantasy","count":2}`,
		`"genreDistribution":{"Fantasy":2,"Science Fiction":1,"Mystery":1}`,
	} {
		if !strings.Contains(string(out), part) {
			t.Fatalf("expected %s in %s", part, out)
		}
	}
}

func TestCalculateAllTotalMatchesTotalBooks(t *testing.T) {
	books := scenarioBooks()
	summary := New(WithClock(fixedClock(2024))).CalculateAll(books)
	if summary == nil || summary.TotalBooks != TotalBooks(books) {
		t.Fatalf("expected total books %d, got %+v", TotalBooks(books), summary)
	}
}

func TestCalculateAllRecoversFromPanic(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &recorderStub{}
	engine := New(
		WithClock(func() time.Time { panic("clock unavailable") }),
		WithLogger(logger),
		WithRecorder(rec),
	)
	if summary := engine.CalculateAll(scenarioBooks()); summary != nil {
		t.Fatalf("expected nil summary, got %+v", summary)
	}
	if !strings.Contains(logs.String(), "failed to calculate statistics") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "clock unavailable") {
		t.Fatalf("expected panic value in log, got %q", logs.String())
	}
	if rec.failed != 1 {
		t.Fatalf("expected one failed calculation, got %+v", rec)
	}
}

func TestCalculateAllEmpty(t *testing.T) {
	summary := New(WithClock(fixedClock(2023))).CalculateAll(nil)
	if summary == nil {
		t.Fatalf("expected summary for empty input")
	}
	if summary.TotalBooks != 0 || summary.AverageRating != 0 || summary.TotalPagesRead != 0 {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
	if summary.MostReadGenre != nil {
		t.Fatalf("expected no most read genre")
	}
	if summary.BooksPerMonth.Total() != 0 || len(summary.BooksPerYear) != 0 || len(summary.GenreDistribution) != 0 {
		t.Fatalf("expected empty distributions, got %+v", summary)
	}
}

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
	unrated := []model.Book{book(0, "Fantasy", 100, ""), book(0, "", 0, "")}
	if got := AverageRating(unrated); got != 0 {
		t.Fatalf("expected 0 without ratings, got %v", got)
	}
	cases := []struct {
		ratings []int
		want    float64
	}{
		{[]int{5, 4, 3, 4}, 4.0},
		{[]int{5, 4}, 4.5},
		{[]int{1, 2, 2}, 1.7},
		{[]int{4, 4, 5}, 4.3},
		{[]int{1, 1, 1, 2}, 1.3},
		{[]int{3}, 3},
	}
	for _, tc := range cases {
		books := make([]model.Book, 0, len(tc.ratings)+1)
		for _, r := range tc.ratings {
			books = append(books, book(r, "", 0, ""))
		}
		books = append(books, book(0, "Fantasy", 0, ""))
		if got := AverageRating(books); got != tc.want {
			t.Fatalf("ratings %v: expected %v, got %v", tc.ratings, tc.want, got)
		}
	}
}

func TestAverageRatingCountsPresentZero(t *testing.T) {
	books := []model.Book{
		{Rating: model.Int(0)},
		{Rating: model.Int(4)},
	}
	if got := AverageRating(books); got != 2 {
		t.Fatalf("expected zero rating to count toward the mean, got %v", got)
	}
	if dist := RatingDistribution(books); dist.Total() != 1 {
		t.Fatalf("expected zero rating outside distribution, got %v", dist)
	}
}

func TestMostReadGenre(t *testing.T) {
	if got := MostReadGenre(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
	noGenre := []model.Book{book(5, "", 0, ""), {Genre: model.String("")}}
	if got := MostReadGenre(noGenre); got != nil {
		t.Fatalf("expected nil without genres, got %+v", got)
	}
	books := []model.Book{
		book(0, "Fantasy", 0, ""),
		book(0, "Fantasy", 0, ""),
		book(0, "Science Fiction", 0, ""),
		book(0, "Mystery", 0, ""),
	}
	got := MostReadGenre(books)
	if got == nil || got.Genre != "Fantasy" || got.Count != 2 {
		t.Fatalf("expected Fantasy x2, got %+v", got)
	}
}

func TestMostReadGenreTieKeepsFirstSeen(t *testing.T) {
	books := []model.Book{
		book(0, "Mystery", 0, ""),
		book(0, "Fantasy", 0, ""),
		book(0, "Fantasy", 0, ""),
		book(0, "Mystery", 0, ""),
	}
	got := MostReadGenre(books)
	if got == nil || got.Genre != "Mystery" || got.Count != 2 {
		t.Fatalf("expected Mystery to win the tie, got %+v", got)
	}
}

func TestTotalPagesReadOrderIndependent(t *testing.T) {
	books := scenarioBooks()
	books = append(books, book(3, "Poetry", 0, ""))
	first := TotalPagesRead(books)
	reversed := make([]model.Book, len(books))
	for i, b := range books {
		reversed[len(books)-1-i] = b
	}
	if first != 1300 || TotalPagesRead(reversed) != first || TotalPagesRead(books) != first {
		t.Fatalf("expected 1300 regardless of order, got %d", first)
	}
	if TotalPagesRead(nil) != 0 {
		t.Fatalf("expected 0 for empty input")
	}
}

func TestBooksPerMonth(t *testing.T) {
	months := BooksPerMonthIn(nil, 2023)
	if len(months) != 12 || months.Total() != 0 {
		t.Fatalf("expected 12 zero months, got %v", months)
	}
	books := []model.Book{
		book(0, "", 0, "2023-01-15"),
		book(0, "", 0, "2023-01-31"),
		book(0, "", 0, "2023-12-01T23:30:00-05:00"),
		book(0, "", 0, "2022-06-01"),
		book(0, "", 0, "not a date"),
		book(0, "", 0, ""),
	}
	months = BooksPerMonthIn(books, 2023)
	if months.Get("January") != 2 || months.Get("December") != 1 || months.Total() != 3 {
		t.Fatalf("unexpected months: %v", months)
	}
	engine := New(WithClock(fixedClock(2022)))
	if got := engine.BooksPerMonth(books); got.Get("June") != 1 || got.Total() != 1 {
		t.Fatalf("expected only the 2022 book, got %v", got)
	}
	now := time.Now()
	current := []model.Book{book(0, "", 0, now.Format(model.DateLayout)), book(0, "", 0, "1999-01-01")}
	if got := BooksPerMonth(current); got.Total() != 1 || got[now.Month()-1] != 1 {
		t.Fatalf("expected this month's book only, got %v", got)
	}
}

func TestBooksPerYearCountsOtherYears(t *testing.T) {
	books := []model.Book{
		book(0, "", 0, "2019-03-01"),
		book(0, "", 0, "2021-03-01"),
		book(0, "", 0, "2019-07-01"),
		book(0, "", 0, "garbage"),
		book(0, "", 0, ""),
	}
	got := BooksPerYear(books)
	want := model.Counts{{Key: "2021", Count: 1}, {Key: "2019", Count: 2}}
	if !equalCounts(got, want) {
		t.Fatalf("unexpected years: %+v", got)
	}
	if BooksPerMonthIn(books, 2024).Total() != 0 {
		t.Fatalf("expected other-year books to stay out of month buckets")
	}
}

func TestRatingDistributionIgnoresOutOfRange(t *testing.T) {
	books := []model.Book{
		book(1, "", 0, ""),
		book(5, "", 0, ""),
		book(5, "", 0, ""),
		book(7, "", 0, ""),
		book(-1, "", 0, ""),
		book(0, "", 0, ""),
	}
	dist := RatingDistribution(books)
	if dist != (model.RatingDistribution{1, 0, 0, 0, 2}) {
		t.Fatalf("unexpected distribution: %v", dist)
	}
}

func TestGenreDistributionOrdering(t *testing.T) {
	books := []model.Book{
		book(0, "Poetry", 0, ""),
		book(0, "Fantasy", 0, ""),
		book(0, "Mystery", 0, ""),
		book(0, "Fantasy", 0, ""),
		book(0, "Mystery", 0, ""),
		book(0, "", 0, ""),
		book(0, "Fantasy", 0, ""),
	}
	got := GenreDistribution(books)
	want := model.Counts{{Key: "Fantasy", Count: 3}, {Key: "Mystery", Count: 2}, {Key: "Poetry", Count: 1}}
	if !equalCounts(got, want) {
		t.Fatalf("unexpected distribution: %+v", got)
	}
	if got.Total() != 6 {
		t.Fatalf("expected total 6 genre-tagged books, got %d", got.Total())
	}

	ties := GenreDistribution([]model.Book{
		book(0, "B", 0, ""),
		book(0, "A", 0, ""),
		book(0, "C", 0, ""),
	})
	if strings.Join(ties.Keys(), ",") != "B,A,C" {
		t.Fatalf("expected ties in first-seen order, got %v", ties.Keys())
	}
}

func TestCalculationsDoNotMutateInput(t *testing.T) {
	books := scenarioBooks()
	before, err := json.Marshal(books)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	New(WithClock(fixedClock(2023))).CalculateAll(books)
	after, err := json.Marshal(books)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("input was mutated")
	}
}

func equalCounts(a, b model.Counts) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
