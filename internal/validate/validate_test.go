package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
)

func fixToday(t *testing.T, day time.Time) {
	t.Helper()
	prev := today
	today = func() time.Time { return day }
	t.Cleanup(func() { today = prev })
}

func TestBookValid(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	in := model.BookInput{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         model.String("Science Fiction"),
		Rating:        model.Int(5),
		DateCompleted: model.String("2024-06-01"),
		PageCount:     model.Int(0),
	}
	if err := Book(in); err != nil {
		t.Fatalf("expected valid book, got %v", err)
	}
	if err := Book(model.BookInput{Title: "Dune", Author: "Frank Herbert"}); err != nil {
		t.Fatalf("expected optional fields to be optional, got %v", err)
	}
}

func TestBookInvalid(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	in := model.BookInput{
		Title:         "",
		Author:        strings.Repeat("a", 101),
		Rating:        model.Int(6),
		DateCompleted: model.String("2024-06-02"),
		PageCount:     model.Int(-1),
	}
	err := Book(in)
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	fields := verrs.Fields()
	want := map[string]string{
		"title":         "is required",
		"author":        "must be at most 100 characters",
		"rating":        "must be at most 5",
		"dateCompleted": "must be a valid date (YYYY-MM-DD) that is not in the future",
		"pageCount":     "must be at least 0",
	}
	for field, msg := range want {
		if fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q (all: %v)", field, msg, fields[field], fields)
		}
	}
	if len(fields) != len(want) {
		t.Fatalf("unexpected extra errors: %v", fields)
	}
}

func TestBookRejectsZeroRatingAndBadDate(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	err := Book(model.BookInput{Title: "x", Author: "y", Rating: model.Int(0), DateCompleted: model.String("soon")})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	fields := verrs.Fields()
	if fields["rating"] != "must be at least 1" {
		t.Fatalf("unexpected rating error: %v", fields)
	}
	if _, ok := fields["dateCompleted"]; !ok {
		t.Fatalf("expected date error: %v", fields)
	}
	if !strings.HasPrefix(err.Error(), "invalid book: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPagination(t *testing.T) {
	if err := Pagination(0, 0); err != nil {
		t.Fatalf("expected defaults to pass, got %v", err)
	}
	if err := Pagination(3, 100); err != nil {
		t.Fatalf("expected valid page, got %v", err)
	}
	err := Pagination(-1, 101)
	var verrs Errors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
	err = Pagination(library.MaxPage+1, 0)
	verrs = nil
	if !errors.As(err, &verrs) || verrs.Fields()["page"] == "" {
		t.Fatalf("expected page error, got %v", err)
	}
}

func TestBookRejectsTimestampDate(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	err := Book(model.BookInput{Title: "x", Author: "y", DateCompleted: model.String("2024-05-01T10:00:00Z")})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if _, ok := verrs.Fields()["dateCompleted"]; !ok {
		t.Fatalf("expected date error: %v", verrs.Fields())
	}
}
