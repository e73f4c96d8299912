package stats

import (
	"testing"

	"github.com/verte-zerg/readlog/internal/model"
)

func TestTopAuthors(t *testing.T) {
	books := []model.Book{
		{Author: "Ursula K. Le Guin"},
		{Author: "Terry Pratchett"},
		{Author: "terry pratchett "},
		{Author: "Agatha Christie"},
		{Author: "Ursula K. Le Guin"},
		{Author: "  "},
	}
	top := TopAuthors(books, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(top))
	}
	if top[0].Key != "Terry Pratchett" || top[1].Key != "Ursula K. Le Guin" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Count != 2 {
		t.Fatalf("expected case-insensitive match, got %+v", top[0])
	}
	if TopAuthors(books, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
