package model

import (
	"encoding/json"
	"testing"
)

func TestCountsMarshalKeepsOrder(t *testing.T) {
	counts := Counts{{Key: "2023", Count: 3}, {Key: "2022", Count: 1}}
	out, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"2023":3,"2022":1}` {
		t.Fatalf("unexpected json: %s", out)
	}
	if n, ok := counts.Get("2022"); !ok || n != 1 {
		t.Fatalf("expected 2022=1, got %d (%v)", n, ok)
	}
	if counts.Total() != 4 {
		t.Fatalf("expected total 4, got %d", counts.Total())
	}
}

func TestCountsMarshalEscapesKeys(t *testing.T) {
	out, err := json.Marshal(Counts{{Key: `Sci "Fi"`, Count: 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"Sci \"Fi\"":2}` {
		t.Fatalf("unexpected json: %s", out)
	}
	empty, err := json.Marshal(Counts(nil))
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `{}` {
		t.Fatalf("expected empty object, got %s", empty)
	}
}

func TestMonthCountsMarshal(t *testing.T) {
	var months MonthCounts
	months[0] = 2
	months[11] = 1
	out, err := json.Marshal(months)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"January":2,"February":0,"March":0,"April":0,"May":0,"June":0,"July":0,"August":0,"September":0,"October":0,"November":0,"December":1}`
	if string(out) != want {
		t.Fatalf("unexpected json: %s", out)
	}
	if months.Get("December") != 1 || months.Get("Smarch") != 0 {
		t.Fatalf("unexpected lookups")
	}
}

func TestRatingDistributionMarshal(t *testing.T) {
	dist := RatingDistribution{0, 0, 1, 2, 1}
	out, err := json.Marshal(dist)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"1":0,"2":0,"3":1,"4":2,"5":1}` {
		t.Fatalf("unexpected json: %s", out)
	}
	if dist.Get(4) != 2 || dist.Get(0) != 0 || dist.Get(6) != 0 {
		t.Fatalf("unexpected lookups")
	}
}

func TestBookInputNormalize(t *testing.T) {
	in := BookInput{
		Title:  "  Dune ",
		Author: "Frank Herbert",
		Genre:  String("   "),
		Notes:  String(" spice "),
	}.Normalize()
	if in.Title != "Dune" {
		t.Fatalf("expected trimmed title, got %q", in.Title)
	}
	if in.Genre != nil {
		t.Fatalf("expected blank genre to be dropped")
	}
	if in.Notes == nil || *in.Notes != "spice" {
		t.Fatalf("expected trimmed notes, got %v", in.Notes)
	}
}

func TestGenreValue(t *testing.T) {
	if _, ok := (Book{}).GenreValue(); ok {
		t.Fatalf("expected nil genre to be unset")
	}
	if _, ok := (Book{Genre: String("")}).GenreValue(); ok {
		t.Fatalf("expected empty genre to be unset")
	}
	if g, ok := (Book{Genre: String("Fantasy")}).GenreValue(); !ok || g != "Fantasy" {
		t.Fatalf("expected Fantasy, got %q", g)
	}
}
