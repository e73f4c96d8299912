// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Book is a single tracked book with its reading metadata.
// Optional fields are pointers; nil means the value was never recorded.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         *string   `json:"genre,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	DateCompleted *string   `json:"dateCompleted,omitempty"`
	PageCount     *int      `json:"pageCount,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GenreValue returns the genre and whether one is set. An empty genre counts as unset.
func (b Book) GenreValue() (string, bool) {
	if b.Genre == nil || *b.Genre == "" {
		return "", false
	}
	return *b.Genre, true
}

// BookInput is the create/update payload for a book.
type BookInput struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Author        string  `json:"author" validate:"required,max=100"`
	Genre         *string `json:"genre,omitempty" validate:"omitempty,max=50"`
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	DateCompleted *string `json:"dateCompleted,omitempty" validate:"omitempty,pastdate"`
	PageCount     *int    `json:"pageCount,omitempty" validate:"omitempty,min=0,max=100000"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Normalize trims text fields and drops optional strings that are blank.
func (in BookInput) Normalize() BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = trimOptional(in.Genre)
	in.DateCompleted = trimOptional(in.DateCompleted)
	in.Notes = trimOptional(in.Notes)
	return in
}

// Apply copies the input onto a book, leaving identity and timestamps alone.
func (in BookInput) Apply(b *Book) {
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.Rating = in.Rating
	b.DateCompleted = in.DateCompleted
	b.PageCount = in.PageCount
	b.Notes = in.Notes
}

// InputFromBook converts a stored book back into an editable payload.
func InputFromBook(b Book) BookInput {
	return BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Rating:        b.Rating,
		DateCompleted: b.DateCompleted,
		PageCount:     b.PageCount,
		Notes:         b.Notes,
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StatsConfig defines filters applied before computing statistics.
type StatsConfig struct {
	Genre string
	Year  int
	Since *time.Time
}

// Query describes a search over the collection.
type Query struct {
	Search    string
	Genre     string
	MinRating int
	Year      int
	Sort      string
	Desc      bool
	Page      int
	PageSize  int
}

// BookPage is one page of query results.
type BookPage struct {
	Books      []Book `json:"books"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Int returns a pointer to n.
func Int(n int) *int {
	return &n
}
