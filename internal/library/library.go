// Package library implements browsing operations over a book collection:
// search, filtering, sorting and pagination.
package library

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/readlog/internal/model"
)

const (
	// DefaultPageSize is used when a query does not set a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size.
	MaxPageSize = 100
	// MaxPage is the largest page number accepted from callers.
	MaxPage = 1_000_000
)

// SortFields lists the accepted sort keys.
var SortFields = []string{"title", "author", "rating", "dateCompleted", "pageCount", "createdAt"}

// Apply filters, sorts and paginates books according to q. Without an explicit
// sort field the most recently added books come first.
func Apply(books []model.Book, q model.Query) (model.BookPage, error) {
	field, desc := q.Sort, q.Desc
	if field == "" {
		field, desc = "createdAt", true
	}
	sorted, err := Sort(Filter(books, q), field, desc)
	if err != nil {
		return model.BookPage{}, err
	}
	return Paginate(sorted, q.Page, q.PageSize), nil
}

// Filter returns the books matching every criterion set in q. Zero-valued
// criteria are ignored.
func Filter(books []model.Book, q model.Query) []model.Book {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	genre := strings.TrimSpace(q.Genre)
	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		if term != "" && !matchesTerm(b, term) {
			continue
		}
		if genre != "" {
			g, ok := b.GenreValue()
			if !ok || !strings.EqualFold(g, genre) {
				continue
			}
		}
		if q.MinRating > 0 && (b.Rating == nil || *b.Rating < q.MinRating) {
			continue
		}
		if q.Year != 0 {
			date, ok := b.CompletedOn()
			if !ok || date.Year() != q.Year {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// Search returns books whose title, author, genre or notes contain term,
// ignoring case.
func Search(books []model.Book, term string) []model.Book {
	return Filter(books, model.Query{Search: term})
}

func matchesTerm(b model.Book, term string) bool {
	fields := []string{b.Title, b.Author}
	if b.Genre != nil {
		fields = append(fields, *b.Genre)
	}
	if b.Notes != nil {
		fields = append(fields, *b.Notes)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of books. Books missing the sort value always
// come last; ties are broken by title and then id.
func Sort(books []model.Book, field string, desc bool) ([]model.Book, error) {
	if !validSortField(field) {
		return nil, fmt.Errorf("unknown sort field %q (use one of: %s)", field, strings.Join(SortFields, ", "))
	}
	out := append([]model.Book(nil), books...)
	sort.SliceStable(out, func(i, j int) bool {
		c, missI, missJ := compareBy(out[i], out[j], field)
		if missI != missJ {
			return missJ
		}
		if c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		if t := strings.Compare(strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)); t != 0 {
			return t < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func validSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

func compareBy(a, b model.Book, field string) (int, bool, bool) {
	switch field {
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)), false, false
	case "author":
		return strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author)), false, false
	case "rating":
		return compareOptional(a.Rating, b.Rating)
	case "pageCount":
		return compareOptional(a.PageCount, b.PageCount)
	case "dateCompleted":
		da, okA := a.CompletedOn()
		db, okB := b.CompletedOn()
		if !okA || !okB {
			return 0, !okA, !okB
		}
		return da.Compare(db), false, false
	default:
		return a.CreatedAt.Compare(b.CreatedAt), false, false
	}
}

func compareOptional(a, b *int) (int, bool, bool) {
	if a == nil || b == nil {
		return 0, a == nil, b == nil
	}
	return cmp.Compare(*a, *b), false, false
}

// Paginate returns one page of books. Page numbers start at 1; the page size
// is clamped to [1, MaxPageSize] and defaults to DefaultPageSize.
func Paginate(books []model.Book, page, size int) model.BookPage {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	total := len(books)
	result := model.BookPage{
		Books:      []model.Book{},
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * size
	end := min(start+size, total)
	result.Books = append(result.Books, books[start:end]...)
	return result
}

// Genres returns the distinct genres in the order they first appear.
func Genres(books []model.Book) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, b := range books {
		g, ok := b.GenreValue()
		if !ok {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
