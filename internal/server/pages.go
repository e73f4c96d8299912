package server

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = map[string]string{
	"books": "templates/books.html",
	"stats": "templates/stats.html",
	"error": "templates/error.html",
}

var funcs = template.FuncMap{
	"stars": func(rating *int) string {
		if rating == nil {
			return ""
		}
		n := min(max(*rating, 0), 5)
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", file)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return pages, nil
}

type errorData struct {
	Title   string
	Message string
}

type booksData struct {
	Title   string
	Query   model.Query
	Page    model.BookPage
	Genres  []string
	Sorts   []string
	PrevURL string
	NextURL string
}

type chartRow struct {
	Label   string
	Value   int
	Percent int
}

type statsData struct {
	Title      string
	Genre      string
	Year       string
	Since      string
	Genres     []string
	Summary    *model.Summary
	TopAuthors model.Counts
	Months     []chartRow
	Years      []chartRow
	Ratings    []chartRow
	GenreRows  []genreRow
}

type genreRow struct {
	Genre string
	Count int
	Share float64
}

func (s *Server) render(w http.ResponseWriter, name string, status int, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to execute template", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write page", slog.String("page", name), slog.Any("error", err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, message string, status int) {
	s.render(w, "error", status, errorData{Title: http.StatusText(status), Message: message})
}

func (s *Server) handleBooksPage(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, err := parseQuery(values)
	if err != nil {
		s.renderError(w, err.Error(), http.StatusBadRequest)
		return
	}
	books, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", slog.Any("error", err))
		s.renderError(w, "We couldn't load your books. Please try again later.", http.StatusInternalServerError)
		return
	}
	page, err := library.Apply(books, q)
	if err != nil {
		s.renderError(w, err.Error(), http.StatusBadRequest)
		return
	}
	data := booksData{
		Title:  "Books",
		Query:  q,
		Page:   page,
		Genres: library.Genres(books),
		Sorts:  library.SortFields,
	}
	if page.Page > 1 {
		data.PrevURL = pageURL(values, page.Page-1)
	}
	if page.Page < page.TotalPages {
		data.NextURL = pageURL(values, page.Page+1)
	}
	s.render(w, "books", http.StatusOK, data)
}

func pageURL(values url.Values, page int) string {
	next := url.Values{}
	for k, v := range values {
		next[k] = v
	}
	next.Set("page", strconv.Itoa(page))
	return "/?" + next.Encode()
}

func (s *Server) handleStatsPage(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	cfg, err := parseStatsConfig(values)
	if err != nil {
		s.renderError(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := stats.BuildReport(r.Context(), s.store, cfg, s.engine)
	if err != nil {
		s.logger.Error("Failed to build report", slog.Any("error", err))
		s.renderError(w, "We couldn't load your books. Please try again later.", http.StatusInternalServerError)
		return
	}
	all, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", slog.Any("error", err))
		s.renderError(w, "We couldn't load your books. Please try again later.", http.StatusInternalServerError)
		return
	}

	data := statsData{
		Title:      "Statistics",
		Genre:      cfg.Genre,
		Year:       values.Get("year"),
		Since:      values.Get("since"),
		Genres:     library.Genres(all),
		Summary:    report.Summary,
		TopAuthors: report.TopAuthors,
	}
	if sum := report.Summary; sum != nil {
		data.Months = chartRows(stats.MonthBars(sum.BooksPerMonth))
		data.Years = chartRows(stats.CountBars(sum.BooksPerYear))
		data.Ratings = chartRows(stats.RatingBars(sum.RatingDistribution))
		total := sum.GenreDistribution.Total()
		for _, g := range sum.GenreDistribution {
			data.GenreRows = append(data.GenreRows, genreRow{Genre: g.Key, Count: g.Count, Share: stats.Share(g.Count, total)})
		}
	}
	s.render(w, "stats", http.StatusOK, data)
}

// chartRows scales bar values to a percentage of the largest one.
func chartRows(bars []stats.Bar) []chartRow {
	maxVal := 0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
	}
	rows := make([]chartRow, len(bars))
	for i, b := range bars {
		pct := 0
		if maxVal > 0 {
			pct = b.Value * 100 / maxVal
		}
		rows[i] = chartRow{Label: b.Label, Value: b.Value, Percent: pct}
	}
	return rows
}
