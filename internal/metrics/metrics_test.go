package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCalculation(t *testing.T) {
	m := New()
	m.RecordCalculation(4, false)
	m.RecordCalculation(7, true)

	if got := testutil.ToFloat64(m.CalculationsTotal); got != 2 {
		t.Fatalf("expected 2 calculations, got %v", got)
	}
	if got := testutil.ToFloat64(m.FailuresTotal); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.Books); got != 7 {
		t.Fatalf("expected books gauge 7, got %v", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/books/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/api/books/a", "/api/books/b", "/ok"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/books/{id}", "404")); got != 2 {
		t.Fatalf("expected 2 requests for book route, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ok", "200")); got != 1 {
		t.Fatalf("expected 1 ok request, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordCalculation(3, false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, name := range []string{"readlog_stats_calculations_total 1", "readlog_books 3"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %q in output:\n%s", name, body)
		}
	}
}
