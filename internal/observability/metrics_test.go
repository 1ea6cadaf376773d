package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint returned %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMiddlewareRecordsRouteAndCode(t *testing.T) {
	m := NewMetrics()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = []string{"/test"}
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := scrape(t, m)
	if !strings.Contains(body, `meridian_http_requests_total{code="418",route="/test"} 1`) {
		t.Fatalf("request counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "meridian_http_request_duration_seconds") {
		t.Fatalf("duration histogram missing from scrape:\n%s", body)
	}
}

func TestRecordPostingAndVoid(t *testing.T) {
	m := NewMetrics()

	m.RecordPosting("PD", 25*time.Millisecond)
	m.RecordPosting("PD", 10*time.Millisecond)
	m.RecordVoid("requested")
	m.RecordVoid("authorized")

	body := scrape(t, m)
	if !strings.Contains(body, `meridian_journal_postings_total{entry_type="PD"} 2`) {
		t.Fatalf("posting counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `meridian_journal_voids_total{stage="requested"} 1`) {
		t.Fatalf("void requested counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `meridian_journal_voids_total{stage="authorized"} 1`) {
		t.Fatalf("void authorized counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "meridian_journal_posting_duration_seconds_count 2") {
		t.Fatalf("posting duration histogram missing from scrape:\n%s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.RecordPosting("PD", time.Millisecond)
	m.RecordVoid("requested")

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("nil middleware must pass through, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler must degrade, got %d", rec.Code)
	}
}
