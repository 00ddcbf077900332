package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	body := scrape(t, NewMetrics())
	if !strings.Contains(body, "quotedesk_quotations_created_total") {
		t.Fatalf("expected body to contain quotedesk_quotations_created_total, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	metricsBody := scrape(t, metrics)
	if !strings.Contains(metricsBody, "quotedesk_http_requests_total{code=\"418\",route=\"/test\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", metricsBody)
	}
	if !strings.Contains(metricsBody, "quotedesk_http_request_duration_seconds_bucket{route=\"/test\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsBody)
	}
}

func TestDomainCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.QuotationCreated()
	metrics.QuotationCreated()
	metrics.QuotationTransitioned("Approved")
	metrics.StockAdjusted(5)
	metrics.StockAdjusted(-3)
	metrics.StockAdjusted(0)
	metrics.JobFinished("quotation:email", time.Second, nil)
	metrics.JobFinished("quotation:email", time.Second, errors.New("smtp down"))

	body := scrape(t, metrics)
	for _, want := range []string{
		"quotedesk_quotations_created_total 2",
		"quotedesk_quotation_transitions_total{status=\"Approved\"} 1",
		"quotedesk_spare_stock_units_total{direction=\"in\"} 5",
		"quotedesk_spare_stock_units_total{direction=\"out\"} 3",
		"quotedesk_jobs_total{outcome=\"ok\",task=\"quotation:email\"} 1",
		"quotedesk_jobs_total{outcome=\"error\",task=\"quotation:email\"} 1",
		"quotedesk_job_duration_seconds_count{task=\"quotation:email\"} 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.QuotationCreated()
	metrics.StockAdjusted(2)
	metrics.JobFinished("x", 0, nil)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
