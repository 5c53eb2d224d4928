package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRequestsAndDuration(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/v1/state", "GET", "200")); got != 1 {
		t.Fatalf("expected request counter = 1, got %v", got)
	}
}

func TestDomainCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(deadlineMissesTotal.WithLabelValues("FCC"))
	IncDeadlineMiss("FCC")
	if after := testutil.ToFloat64(deadlineMissesTotal.WithLabelValues("FCC")); after != before+1 {
		t.Fatalf("expected deadline miss counter to increment, got %v -> %v", before, after)
	}

	beforeFault := testutil.ToFloat64(engineFaultsTotal.WithLabelValues("NozzleOverTemp"))
	IncEngineFault("NozzleOverTemp")
	if after := testutil.ToFloat64(engineFaultsTotal.WithLabelValues("NozzleOverTemp")); after != beforeFault+1 {
		t.Fatalf("expected engine fault counter to increment, got %v -> %v", beforeFault, after)
	}
}

func TestHandlerServesExpositionFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatal("expected a Content-Type header on the metrics exposition")
	}
}
