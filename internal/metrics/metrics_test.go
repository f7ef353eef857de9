package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordRequest_IncrementsCounter はメソッド・ステータスコード別の
// リクエストカウンタが増加することを検証する。
func TestRecordRequest_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.RecordRequest(http.MethodGet, http.StatusOK, 3*time.Millisecond)
	c.RecordRequest(http.MethodPost, http.StatusCreated, 10*time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "pokedex_http_requests_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("pokedex_http_requests_total metric not found")
	}
}

// TestHandler_ServesMetrics はスクレイプエンドポイントが登録済みメトリクスを
// 出力することを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, http.StatusOK, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "pokedex_http_requests_total") {
		t.Error("expected request counter in scrape output")
	}
	if !strings.Contains(body, "pokedex_http_request_duration_seconds") {
		t.Error("expected duration histogram in scrape output")
	}
}
