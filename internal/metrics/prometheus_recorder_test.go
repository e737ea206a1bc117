package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// counterValue gathers reg and returns the value of the counter named name
// with the given label values, in label order.
func counterValue(t *testing.T, reg *prom.Registry, name string, labels ...string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			pairs := m.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			for i, lp := range pairs {
				if lp.GetValue() != labels[i] {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveOperation("create", 5*time.Millisecond, ResultSuccess)
	pr.ObserveOperation("create", 2*time.Millisecond, ResultConflict)
	pr.ObserveOperation("get", time.Millisecond, ResultNotFound)
	pr.ObserveOperation("get", time.Millisecond, ResultNotFound)
	pr.SetRecipeCount(3)

	if got := counterValue(t, reg, "recipebox_repository_operations_total", "create", "success"); got != 1 {
		t.Fatalf("create/success = %v, want 1", got)
	}
	if got := counterValue(t, reg, "recipebox_repository_operations_total", "get", "not_found"); got != 2 {
		t.Fatalf("get/not_found = %v, want 2", got)
	}
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveOperation("list", time.Millisecond, ResultSuccess)
	pr.SetRecipeCount(2)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"recipebox_repository_operations_total", "recipebox_recipes 2"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, body)
		}
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveOperation("list", time.Millisecond, ResultSuccess)
	pr.SetRecipeCount(1)

	var noop Recorder = NoopRecorder{}
	noop.ObserveOperation("list", 0, ResultError)
}
