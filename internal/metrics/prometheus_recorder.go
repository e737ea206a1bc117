package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry    *prom.Registry
	opDuration  *prom.HistogramVec
	opResults   *prom.CounterVec
	recipeCount prom.Gauge
}

// NewPrometheusRecorder constructs and registers metrics on reg. A nil reg
// gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		opDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "recipebox",
			Name:      "repository_operation_duration_seconds",
			Help:      "Duration of recipe repository operations",
			Buckets:   prom.DefBuckets,
		}, []string{"op"}),
		opResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "recipebox",
			Name:      "repository_operations_total",
			Help:      "Recipe repository operations by result",
		}, []string{"op", "result"}),
		recipeCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: "recipebox",
			Name:      "recipes",
			Help:      "Number of recipes in the collection at the last read",
		}),
	}
	reg.MustRegister(pr.opDuration, pr.opResults, pr.recipeCount)
	return pr
}

func (p *PrometheusRecorder) ObserveOperation(op string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.opDuration.WithLabelValues(op).Observe(d.Seconds())
	p.opResults.WithLabelValues(op, string(result)).Inc()
}

func (p *PrometheusRecorder) SetRecipeCount(n int) {
	if p == nil {
		return
	}
	p.recipeCount.Set(float64(n))
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
