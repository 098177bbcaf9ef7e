// Package metrics records rebuild and cache metrics with Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/kiln/internal/core/ports"
)

const namespace = "kiln"

var _ ports.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	reg             *prom.Registry
	rebuilds        *prom.CounterVec
	rebuildDuration *prom.HistogramVec
	superseded      *prom.CounterVec
	cacheRecords    prom.Gauge
	phaseDuration   *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.rebuilds = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Target rebuilds by outcome",
		}, []string{"target", "outcome"})
		pr.rebuildDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of target rebuilds",
			Buckets:   prom.DefBuckets,
		}, []string{"target"})
		pr.superseded = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "debounce_superseded_total",
			Help:      "Debounce tickets replaced before settling, by layer",
		}, []string{"layer"})
		pr.cacheRecords = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "module_cache_records",
			Help:      "Real records held by the module cache",
		})
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		reg.MustRegister(pr.rebuilds, pr.rebuildDuration, pr.superseded, pr.cacheRecords, pr.phaseDuration)
	})
	return pr
}

// ObserveRebuild implements ports.Recorder.
func (p *PrometheusRecorder) ObserveRebuild(target string, d time.Duration, err error) {
	if p == nil || p.rebuilds == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.rebuilds.WithLabelValues(target, outcome).Inc()
	p.rebuildDuration.WithLabelValues(target).Observe(d.Seconds())
}

// IncSuperseded implements ports.Recorder.
func (p *PrometheusRecorder) IncSuperseded(layer string) {
	if p == nil || p.superseded == nil {
		return
	}
	p.superseded.WithLabelValues(layer).Inc()
}

// SetCacheRecords implements ports.Recorder.
func (p *PrometheusRecorder) SetCacheRecords(n int) {
	if p == nil || p.cacheRecords == nil {
		return
	}
	p.cacheRecords.Set(float64(n))
}

// ObservePhase implements ports.Recorder.
func (p *PrometheusRecorder) ObservePhase(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Handler serves the recorder's registry in the OpenMetrics format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
