package tracker

// metrics.go defines the tracker's metrics sink and its Prometheus implementation.
//
// © 2025 parcelgo authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

// metricsSink abstracts Prometheus so the tracker can be used with or
// without metrics: when the caller passes a *prometheus.Registry via
// WithMetrics(NewPrometheusMetrics(reg)), its counters are registered; otherwise a no-op sink is used and the hot path pays nothing
// for metric updates.
type metricsSink interface {
	RequestHit()
	RequestMiss()
	RequestRerun(reason string)
	CycleDetected()
	BuildDirtied(count int)
}

type noopMetrics struct{}

func (noopMetrics) RequestHit()           {}
func (noopMetrics) RequestMiss()          {}
func (noopMetrics) RequestRerun(_ string) {}
func (noopMetrics) CycleDetected()        {}
func (noopMetrics) BuildDirtied(_ int)    {}

// PrometheusMetrics is a metricsSink backed by real counters, registered
// eagerly against reg so `go_collector`-style introspection sees them even
// before the first request runs.
type PrometheusMetrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	reruns  *prometheus.CounterVec
	cycles  prometheus.Counter
	dirtied prometheus.Counter
}

// NewPrometheusMetrics builds and registers a PrometheusMetrics against reg.
// Panics if registration fails (duplicate registration of the same
// collector in the same registry), matching the teacher's fail-fast style
// for a programmer error that should never reach production.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelgo_tracker_request_hits_total",
			Help: "Requests served from the memoization cache without rerunning.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelgo_tracker_request_misses_total",
			Help: "Requests that found no valid cache entry and ran.",
		}),
		reruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelgo_tracker_request_reruns_total",
			Help: "Requests rerun after being marked dirty, by reason.",
		}, []string{"reason"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelgo_tracker_cycles_detected_total",
			Help: "Dependency cycles detected during Run.",
		}),
		dirtied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelgo_tracker_requests_dirtied_total",
			Help: "Requests marked dirty by NextBuild invalidation matching.",
		}),
	}
	reg.MustRegister(m.hits, m.misses, m.reruns, m.cycles, m.dirtied)
	return m
}

func (m *PrometheusMetrics) RequestHit()  { m.hits.Inc() }
func (m *PrometheusMetrics) RequestMiss() { m.misses.Inc() }
func (m *PrometheusMetrics) RequestRerun(reason string) {
	m.reruns.WithLabelValues(reason).Inc()
}
func (m *PrometheusMetrics) CycleDetected()     { m.cycles.Inc() }
func (m *PrometheusMetrics) BuildDirtied(n int) { m.dirtied.Add(float64(n)) }
