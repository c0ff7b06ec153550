// Package metrics exposes Prometheus collectors for the journal server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mindweave"

// Metrics owns a private registry so tests can build independent instances.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	transitions       *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	analyzerDuration  *prometheus.HistogramVec
	reflectionFailure prometheus.Counter

	cacheLoads  *prometheus.CounterVec
	jobRuns     *prometheus.CounterVec
	sessionSubs prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),

		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "transitions_total",
			Help:      "Submission state transitions.",
		}, []string{"from", "to"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "outcomes_total",
			Help:      "Submissions by final state.",
		}, []string{"state"}),
		analyzerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "duration_seconds",
			Help:      "Duration of reflection generation.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"success"}),
		reflectionFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "reflection_save_failures_total",
			Help:      "Generated reflections that could not be stored.",
		}),

		cacheLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "loads_total",
			Help:      "Snapshot loads from the data store.",
		}, []string{"store", "success"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "housekeeping",
			Name:      "job_runs_total",
			Help:      "Housekeeping job runs.",
		}, []string{"job", "success"}),
		sessionSubs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "stream_subscribers",
			Help:      "Connected session event streams.",
		}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.transitions,
		m.submissions,
		m.analyzerDuration,
		m.reflectionFailure,
		m.cacheLoads,
		m.jobRuns,
		m.sessionSubs,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPStarted() func(method, route string, status int) {
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route string, status int) {
		m.httpInFlight.Dec()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) SubmissionFinished(state string) {
	m.submissions.WithLabelValues(state).Inc()
}

func (m *Metrics) AnalyzerFinished(d time.Duration, success bool) {
	m.analyzerDuration.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

func (m *Metrics) ReflectionSaveFailed() {
	m.reflectionFailure.Inc()
}

func (m *Metrics) CacheLoad(store string, success bool) {
	m.cacheLoads.WithLabelValues(store, strconv.FormatBool(success)).Inc()
}

func (m *Metrics) JobRun(job string, success bool) {
	if job == "" {
		job = "unknown"
	}
	m.jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}

func (m *Metrics) SessionStreamOpened() { m.sessionSubs.Inc() }

func (m *Metrics) SessionStreamClosed() { m.sessionSubs.Dec() }
