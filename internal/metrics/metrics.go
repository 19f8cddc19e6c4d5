package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "fullcal_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	renderTotal   *prometheus.CounterVec
	renderLatency *prometheus.HistogramVec

	refreshTotal   *prometheus.CounterVec
	refreshLatency prometheus.Histogram

	eventsLoaded   *prometheus.GaugeVec
	eventsRejected *prometheus.CounterVec

	exportTotal *prometheus.CounterVec
	actionTotal *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Safe to call
// more than once; observers are no-ops until Init runs.
func Init() {
	registerOnce.Do(func() {
		renderTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "render_total",
				Help: "Total month renders by surface and result",
			},
			[]string{"surface", "result"},
		)
		renderLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "render_latency_seconds",
				Help:    "Month render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"surface"},
		)
		refreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "refresh_total",
				Help: "Total event source refreshes by result",
			},
			[]string{"result"},
		)
		refreshLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "refresh_latency_seconds",
				Help:    "Event source refresh latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		eventsLoaded = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "events_loaded",
				Help: "Events currently available per source",
			},
			[]string{"source"},
		)
		eventsRejected = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "events_rejected_total",
				Help: "Events dropped by validation per source",
			},
			[]string{"source"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total month exports by format and result",
			},
			[]string{"format", "result"},
		)
		actionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "action_total",
				Help: "Calendar user actions by kind",
			},
			[]string{"action"},
		)

		prometheus.MustRegister(
			renderTotal,
			renderLatency,
			refreshTotal,
			refreshLatency,
			eventsLoaded,
			eventsRejected,
			exportTotal,
			actionTotal,
		)
	})
}

// ObserveRender records one month render on surface ("html", "json", "term").
func ObserveRender(surface, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if renderTotal != nil {
		renderTotal.WithLabelValues(surface, result).Inc()
	}
	if renderLatency != nil {
		renderLatency.WithLabelValues(surface).Observe(duration.Seconds())
	}
}

// ObserveRefresh records one store refresh.
func ObserveRefresh(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if refreshTotal != nil {
		refreshTotal.WithLabelValues(result).Inc()
	}
	if refreshLatency != nil {
		refreshLatency.Observe(duration.Seconds())
	}
}

// SetEventsLoaded sets the current event count of source.
func SetEventsLoaded(source string, n int) {
	if eventsLoaded != nil {
		eventsLoaded.WithLabelValues(source).Set(float64(n))
	}
}

// AddEventsRejected counts events of source dropped by validation.
func AddEventsRejected(source string, n int) {
	if eventsRejected != nil && n > 0 {
		eventsRejected.WithLabelValues(source).Add(float64(n))
	}
}

// IncExport counts one export in format.
func IncExport(format, result string) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// IncAction counts one user action ("navigate", "select", "add", "open").
func IncAction(action string) {
	if actionTotal != nil {
		actionTotal.WithLabelValues(action).Inc()
	}
}
