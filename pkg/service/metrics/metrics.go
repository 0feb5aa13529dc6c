package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "medmatch"

// Collector holds the Prometheus metrics of the application in its own registry
type Collector struct {
	registry *prometheus.Registry

	verdicts       *prometheus.CounterVec
	logsConfirmed  *prometheus.CounterVec
	dashboardFetch *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var _ interfaces.Metrics = &Collector{}

func New(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verdicts_total",
				Help:      "Total number of compliance verdicts produced",
			},
			[]string{"compliance"},
		),
		logsConfirmed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logs_confirmed_total",
				Help:      "Total number of medication logs recorded",
			},
			[]string{"compliance"},
		),
		dashboardFetch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_fetch_total",
				Help:      "Remote dashboard fetch attempts by result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	registry.MustRegister(
		c.verdicts,
		c.logsConfirmed,
		c.dashboardFetch,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) ObserveVerdict(v *model.Verdict) {
	c.verdicts.WithLabelValues(v.Compliance.String()).Inc()
}

func (c *Collector) ObserveLogConfirmed(log *model.MedicationLog) {
	c.logsConfirmed.WithLabelValues(log.Compliance.String()).Inc()
}

func (c *Collector) ObserveDashboardFetch(ok bool) {
	result := "success"
	if !ok {
		result = "fallback"
	}
	c.dashboardFetch.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry for tests and custom collectors
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
