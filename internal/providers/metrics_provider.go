package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"rwd/internal/services"
	"rwd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncChecksTotal(source string, outcome string)
	AddDeltas(count int)
	AddMailRecords(count int)
	IncNotifyFailures()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	checksTotal         *prometheus.CounterVec
	deltasTotal         prometheus.Counter
	mailRecordsTotal    prometheus.Counter
	notifyFailures      prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncChecksTotal(source string, outcome string) {
	m.checksTotal.WithLabelValues(source, outcome).Inc()
}

func (m *MetricsProvider) AddDeltas(count int) {
	m.deltasTotal.Add(float64(count))
}

func (m *MetricsProvider) AddMailRecords(count int) {
	m.mailRecordsTotal.Add(float64(count))
}

func (m *MetricsProvider) IncNotifyFailures() {
	m.notifyFailures.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, registry services.RegistryServiceInterface, subscribers services.SubscriberServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rwd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rwd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		checksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rwd_checks_total",
			Help: "Total number of change-detection runs per source",
		}, []string{"source", "outcome"}),

		deltasTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rwd_deltas_total",
			Help: "Total number of version deltas committed",
		}),

		mailRecordsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rwd_mail_records_total",
			Help: "Total number of mail records appended to the log",
		}),

		notifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rwd_notify_failures_total",
			Help: "Total number of failed notification deliveries",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rwd_releases_total",
		Help: "Current number of tracked releases in the registry",
	}, func() float64 {
		releases, _ := registry.Counts()
		return float64(releases)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rwd_mail_log_size",
		Help: "Current number of records in the mail log",
	}, func() float64 {
		_, mailLog := registry.Counts()
		return float64(mailLog)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rwd_subscribers_total",
		Help: "Current number of notification subscribers",
	}, func() float64 {
		return float64(len(subscribers.List()))
	})

	return m
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncChecksTotal(_ string, _ string)                 {}
func (n *noopMetrics) AddDeltas(_ int)                                   {}
func (n *noopMetrics) AddMailRecords(_ int)                              {}
func (n *noopMetrics) IncNotifyFailures()                                {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
