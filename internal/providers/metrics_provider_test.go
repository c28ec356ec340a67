package providers

import (
	"rwd/internal/models"
	"rwd/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

// --- minimal mocks for the registry and subscriber services ---

type metricsTestRegistry struct{}

func (m *metricsTestRegistry) GetReleases() map[string]*models.Release     { return nil }
func (m *metricsTestRegistry) GetRelease(_ string) (*models.Release, bool) { return nil, false }
func (m *metricsTestRegistry) ApplyDeltas(_ []models.Delta)                {}
func (m *metricsTestRegistry) AppendMailRecords(_ []*models.MailRecord)    {}
func (m *metricsTestRegistry) GetMailLog() []*models.MailRecord            { return nil }
func (m *metricsTestRegistry) GetSnapshot() *models.Storage                { return nil }
func (m *metricsTestRegistry) PutSnapshot(_ *models.Storage)               {}
func (m *metricsTestRegistry) Seed(_ []structures.TrackedItem)             {}
func (m *metricsTestRegistry) Counts() (int, int)                          { return 2, 5 }

type metricsTestSubscribers struct{}

func (m *metricsTestSubscribers) Subscribe(_ int64) error           { return nil }
func (m *metricsTestSubscribers) Unsubscribe(_ int64) (bool, error) { return false, nil }
func (m *metricsTestSubscribers) List() []int64                     { return []int64{1, 2, 3} }

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{}, &metricsTestSubscribers{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncChecksTotal("catalog", "ok")
	m.AddDeltas(1)
	m.AddMailRecords(1)
	m.IncNotifyFailures()
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{}, &metricsTestSubscribers{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{}, &metricsTestSubscribers{})

	// These should not panic
	m.IncRequestsTotal("/releases", 200)
	m.IncRequestsTotal("/releases", 404)
	m.ObserveRequestDuration("/releases", 5*time.Millisecond)
	m.IncChecksTotal("catalog", "ok")
	m.IncChecksTotal("mail", "failed")
	m.AddDeltas(3)
	m.AddMailRecords(2)
	m.IncNotifyFailures()
	m.ObservePersistenceDuration(100 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
