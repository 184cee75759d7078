// Package observability records operation metrics on a private Prometheus
// registry and renders them for the console.
package observability

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	reg *prometheus.Registry

	ops        *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	rows       prometheus.Gauge
	authEvents *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solutions_operations_total",
			Help: "Record store operations by name and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solutions_operation_duration_seconds",
			Help:    "Latency of the remote call made by each record store operation; the refresh after a write is observed as its own list.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"op"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solutions_rows",
			Help: "Number of solutions in the last successful list.",
		}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solutions_auth_events_total",
			Help: "Session events pushed by the auth collaborator.",
		}, []string{"event"}),
	}
	m.reg.MustRegister(m.ops, m.latency, m.rows, m.authEvents)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveOperation counts op with an outcome derived from err and records its latency.
func (m *Metrics) ObserveOperation(op string, err error, d time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.ops.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

// SetRows records the size of the canonical list.
func (m *Metrics) SetRows(n int) {
	m.rows.Set(float64(n))
}

// AuthEvent counts a session transition such as "signed_in".
func (m *Metrics) AuthEvent(event string) {
	m.authEvents.WithLabelValues(event).Inc()
}

// Sample is one rendered metric value.
type Sample struct {
	Name   string
	Labels string
	Value  string
}

// Snapshot gathers the registry into display rows sorted by name and labels.
// Histograms are summarized by count and mean.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			s := Sample{Name: mf.GetName(), Labels: formatLabels(metric.GetLabel())}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = fmt.Sprintf("%g", metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				s.Value = fmt.Sprintf("%g", metric.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				mean := 0.0
				if h.GetSampleCount() > 0 {
					mean = h.GetSampleSum() / float64(h.GetSampleCount())
				}
				s.Value = fmt.Sprintf("count=%d mean=%s", h.GetSampleCount(),
					time.Duration(mean*float64(time.Second)).Round(time.Microsecond))
			default:
				continue
			}
			out = append(out, s)
		}
	}

	slices.SortFunc(out, func(a, b Sample) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Labels, b.Labels)
	})
	return out, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	return strings.Join(parts, ",")
}
