package nest

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors that Passes record into when
// they're configured WithMetrics. A nil *Metrics records nothing.
type Metrics struct {
	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	passes        *prometheus.CounterVec
	passSeconds   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nest_component_renders_total",
				Help: "Total number of component templates rendered, by route and result.",
			},
			[]string{"route", "result"},
		),
		renderSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nest_component_render_duration_seconds",
				Help:    "Duration of component template renders, including nested components.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nest_passes_total",
				Help: "Total number of render passes, by result.",
			},
			[]string{"result"},
		),
		passSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nest_pass_duration_seconds",
				Help:    "Duration of render passes.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	for _, c := range []prometheus.Collector{m.renders, m.renderSeconds, m.passes, m.passSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTemplateNotFound):
		return "template_not_found"
	case errors.Is(err, ErrSlotNotFound):
		return "slot_not_found"
	default:
		return "error"
	}
}

func (m *Metrics) observeRender(n *Node, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(n.route, resultLabel(err)).Inc()
	m.renderSeconds.WithLabelValues(n.route).Observe(elapsed.Seconds())
}

func (m *Metrics) observePass(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(resultLabel(err)).Inc()
	m.passSeconds.Observe(elapsed.Seconds())
}
