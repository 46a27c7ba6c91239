// Package metrics exposes currency manager activity as prometheus metrics.
package metrics

import (
	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridbind"

// Collector counts currency manager notifications.
type Collector struct {
	positions   prometheus.Counter
	current     prometheus.Counter
	items       prometheus.Counter
	metadata    prometheus.Counter
	dataErrors  prometheus.Counter
	listChanges *prometheus.CounterVec
	bound       prometheus.Gauge
	position    prometheus.Gauge
}

var _ binding.Listener = (*Collector)(nil)

// NewCollector registers the binding metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		positions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "position_changes_total",
			Help:      "Number of current position changes.",
		}),
		current: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "current_changes_total",
			Help:      "Number of current row changes.",
		}),
		items: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_changes_total",
			Help:      "Number of row change notifications.",
		}),
		metadata: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_changes_total",
			Help:      "Number of bound list schema changes.",
		}),
		dataErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_errors_total",
			Help:      "Number of push failures reported as data errors.",
		}),
		listChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_changes_total",
			Help:      "Number of bound list notifications by kind.",
		}, []string{"kind"}),
		bound: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bound",
			Help:      "1 while the manager is bound, 0 while suspended.",
		}),
		position: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "position",
			Help:      "Current position, -1 when there is no current row.",
		}),
	}
}

// ItemChanged implements binding.Listener.
func (c *Collector) ItemChanged(int) { c.items.Inc() }

// PositionChanged implements binding.Listener.
func (c *Collector) PositionChanged(pos int) {
	c.positions.Inc()
	c.position.Set(float64(pos))
}

// CurrentChanged implements binding.Listener.
func (c *Collector) CurrentChanged() { c.current.Inc() }

// CurrentItemChanged implements binding.Listener.
func (*Collector) CurrentItemChanged() {}

// MetaDataChanged implements binding.Listener.
func (c *Collector) MetaDataChanged() { c.metadata.Inc() }

// ListChanged implements binding.Listener.
func (c *Collector) ListChanged(e list.ChangedEvent) {
	c.listChanges.WithLabelValues(e.Kind.String()).Inc()
}

// DataError implements binding.Listener.
func (c *Collector) DataError(error) { c.dataErrors.Inc() }

// BindingStateChanged implements binding.Listener.
func (c *Collector) BindingStateChanged(bound bool) {
	if bound {
		c.bound.Set(1)
		return
	}
	c.bound.Set(0)
}

// Positions returns the position change counter.
func (c *Collector) Positions() prometheus.Counter { return c.positions }

// Position returns the current position gauge.
func (c *Collector) Position() prometheus.Gauge { return c.position }

// Bound returns the binding state gauge.
func (c *Collector) Bound() prometheus.Gauge { return c.bound }

// DataErrors returns the data error counter.
func (c *Collector) DataErrors() prometheus.Counter { return c.dataErrors }

// ListChanges returns the list notification counters.
func (c *Collector) ListChanges() *prometheus.CounterVec { return c.listChanges }
