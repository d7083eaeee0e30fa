// Package hub wires the resource tree, the observation filter/transform
// chain, and the update barrier into the Data Hub's push pipeline and
// administrative operations.
package hub

import (
	"time"

	"github.com/databroker/datahub/internal/observation"
	"github.com/databroker/datahub/internal/ports"
	"github.com/databroker/datahub/internal/restree"
)

// Hub is the broker: a resource tree plus the machinery that drives
// pushes through it.
type Hub struct {
	tree   *restree.Tree
	obs    ports.Observability
	backup *observation.Scheduler
	clock  func() float64

	barrier barrierState
}

// Option configures a Hub at construction time.
type Option func(*Hub)

// WithObservability installs a logging/metrics sink.
func WithObservability(o ports.Observability) Option {
	return func(h *Hub) { h.obs = o }
}

// WithBackupStore installs the persistence adapter used to back up
// observation buffers.
func WithBackupStore(s observation.BackupStore) Option {
	return func(h *Hub) { h.backup = observation.NewScheduler(s) }
}

// WithClock overrides the hub's time source. Used by tests; production
// callers get wall-clock seconds by default.
func WithClock(fn func() float64) Option {
	return func(h *Hub) { h.clock = fn }
}

// NewHub creates a Hub with an empty resource tree.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		tree: restree.NewTree(),
		obs:  noopObservability{},
		clock: func() float64 {
			return float64(time.Now().UnixNano()) / 1e9
		},
	}
	h.barrier.seen = map[*restree.Entry]bool{}
	for _, opt := range opts {
		opt(h)
	}
	if h.backup == nil {
		h.backup = observation.NewScheduler(nil)
	}
	h.tree.SetClock(h.clock)
	return h
}

// Tree exposes the underlying resource tree for read-only inspection
// (queries, snapshots). Structural mutation should go through the Hub's
// own methods, not directly through the tree.
func (h *Hub) Tree() *restree.Tree { return h.tree }

// Now returns the hub's current time, in epoch seconds.
func (h *Hub) Now() float64 { return h.clock() }

type noopObservability struct{}

func (noopObservability) LogInfo(string, ...ports.Field)             {}
func (noopObservability) LogError(string, error, ...ports.Field)     {}
func (noopObservability) LogCritical(string, error, ...ports.Field)  {}
func (noopObservability) IncCounter(string, float64)                 {}
func (noopObservability) ObserveLatency(string, float64)             {}
func (noopObservability) SetGauge(string, float64)                   {}
