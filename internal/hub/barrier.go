package hub

import (
	"sync"

	"github.com/databroker/datahub/internal/restree"
)

// barrierState tracks an open update barrier: pushes that arrive while
// depth > 0 collapse to the single latest pending sample per resource,
// flushed in discovery order when the barrier closes
type barrierState struct {
	mu      sync.Mutex
	depth   int
	pending []*restree.Entry
	seen    map[*restree.Entry]bool

	onStart []func()
	onEnd   []func()
}

// StartUpdate opens (or nests into) an update barrier. Start handlers
// fire exactly once, on the 0-to-1 transition.
func (h *Hub) StartUpdate() {
	h.barrier.mu.Lock()
	depth := h.barrier.depth
	h.barrier.depth++
	handlers := h.barrier.onStart
	h.barrier.mu.Unlock()

	if depth == 0 {
		for _, fn := range handlers {
			fn()
		}
	}
}

// EndUpdate closes one level of an update barrier. On the final
// matching EndUpdate, every resource with a pending push is flushed
// through the pipeline in the order it was first touched, then end
// handlers fire exactly once.
func (h *Hub) EndUpdate() {
	h.barrier.mu.Lock()
	if h.barrier.depth == 0 {
		h.barrier.mu.Unlock()
		return
	}
	h.barrier.depth--
	if h.barrier.depth > 0 {
		h.barrier.mu.Unlock()
		return
	}
	pending := h.barrier.pending
	h.barrier.pending = nil
	h.barrier.seen = map[*restree.Entry]bool{}
	handlers := h.barrier.onEnd
	h.barrier.mu.Unlock()

	for _, e := range pending {
		s := e.Resource().Pending()
		e.Resource().ClearPending()
		if s == nil {
			continue
		}
		h.deliver(e, s)
	}
	for _, fn := range handlers {
		fn()
	}
}

// OnUpdateStart registers a handler invoked on every 0-to-1 barrier
// transition.
func (h *Hub) OnUpdateStart(fn func()) {
	h.barrier.mu.Lock()
	defer h.barrier.mu.Unlock()
	h.barrier.onStart = append(h.barrier.onStart, fn)
}

// OnUpdateEnd registers a handler invoked on every matching-to-0 barrier
// transition.
func (h *Hub) OnUpdateEnd(fn func()) {
	h.barrier.mu.Lock()
	defer h.barrier.mu.Unlock()
	h.barrier.onEnd = append(h.barrier.onEnd, fn)
}
