package hub

import (
	"fmt"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
	"github.com/databroker/datahub/internal/restree"
)

// AdminIdentity is the actor name permitted to push to any Input,
// bypassing the creating-app restriction
const AdminIdentity = "admin"

// Push delivers a sample to the resource at path, as actor. If an
// update barrier is open (see StartUpdate), the push is queued and
// takes effect at EndUpdate; otherwise it is applied immediately and
// propagated downstream.
func (h *Hub) Push(path string, s *domain.Sample, actor string) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	if e.Kind() == restree.KindNamespace {
		return fmt.Errorf("%w: %s is a namespace", domain.ErrBadParameter, path)
	}
	if e.Kind() == restree.KindInput {
		owner := e.Resource().OwnerApp()
		if actor != AdminIdentity && owner != "" && actor != owner {
			return fmt.Errorf("%w: %s may not push to %s", domain.ErrNotPermitted, actor, path)
		}
	}

	h.barrier.mu.Lock()
	if h.barrier.depth > 0 {
		if !h.barrier.seen[e] {
			h.barrier.seen[e] = true
			h.barrier.pending = append(h.barrier.pending, e)
		}
		e.Resource().SetPending(s)
		h.barrier.mu.Unlock()
		return nil
	}
	h.barrier.mu.Unlock()

	h.deliver(e, s)
	return nil
}

// deliver runs one sample through the filter/transform/dispatch/buffer/
// backup/propagation chain for entry e.
func (h *Hub) deliver(e *restree.Entry, s *domain.Sample) {
	res := e.Resource()

	final := s
	buffered := s
	switch e.Kind() {
	case restree.KindInput, restree.KindOutput:
		if coerced, err := s.CoerceTo(res.DataType()); err != nil {
			h.obs.LogError("push_coerce_failed", err)
			return
		} else {
			final = coerced
		}
	case restree.KindObservation, restree.KindPlaceholder:
		accepted, ok := res.Filter().Evaluate(res.Current(), s)
		if !ok {
			h.obs.IncCounter("datahub_pushes_rejected_total", 1)
			return
		}
		final = accepted
		buffered = accepted
		res.SetDataType(final.Type())

		if kind := res.TransformKind(); kind != domain.TransformNone {
			values := res.Buffer().NumericValues()
			if final.Type() == domain.Numeric {
				values = append(append([]float64{}, values...), final.Numeric())
			}
			final = domain.NewNumeric(final.Timestamp(), domain.Apply(kind, values))
		}
	}

	res.SetCurrent(final)
	e.Touch(h.clock())
	h.obs.IncCounter("datahub_pushes_total", 1)

	res.Dispatch(e.Path(), final)

	if e.Kind() == restree.KindObservation || e.Kind() == restree.KindPlaceholder {
		res.Buffer().Push(buffered)
		records := make([]observation.Record, 0, res.Buffer().Len())
		for _, sample := range res.Buffer().Samples() {
			records = append(records, observation.Record{Timestamp: sample.Timestamp(), Sample: sample})
		}
		start := h.clock()
		err := h.backup.Maybe(e.Path(), start, res.BackupPeriod(), records)
		h.obs.ObserveLatency("datahub_backup_latency_seconds", h.clock()-start)
		if err != nil {
			h.obs.LogError("backup_failed", err)
		}
	}

	for _, dest := range e.Destinations() {
		if dest.Kind() == restree.KindInput {
			// Routing into an Input is permitted to install, but values
			// arriving via the route are silently ignored — Inputs only
			// accept pushes from their creating app or the admin actor.
			continue
		}
		h.deliver(dest, final)
	}
}
