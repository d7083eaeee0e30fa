package hub

import (
	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
	"github.com/databroker/datahub/internal/restree"
)

// SetDefault installs a default value for path, created as a Placeholder
// if nothing exists there yet. The default is returned to readers only
// when no value has ever been pushed and no override is active.
func (h *Hub) SetDefault(path string, s *domain.Sample) error {
	e, err := h.tree.GetOrCreatePlaceholder(path)
	if err != nil {
		return err
	}
	e.Resource().SetDefault(s)
	e.Touch(h.clock())
	return nil
}

// ClearDefault removes path's configured default, if any.
func (h *Hub) ClearDefault(path string) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	e.Resource().ClearDefault()
	e.Touch(h.clock())
	return nil
}

// SetOverride installs an admin override for path, created as a
// Placeholder if nothing exists there yet. While active, the override
// takes precedence over both pushed values and the default.
func (h *Hub) SetOverride(path string, s *domain.Sample) error {
	e, err := h.tree.GetOrCreatePlaceholder(path)
	if err != nil {
		return err
	}
	e.Resource().SetOverride(s)
	e.Touch(h.clock())
	return nil
}

// ClearOverride removes path's admin override, restoring pushed values.
func (h *Hub) ClearOverride(path string) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	e.Resource().ClearOverride()
	e.Touch(h.clock())
	return nil
}

// GetValue returns path's effective value: the override if set, else
// the current pushed value, else the default
func (h *Hub) GetValue(path string) (*domain.Sample, error) {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return nil, err
	}
	v, ok := e.Resource().EffectiveValue()
	if !ok {
		return nil, domain.ErrUnavailable
	}
	return v, nil
}

// PushAdmin pushes a sample to path as the admin identity, bypassing the
// creating-app restriction on Inputs.
func (h *Hub) PushAdmin(path string, s *domain.Sample) error {
	return h.Push(path, s, AdminIdentity)
}

// Stat reduces an Observation's buffer over the window starting at
// since (epoch seconds) using the given transform.
func (h *Hub) Stat(path string, kind domain.TransformKind, since float64) (float64, error) {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return 0, err
	}
	if e.Kind() != restree.KindObservation && e.Kind() != restree.KindPlaceholder {
		return 0, domain.ErrBadParameter
	}
	return observation.Stat(e.Resource().Buffer(), kind, since), nil
}

// SetDeletionTrackingEnabled turns deletion tracking on or off across
// the whole resource tree. While on (the default), a deleted resource
// remains visible to snapshot scans as a deletion delta until a scan
// flushes it. Turning it off purges every tombstone already
// accumulated, since no further scan will flush them.
func (h *Hub) SetDeletionTrackingEnabled(enabled bool) {
	h.tree.SetDeletionTrackingEnabled(enabled)
}

// DeletionTrackingEnabled reports whether deletion tracking is active.
func (h *Hub) DeletionTrackingEnabled() bool {
	return h.tree.DeletionTrackingEnabled()
}
