package restree

import "github.com/databroker/datahub/internal/domain"

// HandlerFunc is invoked whenever a push delivers a new current value to
// the resource it was registered on. The sample is already converted to
// the handler's declared data type.
type HandlerFunc func(path string, s *domain.Sample)

// Handler is a registered push callback, declared against a specific
// data type. Its zero value is not usable; obtain one via
// Resource.AddHandler.
type Handler struct {
	id       int
	dataType domain.DataType
	fn       HandlerFunc
}

// ID returns the handler's registration number on its resource.
// RemoveHandler matches on the *Handler itself, not on this number.
func (h *Handler) ID() int { return h.id }

// AddHandler registers fn to be called, in registration order alongside
// any other handlers on this resource, every time a push is delivered.
// The delivered sample is converted to dataType (the Go analogue of
// add_trigger_push_handler, add_numeric_push_handler, and so on) before
// fn is called, so a string or JSON handler sees every push regardless of
// the resource's native type, while a typed handler sees it coerced into
// its own type. If the resource already holds a current value, fn is
// invoked once immediately with that value, likewise converted
// (replay-on-subscribe).
func (r *Resource) AddHandler(path string, dataType domain.DataType, fn HandlerFunc) *Handler {
	h := &Handler{id: len(r.handlers) + 1, dataType: dataType, fn: fn}
	r.handlers = append(r.handlers, h)
	if r.current != nil {
		if converted, err := r.current.CoerceTo(dataType); err == nil {
			fn(path, converted)
		}
	}
	return h
}

// RemoveHandler unregisters a previously added handler. It is a no-op if
// h was already removed or belongs to a different resource.
func (r *Resource) RemoveHandler(h *Handler) {
	for i, existing := range r.handlers {
		if existing == h {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch calls every registered handler, in registration order, with
// the delivered sample converted to each handler's own declared type.
// A handler whose type cannot be converted to from s (the rare failure
// case on the JSON extraction branches) is skipped; handler dispatch is
// fire-and-forget and conversion failures are never surfaced to the
// pusher. Called by the hub's push pipeline once a resource's current
// value has been updated.
func (r *Resource) Dispatch(path string, s *domain.Sample) {
	for _, h := range r.handlers {
		converted, err := s.CoerceTo(h.dataType)
		if err != nil {
			continue
		}
		h.fn(path, converted)
	}
}
