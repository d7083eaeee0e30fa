package restree

import "github.com/databroker/datahub/internal/domain"

// DataType returns the resource's data type. For Observation/Placeholder
// resources this is the type of the most recently accepted sample.
func (r *Resource) DataType() domain.DataType { return r.dataType }

// SetDataType updates the resource's data type, used by Observation and
// Placeholder resources whose type is only known once a sample arrives.
func (r *Resource) SetDataType(dt domain.DataType) { r.dataType = dt }

// Units returns the resource's configured unit string, empty if none.
func (r *Resource) Units() string { return r.units }

// SetUnits sets the resource's unit string.
func (r *Resource) SetUnits(u string) { r.units = u }

// Mandatory reports whether an Output must be pushed before it is
// considered usable.
func (r *Resource) Mandatory() bool { return r.mandatory }

// MarkOptional clears an Output's mandatory flag. Outputs are mandatory
// by default; marking one optional lets a readiness check skip it.
func (r *Resource) MarkOptional() { r.mandatory = false }

// OwnerApp returns the identity that created an Input, the only
// identity (besides admin) permitted to push to it directly.
func (r *Resource) OwnerApp() string { return r.ownerApp }

// SetOwnerApp records the creating app's identity.
func (r *Resource) SetOwnerApp(app string) { r.ownerApp = app }

// Current returns the resource's last accepted sample, or nil if none.
func (r *Resource) Current() *domain.Sample { return r.current }

// SetCurrent overwrites the resource's current value. Used internally by
// the push pipeline; callers should go through the hub rather than call
// this directly.
func (r *Resource) SetCurrent(s *domain.Sample) { r.current = s }

// Default returns the resource's configured default value and whether
// one is set.
func (r *Resource) Default() (*domain.Sample, bool) { return r.defaultVal, r.hasDefault }

// SetDefault sets the resource's default value, used when no current
// value has ever been pushed.
func (r *Resource) SetDefault(s *domain.Sample) {
	r.hasDefault = true
	r.defaultVal = s
}

// ClearDefault removes a configured default value.
func (r *Resource) ClearDefault() {
	r.hasDefault = false
	r.defaultVal = nil
}

// Override returns the resource's admin override value and whether one
// is set. While set, it takes precedence over any pushed value.
func (r *Resource) Override() (*domain.Sample, bool) { return r.overrideVal, r.hasOverride }

// SetOverride installs an admin override value.
func (r *Resource) SetOverride(s *domain.Sample) {
	r.hasOverride = true
	r.overrideVal = s
}

// ClearOverride removes an admin override, restoring pushed values.
func (r *Resource) ClearOverride() {
	r.hasOverride = false
	r.overrideVal = nil
}

// HasAdminSettings reports whether the resource carries any
// administrator-installed configuration (a default, an override, or a
// source route) that must survive a delete rather than being discarded
// with the resource itself.
func (r *Resource) HasAdminSettings() bool {
	return r.hasDefault || r.hasOverride || r.source != nil
}

// EffectiveValue returns the value an observer should see: the override
// if one is set, else the current value, else the default, in that
// order of precedence, and whether any value at all is available.
func (r *Resource) EffectiveValue() (*domain.Sample, bool) {
	if r.hasOverride {
		return r.overrideVal, true
	}
	if r.current != nil {
		return r.current, true
	}
	if r.hasDefault {
		return r.defaultVal, true
	}
	return nil, false
}

// Pending returns the sample queued during an open update barrier, or
// nil if none is queued.
func (r *Resource) Pending() *domain.Sample { return r.pending }

// SetPending queues s as the resource's pending push, collapsing any
// previously queued pending sample while the update barrier is open.
func (r *Resource) SetPending(s *domain.Sample) { r.pending = s }

// ClearPending clears the resource's pending push after it has been
// flushed.
func (r *Resource) ClearPending() { r.pending = nil }

// JSONExample returns the example JSON value configured for a JSON-type
// Input, or nil if none has been set. It documents the shape a client
// app intends to push, for tooling that introspects the resource tree.
func (r *Resource) JSONExample() *domain.Sample { return r.jsonExample }

// SetJSONExample installs the example JSON value for a JSON-type Input.
func (r *Resource) SetJSONExample(s *domain.Sample) { r.jsonExample = s }
