package restree

import (
	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

// Filter returns the resource's filter chain configuration. Only
// meaningful for Observation and Placeholder resources.
func (r *Resource) Filter() *observation.Filter {
	if r.filter == nil {
		r.filter = &observation.Filter{}
	}
	return r.filter
}

// TransformKind returns the resource's configured buffer transform.
func (r *Resource) TransformKind() domain.TransformKind { return r.transformKind }

// SetTransformKind sets the resource's buffer transform.
func (r *Resource) SetTransformKind(k domain.TransformKind) { r.transformKind = k }

// Buffer returns the resource's sample buffer, creating an empty
// zero-capacity one on first use.
func (r *Resource) Buffer() *observation.Buffer {
	if r.buffer == nil {
		r.buffer = observation.NewBuffer(0)
	}
	return r.buffer
}

// BackupPeriod returns the minimum interval between backup writes, in
// seconds. Zero or negative disables backups.
func (r *Resource) BackupPeriod() float64 { return r.backupPeriod }

// SetBackupPeriod sets the resource's backup interval.
func (r *Resource) SetBackupPeriod(seconds float64) { r.backupPeriod = seconds }
