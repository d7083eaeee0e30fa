// Package datahub is the public facade for embedding the Data Hub
// broker inside another Go program, mirroring the internal packages'
// I/O, Admin, Query, and Config services as methods on Hub.
package datahub

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/databroker/datahub/internal/adapters/backup"
	"github.com/databroker/datahub/internal/adapters/observability"
	"github.com/databroker/datahub/internal/config"
	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/hub"
	"github.com/databroker/datahub/internal/observation"
	"github.com/databroker/datahub/internal/ports"
	"github.com/databroker/datahub/internal/restree"
	"github.com/databroker/datahub/internal/snapshot"
)

// Re-exported types so consumers only need to import this one package.
type (
	Hub              = hub.Hub
	Entry            = restree.Entry
	Handler          = restree.Handler
	HandlerFunc      = restree.HandlerFunc
	Sample           = domain.Sample
	DataType         = domain.DataType
	TransformKind    = domain.TransformKind
	ObservationConfig = hub.ObservationConfig
	Observability    = ports.Observability
	Scanner          = snapshot.Scanner
	ScanOptions      = snapshot.Options
	Format           = snapshot.Format
)

// Re-exported constants and constructors.
const (
	Trigger = domain.Trigger
	Bool    = domain.Bool
	Numeric = domain.Numeric
	String  = domain.String
	JSON    = domain.JSON

	TransformNone   = domain.TransformNone
	TransformMean   = domain.TransformMean
	TransformStdDev = domain.TransformStdDev
	TransformMin    = domain.TransformMin
	TransformMax    = domain.TransformMax

	FormatJSON   = snapshot.FormatJSON
	FormatOctave = snapshot.FormatOctave

	AdminIdentity = hub.AdminIdentity
)

var (
	NewTrigger = domain.NewTrigger
	NewBool    = domain.NewBool
	NewNumeric = domain.NewNumeric
	NewString  = domain.NewString
	NewJSON    = domain.NewJSON
)

// Option configures a new Hub.
type Option = hub.Option

// WithObservability installs a logging/metrics sink.
func WithObservability(o ports.Observability) Option { return hub.WithObservability(o) }

// WithSQLiteBackup installs the SQLite observation backup store rooted
// at dir, creating it if necessary.
func WithSQLiteBackup(dir string) (Option, error) {
	store, err := backup.NewSQLiteStore(dir)
	if err != nil {
		return nil, err
	}
	return hub.WithBackupStore(store), nil
}

// NewHub creates an empty Data Hub.
func NewHub(opts ...Option) *Hub { return hub.NewHub(opts...) }

// NewPrometheusObservability creates the default Observability
// implementation, backed by the Prometheus client library.
func NewPrometheusObservability() Observability { return observability.NewPromObs() }

// ServeMetrics starts the /metrics HTTP endpoint for the Prometheus
// Observability adapter. It blocks until the listener errors.
func ServeMetrics(addr string) error { return observability.ServeMetrics(addr) }

// LoadConfig loads the hub process's own YAML runtime configuration.
func LoadConfig(path string) (*config.Config, error) { return config.Load(path) }

// ValidateAdminConfig schema-validates an admin observation/state
// document and returns its parsed form.
func ValidateAdminConfig(raw []byte) (*config.AdminConfig, error) {
	return config.ValidateAdminConfig(raw)
}

// ApplyAdminConfig installs the observations and state assignments
// described by cfg on h: every "o" entry creates an observation, then
// any "o" entry naming a source wires its route, once every observation
// it could point to already exists, and finally every "s" entry installs
// an admin override on the resource at that path (created as a
// Placeholder if it doesn't exist yet). An existing observation is not
// reconfigured: creating it again fails with ErrDuplicate.
func ApplyAdminConfig(h *Hub, cfg *config.AdminConfig) error {
	for path, o := range cfg.Observations {
		kind, _ := domain.ParseTransformKind(o.Transform)
		oc := ObservationConfig{
			MinPeriod:      o.MinPeriod,
			ChangeBy:       o.ChangeBy,
			ExtractionSpec: o.ExtractionSpec,
			Transform:      kind,
			BufferCapacity: o.BufferCapacity,
			BackupPeriod:   o.BackupPeriod,
		}
		if o.LowLimit != nil {
			oc.HasLowLimit, oc.LowLimit = true, *o.LowLimit
		}
		if o.HighLimit != nil {
			oc.HasHighLimit, oc.HighLimit = true, *o.HighLimit
		}
		if _, err := h.CreateObservation(path, oc); err != nil {
			return err
		}
	}
	for path, o := range cfg.Observations {
		if o.Source == "" {
			continue
		}
		if err := h.SetSource(path, o.Source); err != nil {
			return err
		}
	}
	for path, st := range cfg.State {
		sample, err := stateSample(st)
		if err != nil {
			return err
		}
		if err := h.SetOverride(path, sample); err != nil {
			return err
		}
	}
	return nil
}

// stateSample decodes an admin config "s" entry's {v, dt?} pair into a
// Sample, defaulting dt to numeric as the config's encoded-type tag
// allows omitting it for the common case.
func stateSample(st config.StateSpec) (*domain.Sample, error) {
	dt, ok := domain.ParseDataType(st.DataType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown data type tag %q", domain.ErrBadParameter, st.DataType)
	}
	switch dt {
	case domain.Trigger:
		return domain.NewTrigger(0), nil
	case domain.Bool:
		var v bool
		if err := json.Unmarshal(st.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: state value: %v", domain.ErrBadParameter, err)
		}
		return domain.NewBool(0, v), nil
	case domain.Numeric:
		var v float64
		if err := json.Unmarshal(st.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: state value: %v", domain.ErrBadParameter, err)
		}
		return domain.NewNumeric(0, v), nil
	case domain.String:
		var v string
		if err := json.Unmarshal(st.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: state value: %v", domain.ErrBadParameter, err)
		}
		return domain.NewString(0, v)
	default: // domain.JSON
		return domain.NewJSON(0, string(st.Value))
	}
}

// RunSnapshotScan streams a snapshot/delta scan of h's resource tree to
// w and returns the scan's unique token.
func RunSnapshotScan(h *Hub, opts ScanOptions, w io.Writer, onComplete func(int, error)) (string, error) {
	return snapshot.NewScanner(h.Tree()).Scan(opts, w, onComplete)
}

// BackupRecord is one persisted sample in an observation's backup.
type BackupRecord = observation.Record
