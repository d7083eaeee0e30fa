package hub

import (
	"fmt"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/ports"
	"github.com/databroker/datahub/internal/restree"
)

// CreateInput creates an Input resource, owned by app
// Only app (or the admin interface) may push to it directly.
func (h *Hub) CreateInput(path string, dt domain.DataType, units, app string) (*restree.Entry, error) {
	e, err := h.tree.CreateInput(path, dt, units)
	if err != nil {
		return nil, err
	}
	e.Resource().SetOwnerApp(app)
	h.obs.LogInfo("input_created", ports.Field{Key: "path", Value: path})
	return e, nil
}

// CreateOutput creates an Output resource.
func (h *Hub) CreateOutput(path string, dt domain.DataType, units string, mandatory bool) (*restree.Entry, error) {
	e, err := h.tree.CreateOutput(path, dt, units, mandatory)
	if err != nil {
		return nil, err
	}
	h.obs.LogInfo("output_created", ports.Field{Key: "path", Value: path})
	return e, nil
}

// CreateObservation creates an Observation resource with the given
// filter/transform/buffer configuration. If a backup store holds
// previously persisted records for path, they are restored into the new
// resource's buffer and current value before it is returned.
func (h *Hub) CreateObservation(path string, cfg ObservationConfig) (*restree.Entry, error) {
	e, err := h.tree.CreateObservation(path)
	if err != nil {
		return nil, err
	}
	cfg.apply(e.Resource())

	records, err := h.backup.Restore(path)
	if err != nil {
		h.obs.LogError("backup_restore_failed", err)
	} else if len(records) > 0 {
		res := e.Resource()
		for _, rec := range records {
			res.Buffer().Push(rec.Sample)
		}
		res.SetCurrent(records[len(records)-1].Sample)
	}

	h.obs.LogInfo("observation_created", ports.Field{Key: "path", Value: path})
	return e, nil
}

// ObservationConfig carries the filter, transform, and buffer/backup
// settings for a newly created Observation.
type ObservationConfig struct {
	MinPeriod      float64
	ChangeBy       float64
	HasLowLimit    bool
	LowLimit       float64
	HasHighLimit   bool
	HighLimit      float64
	ExtractionSpec string
	Transform      domain.TransformKind
	BufferCapacity int
	BackupPeriod   float64
}

func (c ObservationConfig) apply(r *restree.Resource) {
	f := r.Filter()
	f.MinPeriod = c.MinPeriod
	f.ChangeBy = c.ChangeBy
	f.HasLowLimit, f.LowLimit = c.HasLowLimit, c.LowLimit
	f.HasHighLimit, f.HighLimit = c.HasHighLimit, c.HighLimit
	f.ExtractionSpec = c.ExtractionSpec
	r.SetTransformKind(c.Transform)
	r.Buffer().SetCapacity(c.BufferCapacity)
	r.SetBackupPeriod(c.BackupPeriod)
}

// DeleteResource deletes the resource at path, downgrading it to a
// Placeholder instead of tombstoning it if administrator settings on it
// survive the delete (see Tree.DeleteResource).
func (h *Hub) DeleteResource(path string) error {
	if err := h.tree.DeleteResource(path); err != nil {
		return err
	}
	h.obs.LogInfo("resource_deleted", ports.Field{Key: "path", Value: path})
	return nil
}

// SetSource routes destPath to receive sourcePath's pushed values.
func (h *Hub) SetSource(destPath, sourcePath string) error {
	if err := h.tree.SetSource(destPath, sourcePath); err != nil {
		return err
	}
	h.obs.LogInfo("source_routed", ports.Field{Key: "dest", Value: destPath}, ports.Field{Key: "source", Value: sourcePath})
	return nil
}

// RemoveSource clears destPath's source route.
func (h *Hub) RemoveSource(destPath string) error {
	return h.tree.RemoveSource(destPath)
}

// GetEntry resolves path, optionally including tombstoned entries.
func (h *Hub) GetEntry(path string, withZombies bool) (*restree.Entry, error) {
	return h.tree.GetEntry(path, withZombies)
}

// AddHandler subscribes fn to path's current-value updates, converting
// every delivered sample to dataType first (the add_{type}_push_handler
// family from the I/O service), and replaying the current value
// immediately, likewise converted, if one is already set.
func (h *Hub) AddHandler(path string, dataType domain.DataType, fn restree.HandlerFunc) (*restree.Handler, error) {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return nil, err
	}
	return e.Resource().AddHandler(path, dataType, fn), nil
}

// RemoveHandler unsubscribes a previously added handler.
func (h *Hub) RemoveHandler(path string, handle *restree.Handler) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	e.Resource().RemoveHandler(handle)
	return nil
}

// MarkOptional clears the mandatory flag on an Output resource. Outputs
// are mandatory by default; an optional one may be left unpushed
// without failing a readiness check.
func (h *Hub) MarkOptional(path string) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	if e.Kind() != restree.KindOutput {
		return fmt.Errorf("%w: %s is not an output", domain.ErrBadParameter, path)
	}
	e.Resource().MarkOptional()
	e.Touch(h.clock())
	return nil
}

// SetJSONExample installs an example JSON value on a JSON-type Input,
// documenting the shape its owning app intends to push. It is rejected
// for anything other than a JSON-type Input.
func (h *Hub) SetJSONExample(path, example string) error {
	e, err := h.tree.GetEntry(path, false)
	if err != nil {
		return err
	}
	if e.Kind() != restree.KindInput {
		return fmt.Errorf("%w: %s is not an input", domain.ErrBadParameter, path)
	}
	if e.Resource().DataType() != domain.JSON {
		return fmt.Errorf("%w: %s is not a JSON-type input", domain.ErrBadParameter, path)
	}
	sample, err := domain.NewJSON(0, example)
	if err != nil {
		return err
	}
	e.Resource().SetJSONExample(sample)
	e.Touch(h.clock())
	return nil
}
