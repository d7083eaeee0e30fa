package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// adminConfigSchema validates an admin-supplied observation/state
// document of the form {"o": {<name>: {r,d,p?,st?,lt?,gt?,b?,f?,s?}},
// "s": {<path>: {v, dt?}}}. "o" installs observations keyed by resource
// name; "s" assigns override state keyed by resource path.
const adminConfigSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"o": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["r"],
				"properties": {
					"r":  {"type": "number", "minimum": 0},
					"d":  {"type": "number", "minimum": 0},
					"p":  {"type": "number", "minimum": 0},
					"st": {"type": "string", "enum": ["none", "mean", "stddev", "min", "max"]},
					"lt": {"type": "number"},
					"gt": {"type": "number"},
					"b":  {"type": "integer", "minimum": 0},
					"f":  {"type": "string"},
					"s":  {"type": "string"}
				}
			}
		},
		"s": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["v"],
				"properties": {
					"v":  {},
					"dt": {"type": "string", "enum": ["trigger", "bool", "numeric", "string", "json"]}
				}
			}
		}
	}
}`

// ObservationSpec is one value of an admin config document's "o" map,
// keyed by resource name/path.
//
//	r  minimum period between accepted pushes, in seconds (required)
//	d  minimum change required to accept a new numeric value
//	p  backup-to-store period, in seconds
//	st statistic/transform applied to the buffer window
//	lt low limit (reject pushes below this value)
//	gt high limit (reject pushes above this value)
//	b  buffer capacity, in samples
//	f  JSON extraction specifier
//	s  source path to route into this observation
type ObservationSpec struct {
	MinPeriod      float64  `json:"r"`
	ChangeBy       float64  `json:"d"`
	BackupPeriod   float64  `json:"p"`
	Transform      string   `json:"st"`
	LowLimit       *float64 `json:"lt,omitempty"`
	HighLimit      *float64 `json:"gt,omitempty"`
	BufferCapacity int      `json:"b"`
	ExtractionSpec string   `json:"f"`
	Source         string   `json:"s"`
}

// StateSpec is one value of an admin config document's "s" map, keyed
// by resource path: an administrator-installed value assignment. dt
// names the value's data type tag ("numeric" if omitted).
type StateSpec struct {
	Value    json.RawMessage `json:"v"`
	DataType string          `json:"dt"`
}

// AdminConfig is a fully parsed and schema-validated admin document.
type AdminConfig struct {
	Observations map[string]ObservationSpec `json:"o"`
	State        map[string]StateSpec       `json:"s"`
}

var compiledAdminSchema *jsonschema.Schema

func adminSchema() (*jsonschema.Schema, error) {
	if compiledAdminSchema != nil {
		return compiledAdminSchema, nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("admin-config.json", strings.NewReader(adminConfigSchema)); err != nil {
		return nil, err
	}
	sch, err := c.Compile("admin-config.json")
	if err != nil {
		return nil, err
	}
	compiledAdminSchema = sch
	return sch, nil
}

// ValidateAdminConfig validates raw against the admin config schema and,
// on success, unmarshals it into an AdminConfig. Errors report a byte
// offset into raw: either the exact offset of a JSON syntax error, or a
// best-effort offset of the first schema-invalid field.
func ValidateAdminConfig(raw []byte) (*AdminConfig, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		if serr, ok := err.(*json.SyntaxError); ok {
			return nil, fmt.Errorf("admin config: invalid JSON at byte %d: %w", serr.Offset, err)
		}
		return nil, fmt.Errorf("admin config: invalid JSON: %w", err)
	}

	sch, err := adminSchema()
	if err != nil {
		return nil, fmt.Errorf("admin config: compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			offset := locateOffset(raw, verr)
			return nil, fmt.Errorf("admin config: schema validation failed at byte %d: %s", offset, verr.Error())
		}
		return nil, fmt.Errorf("admin config: schema validation failed: %w", err)
	}

	var cfg AdminConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("admin config: %w", err)
	}
	return &cfg, nil
}

// locateOffset makes a best-effort guess at raw's byte offset for a
// schema validation failure, by searching for the failing field's key
// text. jsonschema/v5 does not track source positions itself, so this
// is approximate: it finds the first occurrence of the leaf property
// name from the error's instance location, falling back to 0.
func locateOffset(raw []byte, verr *jsonschema.ValidationError) int {
	loc := verr.InstanceLocation
	if len(loc) == 0 {
		return 0
	}
	leaf := loc[len(loc)-1]
	needle := []byte(fmt.Sprintf("%q", leaf))
	if idx := bytes.Index(raw, needle); idx >= 0 {
		return idx
	}
	return 0
}
