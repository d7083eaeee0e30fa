package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CoerceTo converts s to the declared type of an Input/Output resource,
// implementing the 5x5 type-coercion matrix. The timestamp of the
// returned sample always equals s.Timestamp().
//
// Same-type coercion is a no-op (returns s itself). Cross-type coercion
// that would require allocation and fails returns ErrNoMemory — in
// practice that only happens on the JSON branches, where malformed input
// or an extraction that needs a fresh sample can legitimately fail.
func (s *Sample) CoerceTo(target DataType) (*Sample, error) {
	if s.dataType == target {
		return s, nil
	}

	ts := s.timestamp

	switch target {
	case Trigger:
		// Any -> trigger synthesises a trigger with the source timestamp.
		return NewTrigger(ts), nil

	case Bool:
		switch s.dataType {
		case Trigger:
			return NewBool(ts, false), nil
		case Numeric:
			return NewBool(ts, s.numVal != 0), nil
		case String:
			return NewBool(ts, s.strVal != ""), nil
		case JSON:
			v, err := jsonToBool(s.strVal)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNoMemory, err)
			}
			return NewBool(ts, v), nil
		}

	case Numeric:
		switch s.dataType {
		case Trigger:
			return NewNumeric(ts, math.NaN()), nil
		case Bool:
			if s.boolVal {
				return NewNumeric(ts, 1), nil
			}
			return NewNumeric(ts, 0), nil
		case String:
			// Empty string -> 0, non-empty -> 1. No float parsing: a
			// string sample's numeric coercion reports presence, not
			// content.
			if s.strVal == "" {
				return NewNumeric(ts, 0), nil
			}
			return NewNumeric(ts, 1), nil
		case JSON:
			v, err := jsonToNumeric(s.strVal)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNoMemory, err)
			}
			return NewNumeric(ts, v), nil
		}

	case String:
		return NewString(ts, s.ConvertToString())

	case JSON:
		return NewJSON(ts, s.ConvertToJSON())
	}

	return nil, fmt.Errorf("%w: unsupported coercion %s -> %s", ErrBadParameter, s.dataType, target)
}

func jsonToBool(raw string) (bool, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		return t != "", nil
	case nil:
		return false, nil
	default:
		return true, nil // non-empty object/array
	}
}

func jsonToNumeric(raw string) (float64, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	default:
		return math.NaN(), nil
	}
}
