package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractJSON extracts a sub-value from a JSON sample according to an
// extraction spec such as "x", "x.y", "[3]", or "x[3].y". Walking an
// already-decoded document by this small path grammar is core hub
// behavior, implemented directly on encoding/json since no third-party
// JSON path/query library is available.
func ExtractJSON(s *Sample, spec string) (*Sample, error) {
	if s.dataType != JSON {
		return nil, fmt.Errorf("%w: extraction source is not a JSON sample", ErrBadParameter)
	}

	var doc any
	if err := json.Unmarshal([]byte(s.strVal), &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrBadParameter, err)
	}

	steps, err := parseExtractionSpec(spec)
	if err != nil {
		return nil, err
	}

	cur := doc
	for _, step := range steps {
		switch step.kind {
		case stepField:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not an object", ErrNotFound, step.field)
			}
			v, ok := m[step.field]
			if !ok {
				return nil, fmt.Errorf("%w: no member %q", ErrNotFound, step.field)
			}
			cur = v
		case stepIndex:
			a, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: index %d used on non-array", ErrNotFound, step.index)
			}
			if step.index < 0 || step.index >= len(a) {
				return nil, fmt.Errorf("%w: index %d out of range", ErrNotFound, step.index)
			}
			cur = a[step.index]
		}
	}

	return sampleFromJSONValue(s.timestamp, cur)
}

func sampleFromJSONValue(ts float64, v any) (*Sample, error) {
	switch t := v.(type) {
	case nil:
		return NewTrigger(ts), nil
	case bool:
		return NewBool(ts, t), nil
	case float64:
		return NewNumeric(ts, t), nil
	case string:
		return NewString(ts, t)
	default:
		// Object or array: re-encode as a fresh JSON sample.
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFault, err)
		}
		return NewJSON(ts, string(b))
	}
}

type stepKind int

const (
	stepField stepKind = iota
	stepIndex
)

type extractionStep struct {
	kind  stepKind
	field string
	index int
}

// parseExtractionSpec parses specs shaped like "x", "x.y", "[3]", "x[3].y".
func parseExtractionSpec(spec string) ([]extractionStep, error) {
	var steps []extractionStep
	i := 0
	n := len(spec)
	for i < n {
		switch {
		case spec[i] == '.':
			i++
		case spec[i] == '[':
			end := strings.IndexByte(spec[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated index in extraction spec %q", ErrBadParameter, spec)
			}
			idxStr := spec[i+1 : i+end]
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q in extraction spec %q", ErrBadParameter, idxStr, spec)
			}
			steps = append(steps, extractionStep{kind: stepIndex, index: idx})
			i += end + 1
		default:
			j := i
			for j < n && spec[j] != '.' && spec[j] != '[' {
				j++
			}
			field := spec[i:j]
			if field == "" {
				return nil, fmt.Errorf("%w: empty field in extraction spec %q", ErrBadParameter, spec)
			}
			steps = append(steps, extractionStep{kind: stepField, field: field})
			i = j
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty extraction spec", ErrBadParameter)
	}
	return steps, nil
}
