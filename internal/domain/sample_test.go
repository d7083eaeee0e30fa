package domain

import (
	"math"
	"testing"
)

func TestConvertToJSONRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		sample *Sample
		want   string
	}{
		{"trigger", NewTrigger(1), "null"},
		{"bool-true", NewBool(1, true), "true"},
		{"bool-false", NewBool(1, false), "false"},
		{"numeric", NewNumeric(1, 3.5), "3.500000"},
		{"string", mustString("hi"), `"hi"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.sample.ConvertToJSON(); got != c.want {
				t.Fatalf("ConvertToJSON() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestConvertToStringVariants(t *testing.T) {
	if got := NewTrigger(1).ConvertToString(); got != "" {
		t.Fatalf("trigger ConvertToString() = %q, want empty", got)
	}
	if got := NewBool(1, true).ConvertToString(); got != "true" {
		t.Fatalf("bool ConvertToString() = %q, want true", got)
	}
	if got := NewNumeric(1, 42).ConvertToString(); got != "42.000000" {
		t.Fatalf("numeric ConvertToString() = %q, want 42.000000", got)
	}
}

func TestNewStringRejectsOverlong(t *testing.T) {
	big := make([]byte, MaxStringLen+1)
	if _, err := NewString(0, string(big)); err == nil {
		t.Fatalf("expected ErrBadParameter for overlong string")
	}
}

func TestCoerceTriggerToNumericYieldsNaN(t *testing.T) {
	trig := NewTrigger(1000)
	out, err := trig.CoerceTo(Numeric)
	if err != nil {
		t.Fatalf("CoerceTo returned error: %v", err)
	}
	if !math.IsNaN(out.Numeric()) {
		t.Fatalf("expected NaN, got %v", out.Numeric())
	}
	if out.Timestamp() != 1000 {
		t.Fatalf("timestamp not preserved: got %v", out.Timestamp())
	}
}

func TestCoerceAnyToTriggerPreservesTimestamp(t *testing.T) {
	s := NewNumeric(55, 1.23)
	out, err := s.CoerceTo(Trigger)
	if err != nil {
		t.Fatalf("CoerceTo returned error: %v", err)
	}
	if out.Type() != Trigger || out.Timestamp() != 55 {
		t.Fatalf("unexpected coercion result: %+v", out)
	}
}

func TestCoerceStringToBoolEmptyIsFalse(t *testing.T) {
	empty := mustString("")
	nonEmpty := mustString("x")

	out, _ := empty.CoerceTo(Bool)
	if out.Bool() != false {
		t.Fatalf("empty string should coerce to false")
	}
	out, _ = nonEmpty.CoerceTo(Bool)
	if out.Bool() != true {
		t.Fatalf("non-empty string should coerce to true")
	}
}

func TestCoerceStringToNumericIsPresenceNotParsed(t *testing.T) {
	empty := mustString("")
	nonNumeric := mustString("abc")
	numericLooking := mustString("42")

	out, _ := empty.CoerceTo(Numeric)
	if out.Numeric() != 0 {
		t.Fatalf("empty string should coerce to 0, got %v", out.Numeric())
	}
	out, _ = nonNumeric.CoerceTo(Numeric)
	if out.Numeric() != 1 {
		t.Fatalf("non-empty non-numeric string should coerce to 1, got %v", out.Numeric())
	}
	out, _ = numericLooking.CoerceTo(Numeric)
	if out.Numeric() != 1 {
		t.Fatalf("numeric-looking string must not be parsed, should coerce to 1, got %v", out.Numeric())
	}
}

func TestCoerceNumericToBoolNonZero(t *testing.T) {
	zero := NewNumeric(1, 0)
	nonZero := NewNumeric(1, -3.2)

	out, _ := zero.CoerceTo(Bool)
	if out.Bool() != false {
		t.Fatalf("zero should coerce to false")
	}
	out, _ = nonZero.CoerceTo(Bool)
	if out.Bool() != true {
		t.Fatalf("non-zero should coerce to true")
	}
}

func TestExtractJSONNestedField(t *testing.T) {
	sample := mustJSON(`{"x":{"y":3}}`)
	out, err := ExtractJSON(sample, "x.y")
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if out.Type() != Numeric || out.Numeric() != 3 {
		t.Fatalf("unexpected extraction result: %+v", out)
	}
	if out.Timestamp() != sample.Timestamp() {
		t.Fatalf("timestamp not preserved through extraction")
	}
}

func TestExtractJSONIndexAndField(t *testing.T) {
	sample := mustJSON(`{"x":[{"y":1},{"y":2}]}`)
	out, err := ExtractJSON(sample, "x[1].y")
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if out.Numeric() != 2 {
		t.Fatalf("expected 2, got %v", out.Numeric())
	}
}

func TestExtractJSONMissingMemberIsNotFound(t *testing.T) {
	sample := mustJSON(`{"x":1}`)
	if _, err := ExtractJSON(sample, "y"); err == nil {
		t.Fatalf("expected error for missing member")
	}
}

func mustString(v string) *Sample {
	s, err := NewString(1, v)
	if err != nil {
		panic(err)
	}
	return s
}

func mustJSON(v string) *Sample {
	s, err := NewJSON(42, v)
	if err != nil {
		panic(err)
	}
	return s
}
