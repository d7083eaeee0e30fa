package domain

import (
	"math"
	"testing"
)

func TestApplyMean(t *testing.T) {
	got := Apply(TransformMean, []float64{1, 2, 3})
	if got != 2 {
		t.Fatalf("Mean = %v, want 2", got)
	}
}

func TestApplyEmptyYieldsNaN(t *testing.T) {
	for _, k := range []TransformKind{TransformMean, TransformStdDev, TransformMin, TransformMax, TransformNone} {
		if got := Apply(k, nil); !math.IsNaN(got) {
			t.Fatalf("Apply(%v, nil) = %v, want NaN", k, got)
		}
	}
}

func TestApplyNonePassesThroughLastValue(t *testing.T) {
	got := Apply(TransformNone, []float64{1, 2, 3})
	if got != 3 {
		t.Fatalf("None transform = %v, want 3 (last value)", got)
	}
}

func TestParseTransformKind(t *testing.T) {
	cases := map[string]TransformKind{
		"":       TransformNone,
		"none":   TransformNone,
		"mean":   TransformMean,
		"stddev": TransformStdDev,
		"min":    TransformMin,
		"max":    TransformMax,
	}
	for in, want := range cases {
		got, ok := ParseTransformKind(in)
		if !ok || got != want {
			t.Fatalf("ParseTransformKind(%q) = (%v, %v), want (%v, true)", in, got, ok, want)
		}
	}
	if _, ok := ParseTransformKind("bogus"); ok {
		t.Fatalf("expected ParseTransformKind to reject unknown kind")
	}
}
