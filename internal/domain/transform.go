package domain

import "math"

// TransformKind selects how an Observation reduces its buffer window to a
// single value
type TransformKind int

const (
	TransformNone TransformKind = iota
	TransformMean
	TransformStdDev
	TransformMin
	TransformMax
)

func (k TransformKind) String() string {
	switch k {
	case TransformNone:
		return "none"
	case TransformMean:
		return "mean"
	case TransformStdDev:
		return "stddev"
	case TransformMin:
		return "min"
	case TransformMax:
		return "max"
	default:
		return "unknown"
	}
}

// ParseTransformKind maps the configuration-file transform strings
// ("none", "mean", "stddev", "min", "max") onto TransformKind.
func ParseTransformKind(s string) (TransformKind, bool) {
	switch s {
	case "", "none":
		return TransformNone, true
	case "mean":
		return TransformMean, true
	case "stddev":
		return TransformStdDev, true
	case "min":
		return TransformMin, true
	case "max":
		return TransformMax, true
	default:
		return TransformNone, false
	}
}

// Mean returns the arithmetic mean of values, or NaN if empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values, or NaN if empty.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Min returns the smallest value, or NaN if empty.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or NaN if empty.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Apply reduces values according to the transform kind. TransformNone
// returns the last element unchanged (pass-through), or NaN if empty.
func Apply(kind TransformKind, values []float64) float64 {
	switch kind {
	case TransformMean:
		return Mean(values)
	case TransformStdDev:
		return StdDev(values)
	case TransformMin:
		return Min(values)
	case TransformMax:
		return Max(values)
	default:
		if len(values) == 0 {
			return math.NaN()
		}
		return values[len(values)-1]
	}
}
