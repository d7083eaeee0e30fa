package observation

import "github.com/databroker/datahub/internal/domain"

// Filter holds an observation's filtering settings. The rules are
// evaluated in a fixed order: minimum period, change-by threshold,
// low/high limit, then JSON sub-extraction. Any rejection is silent —
// the push simply has no further effect, it is not an error.
type Filter struct {
	MinPeriod float64

	ChangeBy float64

	HasLowLimit  bool
	LowLimit     float64
	HasHighLimit bool
	HighLimit    float64

	ExtractionSpec string
}

// Evaluate decides whether candidate passes the filter chain given the
// last accepted sample (nil if none yet) and its timestamp. It returns
// the sample to hand downstream (possibly the result of JSON extraction)
// and whether it was accepted at all.
func (f *Filter) Evaluate(last *domain.Sample, candidate *domain.Sample) (*domain.Sample, bool) {
	if last != nil && f.MinPeriod > 0 {
		if candidate.Timestamp()-last.Timestamp() < f.MinPeriod {
			return nil, false
		}
	}

	if last != nil && f.ChangeBy != 0 && candidate.Type() != domain.Trigger {
		if !f.changedEnough(last, candidate) {
			return nil, false
		}
	}

	if !f.withinLimits(candidate) {
		return nil, false
	}

	if f.ExtractionSpec != "" {
		if candidate.Type() != domain.JSON {
			return nil, false
		}
		extracted, err := domain.ExtractJSON(candidate, f.ExtractionSpec)
		if err != nil {
			return nil, false
		}
		candidate = extracted
	}

	return candidate, true
}

func (f *Filter) changedEnough(last, candidate *domain.Sample) bool {
	switch candidate.Type() {
	case domain.Numeric:
		diff := candidate.Numeric() - last.Numeric()
		if diff < 0 {
			diff = -diff
		}
		return diff >= f.ChangeBy
	case domain.Bool:
		return candidate.Bool() != last.Bool()
	case domain.String, domain.JSON:
		return candidate.String() != last.String()
	default:
		return true
	}
}

func (f *Filter) withinLimits(candidate *domain.Sample) bool {
	if !f.HasLowLimit && !f.HasHighLimit {
		return true
	}
	var v float64
	switch candidate.Type() {
	case domain.Numeric:
		v = candidate.Numeric()
	case domain.Bool:
		if candidate.Bool() {
			v = 1
		}
	default:
		return true
	}
	if f.HasLowLimit && v < f.LowLimit {
		return false
	}
	if f.HasHighLimit && v > f.HighLimit {
		return false
	}
	return true
}
