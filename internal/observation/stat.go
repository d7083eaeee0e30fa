package observation

import "github.com/databroker/datahub/internal/domain"

// ResolveSince turns a query service startTime argument into an absolute
// epoch timestamp: values less than thirtyYearsSeconds are treated
// as relative-from-now, larger values are treated as an absolute epoch
// timestamp already.
const thirtyYearsSeconds = 30 * 365.25 * 24 * 3600

func ResolveSince(startTime, now float64) float64 {
	if startTime < thirtyYearsSeconds {
		return now - startTime
	}
	return startTime
}

// Stat reduces the buffer's numeric values with timestamp >= since using
// the given transform kind.
func Stat(b *Buffer, kind domain.TransformKind, since float64) float64 {
	return domain.Apply(kind, b.NumericValuesSince(since))
}
