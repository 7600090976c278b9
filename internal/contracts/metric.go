package contracts

import "fmt"

// Metric is the optional result of a metric derivation: either a usable
// value or an explicit "unavailable" with a reason. Every normalization
// and scoring step handles both arms; unavailable is consumed downstream
// as "exclude", never as zero. No NaN or Inf is ever stored in Value.
type Metric struct {
	Value  float64
	Valid  bool
	Reason string
}

// MetricOf returns an available metric value.
func MetricOf(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Unavailable returns an unavailable metric with the given reason.
func Unavailable(reason string) Metric {
	return Metric{Reason: reason}
}

// Unavailablef returns an unavailable metric with a formatted reason.
func Unavailablef(format string, args ...interface{}) Metric {
	return Metric{Reason: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer for log output.
func (m Metric) String() string {
	if !m.Valid {
		return "unavailable(" + m.Reason + ")"
	}
	return fmt.Sprintf("%.4f", m.Value)
}
