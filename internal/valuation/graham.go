package valuation

import (
	"math"

	"github.com/investorcenter/icscore/internal/contracts"
)

// grahamMultiplier is Graham's 15x earnings times 1.5x book ceiling.
const grahamMultiplier = 22.5

// GrahamNumber is the classic defensive fair value bound,
// sqrt(22.5 * EPS * book value per share). Both inputs must be
// strictly positive for the geometry to mean anything.
func GrahamNumber(eps, bookValuePerShare float64) contracts.Metric {
	if eps <= 0 {
		return contracts.Unavailable("non-positive eps")
	}
	if bookValuePerShare <= 0 {
		return contracts.Unavailable("non-positive book value per share")
	}
	return contracts.MetricOf(math.Sqrt(grahamMultiplier * eps * bookValuePerShare))
}
