package valuation

import (
	"math"

	"github.com/investorcenter/icscore/internal/contracts"
)

// Growth guard rails for the explicit DCF stage.
const (
	minDCFGrowth     = -0.10
	maxDCFGrowth     = 0.30
	defaultDCFGrowth = 0.05

	highGrowthYears = 5
	fadeYears       = 5
)

// DCFInputs are the entity-specific inputs to the two-stage model.
// Growth is the near-term FCF growth estimate as a fraction; nil
// falls back to the default and out-of-band values are clamped.
type DCFInputs struct {
	FCF     float64
	Growth  *float64
	WACC    float64
	NetDebt float64
	Shares  float64
}

// DCF values the equity with a two-stage discounted cash flow: five
// years at the near-term growth rate, five years fading linearly into
// the terminal rate, then a Gordon terminal value. The output is fair
// value per share.
func DCF(in DCFInputs, a Assumptions) contracts.Metric {
	if in.FCF <= 0 {
		return contracts.Unavailable("non-positive fcf")
	}
	if in.Shares <= 0 {
		return contracts.Unavailable("non-positive share count")
	}
	terminal := a.TerminalGrowth
	if in.WACC <= terminal {
		return contracts.Unavailablef("wacc %.4f not above terminal growth %.4f", in.WACC, terminal)
	}

	growth := defaultDCFGrowth
	if in.Growth != nil {
		growth = clamp(*in.Growth, minDCFGrowth, maxDCFGrowth)
	}

	fcf := in.FCF
	var pv float64
	for year := 1; year <= highGrowthYears+fadeYears; year++ {
		g := growth
		if year > highGrowthYears {
			// Linear fade from the near-term rate to the terminal
			// rate over the second stage.
			frac := float64(highGrowthYears+fadeYears-year) / float64(fadeYears)
			g = terminal + (growth-terminal)*frac
		}
		fcf *= 1 + g
		pv += fcf / math.Pow(1+in.WACC, float64(year))
	}

	terminalValue := fcf * (1 + terminal) / (in.WACC - terminal)
	pv += terminalValue / math.Pow(1+in.WACC, float64(highGrowthYears+fadeYears))

	equity := pv - in.NetDebt
	if equity <= 0 {
		return contracts.Unavailable("non-positive equity value")
	}
	return contracts.MetricOf(equity / in.Shares)
}
