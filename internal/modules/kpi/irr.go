package kpi

import (
	"math"
	"time"
)

// CashFlow is one dated flow in an IRR schedule. Outflows (buys) are
// negative, inflows (sells, terminal value) positive.
type CashFlow struct {
	Date   string
	Amount float64
}

// Newton-Raphson parameters for the IRR root finder
const (
	irrInitialGuess   = 0.10
	irrMaxIterations  = 100
	irrConvergenceEps = 1e-6
	irrDerivativeEps  = 1e-10
	irrRateFloor      = -0.99
	irrRateCeiling    = 10.0
	daysPerYear       = 365.25
)

// InternalRateOfReturn solves NPV(r) = 0 for the given flows and returns the
// rate as a percentage, clamped to [-100, 1000]. A schedule that cannot
// produce a meaningful rate (fewer than two flows, single-signed flows,
// non-convergence, divergence out of the plausible range) yields 0 - an
// asset with no realized cash flow simply has no rate yet.
func InternalRateOfReturn(flows []CashFlow) float64 {
	if len(flows) < 2 {
		return 0
	}

	hasNegative, hasPositive := false, false
	for _, f := range flows {
		if f.Amount < 0 {
			hasNegative = true
		}
		if f.Amount > 0 {
			hasPositive = true
		}
	}
	if !hasNegative || !hasPositive {
		return 0
	}

	// Convert dates to year fractions since the earliest flow
	times := make([]float64, len(flows))
	earliest := time.Time{}
	parsed := make([]time.Time, len(flows))
	for i, f := range flows {
		t, err := time.Parse("2006-01-02", f.Date)
		if err != nil {
			return 0
		}
		parsed[i] = t
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	for i, t := range parsed {
		times[i] = t.Sub(earliest).Hours() / 24 / daysPerYear
	}

	rate := irrInitialGuess
	for iter := 0; iter < irrMaxIterations; iter++ {
		var npv, derivative float64
		for i, f := range flows {
			t := times[i]
			npv += f.Amount / math.Pow(1+rate, t)
			derivative += -t * f.Amount / math.Pow(1+rate, t+1)
		}

		if math.Abs(derivative) < irrDerivativeEps {
			return 0 // Flat NPV curve, no convergence
		}

		next := rate - npv/derivative
		if next <= irrRateFloor || next >= irrRateCeiling {
			return 0 // Diverging out of the plausible range
		}

		delta := math.Abs(next - rate)
		rate = next
		if delta < irrConvergenceEps {
			break
		}
	}

	percent := rate * 100
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return 0
	}
	return math.Max(-100, math.Min(1000, percent))
}
