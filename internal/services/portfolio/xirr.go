package portfolio

import (
	"math"
	"sort"
	"time"
)

// cashFlow is a single dated cash flow for XIRR. Negative = money invested,
// positive = money received or currently held.
type cashFlow struct {
	date   time.Time
	amount float64
}

// computeXIRR finds the annualized internal rate of return via
// Newton-Raphson: the rate r with NPV(r) = sum(amount_i / (1+r)^years_i) = 0,
// where years_i counts days from the earliest flow over 365.25.
//
// Returns the rate as a percentage, or nil when it cannot be computed: fewer
// than two flows, flows all one sign, a flat derivative, the iterate leaving
// [-0.99, 10], or no convergence within 100 iterations. Non-convergence is a
// legitimate outcome, not an error.
func computeXIRR(flows []cashFlow) *float64 {
	const (
		maxIter = 100
		tol     = 1e-6
		guess   = 0.10
		minRate = -0.99
		maxRate = 10.0
	)

	if len(flows) < 2 {
		return nil
	}

	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.amount < 0 {
			hasNeg = true
		}
		if f.amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return nil
	}

	sorted := make([]cashFlow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	baseDate := sorted[0].date
	years := make([]float64, len(sorted))
	for i, f := range sorted {
		days := f.date.Sub(baseDate).Hours() / 24
		years[i] = days / 365.25
	}

	rate := guess
	for iter := 0; iter < maxIter; iter++ {
		npv := 0.0
		dnpv := 0.0
		for i, f := range sorted {
			y := years[i]
			discount := math.Pow(1+rate, y)
			if discount == 0 {
				return nil
			}
			npv += f.amount / discount
			if y != 0 {
				dnpv -= y * f.amount / (discount * (1 + rate))
			}
		}

		if math.Abs(npv) < tol {
			pct := rate * 100
			return &pct
		}
		if math.Abs(dnpv) < tol {
			return nil
		}

		rate -= npv / dnpv
		if math.IsNaN(rate) || rate < minRate || rate > maxRate {
			return nil
		}
	}

	return nil
}
