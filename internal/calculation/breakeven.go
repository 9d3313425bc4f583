package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

const breakEvenIterations = 20

var (
	breakEvenLow  = decimal.Zero
	breakEvenHigh = decimal.NewFromInt(5)
	two           = decimal.NewFromInt(2)
)

// SolveCouncilTaxIncrease bisects the council-tax-increase percentage over
// the closed bracket [0, 5] for the smallest rate that closes the year-1
// gap. The iteration count is fixed at 20 with no tolerance exit, so the
// answer carries a resolution of 5/2^20 percentage points; that is a display
// precision bound, not a convergence failure. Returns nil when the engine
// yields no rows.
func (e *Engine) SolveCouncilTaxIncrease(scenario *domain.Scenario) *decimal.Decimal {
	rows := e.Project(scenario)
	if len(rows) == 0 {
		return nil
	}

	gapAt := func(rate decimal.Decimal) decimal.Decimal {
		inputs := scenario.Inputs
		inputs.CouncilTaxIncrease = rate
		return e.year1Gap(withInputs(scenario, inputs))
	}

	low := breakEvenLow
	high := breakEvenHigh
	var best *decimal.Decimal

	for i := 0; i < breakEvenIterations; i++ {
		mid := low.Add(high).Div(two)
		if gapAt(mid).GreaterThan(decimal.Zero) {
			// Still a shortfall at this rate.
			low = mid
		} else {
			rate := mid
			best = &rate
			high = mid
		}
	}
	return best
}

// SolveAdditionalSavings returns the additional savings needed to close the
// year-1 gap: the gap itself when positive, otherwise zero. This is a direct
// readout, not a search.
func (e *Engine) SolveAdditionalSavings(scenario *domain.Scenario) decimal.Decimal {
	gap := e.year1Gap(scenario)
	if gap.GreaterThan(decimal.Zero) {
		return gap
	}
	return decimal.Zero
}
