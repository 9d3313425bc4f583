package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

// driverAccessor mutates a single driver on a copy of the year inputs.
type driverAccessor struct {
	name  string
	apply func(*domain.YearInputs, decimal.Decimal)
	read  func(domain.YearInputs) decimal.Decimal
}

var drivers = []driverAccessor{
	{
		name:  domain.DriverCouncilTax,
		apply: func(in *domain.YearInputs, v decimal.Decimal) { in.CouncilTaxIncrease = v },
		read:  func(in domain.YearInputs) decimal.Decimal { return in.CouncilTaxIncrease },
	},
	{
		name:  domain.DriverPayAward,
		apply: func(in *domain.YearInputs, v decimal.Decimal) { in.PayAward = v },
		read:  func(in domain.YearInputs) decimal.Decimal { return in.PayAward },
	},
	{
		name:  domain.DriverGeneralInflation,
		apply: func(in *domain.YearInputs, v decimal.Decimal) { in.GeneralInflation = v },
		read:  func(in domain.YearInputs) decimal.Decimal { return in.GeneralInflation },
	},
	{
		name:  domain.DriverSocialCareGrowth,
		apply: func(in *domain.YearInputs, v decimal.Decimal) { in.SocialCareGrowth = v },
		read:  func(in domain.YearInputs) decimal.Decimal { return in.SocialCareGrowth },
	},
}

// year1Gap projects a scenario and returns the first year's gap.
func (e *Engine) year1Gap(scenario *domain.Scenario) decimal.Decimal {
	rows := e.Project(scenario)
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[0].AnnualGap
}

// withInputs returns a copy of the scenario carrying replacement baseline
// drivers. Maps and slices are shared; the engine treats them as read-only.
func withInputs(scenario *domain.Scenario, inputs domain.YearInputs) *domain.Scenario {
	clone := *scenario
	clone.Inputs = inputs
	return &clone
}

// DriverSensitivities perturbs each driver by plus and minus one absolute
// percentage point, holding the others fixed, and reports the year-1 gap
// deltas. The pair is a one-sided finite difference, not a derivative:
// compounding terms make Up and Down legitimately asymmetric.
func (e *Engine) DriverSensitivities(scenario *domain.Scenario) []domain.SensitivityEntry {
	baseGap := e.year1Gap(scenario)

	entries := make([]domain.SensitivityEntry, 0, len(drivers))
	for _, d := range drivers {
		base := d.read(scenario.Inputs)

		up := scenario.Inputs
		d.apply(&up, base.Add(one))
		gapUp := e.year1Gap(withInputs(scenario, up))

		down := scenario.Inputs
		d.apply(&down, base.Sub(one))
		gapDown := e.year1Gap(withInputs(scenario, down))

		entries = append(entries, domain.SensitivityEntry{
			Driver: d.name,
			Up:     gapUp.Sub(baseGap),
			Down:   baseGap.Sub(gapDown),
		})
	}
	return entries
}
