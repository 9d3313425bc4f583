package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Engine computes the five-year budget recurrence. It is stateless between
// calls and never mutates the scenario it is given.
type Engine struct {
	Logger Logger
}

// NewEngine creates a projection engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger replaces the engine logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// resolveDrivers returns the effective drivers for year index i: the
// baseline inputs, with any enabled per-year override replacing individual
// fields when set.
func resolveDrivers(inputs domain.YearInputs, override *domain.YearOverride) domain.YearInputs {
	if override == nil || !override.Enabled {
		return inputs
	}
	resolved := inputs
	if override.CouncilTaxIncrease != nil {
		resolved.CouncilTaxIncrease = *override.CouncilTaxIncrease
	}
	if override.PayAward != nil {
		resolved.PayAward = *override.PayAward
	}
	if override.GeneralInflation != nil {
		resolved.GeneralInflation = *override.GeneralInflation
	}
	if override.SocialCareGrowth != nil {
		resolved.SocialCareGrowth = *override.SocialCareGrowth
	}
	return resolved
}

// pipelineSavingsForYear sums the confidence-weighted pipeline contributions
// for projection year `year` (1-based).
func pipelineSavingsForYear(pipeline []domain.SavingsItem, year int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range pipeline {
		total = total.Add(item.ContributionForYear(year))
	}
	return total
}

// compound returns base * (1 + rate/100)^exp.
func compound(base, rate decimal.Decimal, exp int) decimal.Decimal {
	factor := one.Add(rate.Div(hundred))
	return base.Mul(factor.Pow(decimal.NewFromInt(int64(exp))))
}

// Project runs the year-by-year recurrence and returns one row per horizon
// year. The base budget rolled into the next year is the net budget
// requirement, not actual spend.
//
// Exponent conventions are deliberate and differ by line: demand pressures
// compound from the baseline at i, council tax at i+1, and the grant/rates
// lines at i. Changing any of them changes every golden output downstream.
func (e *Engine) Project(scenario *domain.Scenario) []domain.ProjectionRow {
	a := scenario.Assumptions
	rows := make([]domain.ProjectionRow, 0, domain.ProjectionHorizon)

	previousBase := a.PreviousYearBase
	cumulativeGap := decimal.Zero
	debtCost := scenario.Debt.AnnualCost()

	for i := 0; i < domain.ProjectionHorizon; i++ {
		drivers := resolveDrivers(scenario.Inputs, scenario.OverrideForYear(i))

		payPriceInflation := previousBase.Mul(drivers.PayAward.Add(drivers.GeneralInflation)).Div(hundred)
		demandPressures := compound(a.DemandPressures, drivers.SocialCareGrowth, i)
		plannedSavings := a.PlannedSavings.Add(pipelineSavingsForYear(scenario.Pipeline, i+1))

		netBudgetRequirement := previousBase.
			Add(payPriceInflation).
			Add(demandPressures).
			Add(debtCost).
			Sub(plannedSavings)

		councilTaxRevenue := compound(a.TaxBase.Mul(a.BandDCharge), drivers.CouncilTaxIncrease, i+1)
		businessRates := compound(a.BusinessRatesBase, a.FundingGrowth.BusinessRates, i)
		revenueSupportGrant := compound(a.RevenueSupportGrantBase, a.FundingGrowth.RevenueSupportGrant, i)
		otherGrants := compound(a.OtherGrantsBase, a.FundingGrowth.OtherGrants, i)

		shockApplied := decimal.Zero
		if scenario.Shock.Enabled && scenario.Shock.YearIndex == i {
			shockApplied = scenario.Shock.Amount
		}

		totalFunding := councilTaxRevenue.
			Add(businessRates).
			Add(revenueSupportGrant).
			Add(otherGrants).
			Add(shockApplied)

		annualGap := netBudgetRequirement.Sub(totalFunding)
		cumulativeGap = cumulativeGap.Add(annualGap)
		reservesEnd := a.CurrentReserves.Sub(cumulativeGap)

		rows = append(rows, domain.ProjectionRow{
			Year:                 i + 1,
			CalendarYear:         a.BaseYear + i + 1,
			PayPriceInflation:    payPriceInflation,
			DemandPressures:      demandPressures,
			PlannedSavings:       plannedSavings,
			DebtCost:             debtCost,
			CouncilTaxRevenue:    councilTaxRevenue,
			BusinessRates:        businessRates,
			RevenueSupportGrant:  revenueSupportGrant,
			OtherGrants:          otherGrants,
			ShockApplied:         shockApplied,
			NetBudgetRequirement: netBudgetRequirement,
			TotalFunding:         totalFunding,
			AnnualGap:            annualGap,
			ReservesEnd:          reservesEnd,
		})

		previousBase = netBudgetRequirement
	}

	e.Logger.Debugf("projected %d years for scenario %q", len(rows), scenario.Name)
	return rows
}
