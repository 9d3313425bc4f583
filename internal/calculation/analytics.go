package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

// Waterfall decomposes the first projection year's gap into labeled deltas.
// Contributions to the requirement are positive; savings and funding offset
// it and are negated. Returns an empty slice when there are no rows.
func Waterfall(rows []domain.ProjectionRow, scenario *domain.Scenario) []domain.WaterfallEntry {
	if len(rows) == 0 {
		return []domain.WaterfallEntry{}
	}
	first := rows[0]
	return []domain.WaterfallEntry{
		{Label: "Base budget", Amount: scenario.Assumptions.PreviousYearBase},
		{Label: "Pay & price inflation", Amount: first.PayPriceInflation},
		{Label: "Demand pressures", Amount: first.DemandPressures},
		{Label: "Debt servicing", Amount: first.DebtCost},
		{Label: "Savings programme", Amount: first.PlannedSavings.Neg()},
		{Label: "Total funding", Amount: first.TotalFunding.Neg()},
		{Label: "Budget gap", Amount: first.AnnualGap},
	}
}

// ServiceBreakdown allocates each year's requirement and gap across services
// proportionally to the configured splits, scaled by the per-service
// inflation and demand adjustments. Splits need not sum to 1 and the
// breakdown never feeds back into the engine.
func ServiceBreakdown(rows []domain.ProjectionRow, a domain.Assumptions) map[string][]domain.ServiceYearImpact {
	breakdown := make(map[string][]domain.ServiceYearImpact, len(a.ServiceSplits))
	for service, split := range a.ServiceSplits {
		adj := a.ServiceAdjustments[service] // zero adjustments when absent
		factor := one.Add(adj.InflationAdj.Add(adj.DemandAdj).Div(hundred))
		impacts := make([]domain.ServiceYearImpact, 0, len(rows))
		for _, row := range rows {
			impacts = append(impacts, domain.ServiceYearImpact{
				Year:        row.Year,
				Requirement: row.NetBudgetRequirement.Mul(split).Mul(factor),
				GapShare:    row.AnnualGap.Mul(split).Mul(factor),
			})
		}
		breakdown[service] = impacts
	}
	return breakdown
}

// ServiceNames returns the service keys of a breakdown in stable sorted
// order, for deterministic rendering.
func ServiceNames(breakdown map[string][]domain.ServiceYearImpact) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReserveExhaustion returns the first row, in year order, whose closing
// reserves are at or below zero. The second return is false when reserves
// survive the full horizon.
func ReserveExhaustion(rows []domain.ProjectionRow) (domain.ProjectionRow, bool) {
	for _, row := range rows {
		if row.ReservesEnd.LessThanOrEqual(decimal.Zero) {
			return row, true
		}
	}
	return domain.ProjectionRow{}, false
}
