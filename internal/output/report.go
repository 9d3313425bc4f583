package output

import (
	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

// GovernanceNote is one labeled note carried into the Governance sheet.
type GovernanceNote struct {
	Label string `json:"label"`
	Note  string `json:"note"`
}

// ExportMetadata is the optional context block for a full workbook export.
// When nil, only the Projections sheet is emitted.
type ExportMetadata struct {
	Scenario        *domain.Scenario      `json:"scenario"`
	GovernanceNotes []GovernanceNote      `json:"governanceNotes"`
	Stress          *domain.StressSummary `json:"stress"`
}

// BuildWorkbook assembles the export workbook: the Projections sheet always,
// plus the Scenario, Assumptions, Savings, Overrides, Governance and Stress
// sheets when metadata is supplied.
func BuildWorkbook(rows []domain.ProjectionRow, meta *ExportMetadata) *Workbook {
	wb := &Workbook{}
	wb.AddSheet("Projections", projectionsGrid(rows))
	if meta == nil {
		return wb
	}
	wb.AddSheet("Scenario", scenarioGrid(meta.Scenario))
	wb.AddSheet("Assumptions", assumptionsGrid(meta.Scenario))
	wb.AddSheet("Savings", savingsGrid(meta.Scenario))
	wb.AddSheet("Overrides", overridesGrid(meta.Scenario))
	wb.AddSheet("Governance", governanceGrid(meta.GovernanceNotes))
	wb.AddSheet("Stress", stressGrid(meta.Stress))
	return wb
}

func projectionsGrid(rows []domain.ProjectionRow) [][]any {
	grid := [][]any{{
		"Year", "Net Budget Requirement", "Total Funding", "Annual Gap", "Reserves End",
		"Pay & Price Inflation", "Demand Pressures", "Planned Savings", "Debt Cost",
		"Council Tax", "Business Rates", "Revenue Support Grant", "Other Grants", "Shock",
	}}
	for _, row := range rows {
		grid = append(grid, []any{
			row.CalendarYear, row.NetBudgetRequirement, row.TotalFunding, row.AnnualGap, row.ReservesEnd,
			row.PayPriceInflation, row.DemandPressures, row.PlannedSavings, row.DebtCost,
			row.CouncilTaxRevenue, row.BusinessRates, row.RevenueSupportGrant, row.OtherGrants, row.ShockApplied,
		})
	}
	return grid
}

func scenarioGrid(s *domain.Scenario) [][]any {
	if s == nil {
		return [][]any{{"Scenario", ""}}
	}
	grid := [][]any{
		{"Scenario", s.Name},
		{"Base year", s.Assumptions.BaseYear},
		{"Horizon (years)", domain.ProjectionHorizon},
		{"Funding shock enabled", s.Shock.Enabled},
	}
	if s.Shock.Enabled {
		grid = append(grid,
			[]any{"Shock year index", s.Shock.YearIndex},
			[]any{"Shock amount", s.Shock.Amount},
		)
	}
	return grid
}

func assumptionsGrid(s *domain.Scenario) [][]any {
	if s == nil {
		return [][]any{{"Assumptions", ""}}
	}
	a := s.Assumptions
	return [][]any{
		{"Previous year base", a.PreviousYearBase},
		{"Demand pressures baseline", a.DemandPressures},
		{"Planned savings baseline", a.PlannedSavings},
		{"Current reserves", a.CurrentReserves},
		{"Tax base (Band D equivalents)", a.TaxBase},
		{"Band D charge", a.BandDCharge},
		{"Business rates baseline", a.BusinessRatesBase},
		{"Revenue support grant baseline", a.RevenueSupportGrantBase},
		{"Other grants baseline", a.OtherGrantsBase},
		{"Business rates growth %", a.FundingGrowth.BusinessRates},
		{"Revenue support grant growth %", a.FundingGrowth.RevenueSupportGrant},
		{"Other grants growth %", a.FundingGrowth.OtherGrants},
		{"Debt principal", s.Debt.Principal},
		{"Debt interest rate %", s.Debt.InterestRate},
		{"Capital financing", s.Debt.CapitalFinancing},
		{"Council tax increase %", s.Inputs.CouncilTaxIncrease},
		{"Pay award %", s.Inputs.PayAward},
		{"General inflation %", s.Inputs.GeneralInflation},
		{"Social care growth %", s.Inputs.SocialCareGrowth},
	}
}

func savingsGrid(s *domain.Scenario) [][]any {
	grid := [][]any{{"Name", "Amount", "Start Year", "Recurring", "Confidence", "Weighted"}}
	if s == nil {
		return grid
	}
	for _, item := range s.Pipeline {
		grid = append(grid, []any{
			item.Name, item.Amount, item.StartYear, item.Recurring, item.Confidence,
			item.Amount.Mul(item.Confidence),
		})
	}
	return grid
}

func overridesGrid(s *domain.Scenario) [][]any {
	grid := [][]any{{"Year", "Enabled", "Council Tax %", "Pay Award %", "Inflation %", "Social Care %"}}
	if s == nil {
		return grid
	}
	for i, override := range s.Overrides {
		grid = append(grid, []any{
			i + 1,
			override.Enabled,
			overrideCell(override.CouncilTaxIncrease),
			overrideCell(override.PayAward),
			overrideCell(override.GeneralInflation),
			overrideCell(override.SocialCareGrowth),
		})
	}
	return grid
}

// overrideCell renders an optional override value, leaving fallback fields
// blank rather than echoing the baseline.
func overrideCell(v *decimal.Decimal) any {
	if v == nil {
		return ""
	}
	return *v
}

func governanceGrid(notes []GovernanceNote) [][]any {
	grid := [][]any{{"Label", "Note"}}
	for _, note := range notes {
		grid = append(grid, []any{note.Label, note.Note})
	}
	return grid
}

func stressGrid(summary *domain.StressSummary) [][]any {
	if summary == nil {
		return [][]any{{"Stress test", "not run"}}
	}
	return [][]any{
		{"Simulations", summary.Simulations},
		{"Seed", summary.Seed},
		{"Year 1 gap p10", summary.Year1Gap.P10},
		{"Year 1 gap p50", summary.Year1Gap.P50},
		{"Year 1 gap p90", summary.Year1Gap.P90},
		{"Year 5 reserves p10", summary.Year5Reserves.P10},
		{"Year 5 reserves p50", summary.Year5Reserves.P50},
		{"Year 5 reserves p90", summary.Year5Reserves.P90},
	}
}
