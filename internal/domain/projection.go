package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionRow is the complete output for a single projection year.
type ProjectionRow struct {
	Year         int `json:"year"`         // 1-based year within the horizon
	CalendarYear int `json:"calendarYear"` // BaseYear + Year

	// Requirement side
	PayPriceInflation decimal.Decimal `json:"payPriceInflation"`
	DemandPressures   decimal.Decimal `json:"demandPressures"`
	PlannedSavings    decimal.Decimal `json:"plannedSavings"` // base savings plus pipeline
	DebtCost          decimal.Decimal `json:"debtCost"`

	// Funding side
	CouncilTaxRevenue   decimal.Decimal `json:"councilTaxRevenue"`
	BusinessRates       decimal.Decimal `json:"businessRates"`
	RevenueSupportGrant decimal.Decimal `json:"revenueSupportGrant"`
	OtherGrants         decimal.Decimal `json:"otherGrants"`
	ShockApplied        decimal.Decimal `json:"shockApplied"`

	// Headline figures
	NetBudgetRequirement decimal.Decimal `json:"netBudgetRequirement"`
	TotalFunding         decimal.Decimal `json:"totalFunding"`
	AnnualGap            decimal.Decimal `json:"annualGap"`
	ReservesEnd          decimal.Decimal `json:"reservesEnd"`
}

// WaterfallEntry is one labeled delta in the year-1 gap decomposition.
// Offsetting contributions (savings, funding) carry negative amounts.
type WaterfallEntry struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// ServiceYearImpact is the proportional share of one service in one year.
type ServiceYearImpact struct {
	Year        int             `json:"year"`
	Requirement decimal.Decimal `json:"requirement"`
	GapShare    decimal.Decimal `json:"gapShare"`
}

// SensitivityEntry reports the one-sided finite-difference pair for a single
// driver. Up is gap(+1pp) minus the baseline gap, Down is the baseline gap
// minus gap(-1pp); the two differ when the underlying term compounds.
type SensitivityEntry struct {
	Driver string          `json:"driver"`
	Up     decimal.Decimal `json:"up"`
	Down   decimal.Decimal `json:"down"`
}

// StressBand holds the nearest-rank percentile readings for one result
// vector.
type StressBand struct {
	P10 decimal.Decimal `json:"p10"`
	P50 decimal.Decimal `json:"p50"`
	P90 decimal.Decimal `json:"p90"`
}

// StressSummary is the six-value percentile summary of a stress run.
type StressSummary struct {
	Simulations   int        `json:"simulations"`
	Seed          uint32     `json:"seed"`
	Year1Gap      StressBand `json:"year1Gap"`
	Year5Reserves StressBand `json:"year5Reserves"`
}

// Driver names used by sensitivity output and the stress test.
const (
	DriverCouncilTax       = "council_tax_increase"
	DriverPayAward         = "pay_award"
	DriverGeneralInflation = "general_inflation"
	DriverSocialCareGrowth = "social_care_growth"
)
