package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionHorizon is the fixed number of years the model projects forward.
const ProjectionHorizon = 5

// YearInputs holds the four percentage drivers that shape a projection year.
type YearInputs struct {
	CouncilTaxIncrease decimal.Decimal `yaml:"council_tax_increase" json:"councilTaxIncrease"`
	PayAward           decimal.Decimal `yaml:"pay_award" json:"payAward"`
	GeneralInflation   decimal.Decimal `yaml:"general_inflation" json:"generalInflation"`
	SocialCareGrowth   decimal.Decimal `yaml:"social_care_growth" json:"socialCareGrowth"`
}

// YearOverride optionally replaces baseline drivers for a single projection
// year. A nil field falls back to the baseline driver even when the override
// is enabled.
type YearOverride struct {
	Enabled            bool             `yaml:"enabled" json:"enabled"`
	CouncilTaxIncrease *decimal.Decimal `yaml:"council_tax_increase,omitempty" json:"councilTaxIncrease,omitempty"`
	PayAward           *decimal.Decimal `yaml:"pay_award,omitempty" json:"payAward,omitempty"`
	GeneralInflation   *decimal.Decimal `yaml:"general_inflation,omitempty" json:"generalInflation,omitempty"`
	SocialCareGrowth   *decimal.Decimal `yaml:"social_care_growth,omitempty" json:"socialCareGrowth,omitempty"`
}

// FundingShock is a one-time signed adjustment to a single year's total
// funding. YearIndex is 0-based.
type FundingShock struct {
	Enabled   bool            `yaml:"enabled" json:"enabled"`
	YearIndex int             `yaml:"year_index" json:"yearIndex"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
}

// DebtBlock describes the capital financing position. Principal is not
// amortized; the annual cost is identical every year.
type DebtBlock struct {
	Principal        decimal.Decimal `yaml:"principal" json:"principal"`
	InterestRate     decimal.Decimal `yaml:"interest_rate" json:"interestRate"`
	CapitalFinancing decimal.Decimal `yaml:"capital_financing" json:"capitalFinancing"`
}

// AnnualCost returns the constant per-year debt service cost.
func (d DebtBlock) AnnualCost() decimal.Decimal {
	return d.Principal.Mul(d.InterestRate.Div(decimal.NewFromInt(100))).Add(d.CapitalFinancing)
}

// SavingsItem is a named savings initiative in the delivery pipeline.
// StartYear is 1-based against the projection horizon.
type SavingsItem struct {
	Name       string          `yaml:"name" json:"name"`
	Amount     decimal.Decimal `yaml:"amount" json:"amount"`
	StartYear  int             `yaml:"start_year" json:"startYear"`
	Recurring  bool            `yaml:"recurring" json:"recurring"`
	Confidence decimal.Decimal `yaml:"confidence" json:"confidence"`
}

// ContributionForYear returns the confidence-weighted contribution of the
// item to projection year `year` (1-based). Recurring items contribute from
// StartYear onward, one-off items only in StartYear itself.
func (s SavingsItem) ContributionForYear(year int) decimal.Decimal {
	if s.Recurring {
		if s.StartYear <= year {
			return s.Amount.Mul(s.Confidence)
		}
		return decimal.Zero
	}
	if s.StartYear == year {
		return s.Amount.Mul(s.Confidence)
	}
	return decimal.Zero
}

// FundingGrowth holds the fixed annual growth rates (percent) for the three
// non-council-tax funding lines.
type FundingGrowth struct {
	BusinessRates       decimal.Decimal `yaml:"business_rates" json:"businessRates"`
	RevenueSupportGrant decimal.Decimal `yaml:"revenue_support_grant" json:"revenueSupportGrant"`
	OtherGrants         decimal.Decimal `yaml:"other_grants" json:"otherGrants"`
}

// ServiceAdjustment holds per-service inflation and demand adjustments
// (percent) applied on top of the proportional split.
type ServiceAdjustment struct {
	InflationAdj decimal.Decimal `yaml:"inflation_adj" json:"inflationAdj"`
	DemandAdj    decimal.Decimal `yaml:"demand_adj" json:"demandAdj"`
}

// Assumptions is the static part of a scenario: baselines, funding bases and
// the service split tables. It is read-only for the duration of a
// computation.
type Assumptions struct {
	BaseYear         int             `yaml:"base_year" json:"baseYear"`
	PreviousYearBase decimal.Decimal `yaml:"previous_year_base" json:"previousYearBase"`
	DemandPressures  decimal.Decimal `yaml:"demand_pressures" json:"demandPressures"`
	PlannedSavings   decimal.Decimal `yaml:"planned_savings" json:"plannedSavings"`
	CurrentReserves  decimal.Decimal `yaml:"current_reserves" json:"currentReserves"`

	TaxBase     decimal.Decimal `yaml:"tax_base" json:"taxBase"`
	BandDCharge decimal.Decimal `yaml:"band_d_charge" json:"bandDCharge"`

	BusinessRatesBase       decimal.Decimal `yaml:"business_rates_base" json:"businessRatesBase"`
	RevenueSupportGrantBase decimal.Decimal `yaml:"revenue_support_grant_base" json:"revenueSupportGrantBase"`
	OtherGrantsBase         decimal.Decimal `yaml:"other_grants_base" json:"otherGrantsBase"`
	FundingGrowth           FundingGrowth   `yaml:"funding_growth" json:"fundingGrowth"`

	ServiceSplits      map[string]decimal.Decimal   `yaml:"service_splits" json:"serviceSplits"`
	ServiceAdjustments map[string]ServiceAdjustment `yaml:"service_adjustments" json:"serviceAdjustments"`
}

// StressParameters configures the seeded Monte Carlo stress test. The sigma
// values are absolute percentage-point standard deviations per driver.
type StressParameters struct {
	Seed            uint32          `yaml:"seed" json:"seed"`
	Simulations     int             `yaml:"simulations" json:"simulations"`
	InflationSigma  decimal.Decimal `yaml:"inflation_sigma" json:"inflationSigma"`
	DemandSigma     decimal.Decimal `yaml:"demand_sigma" json:"demandSigma"`
	PaySigma        decimal.Decimal `yaml:"pay_sigma" json:"paySigma"`
	CouncilTaxSigma decimal.Decimal `yaml:"council_tax_sigma" json:"councilTaxSigma"`
}

// Scenario bundles everything the projection engine needs for one run.
type Scenario struct {
	Name        string         `yaml:"name" json:"name"`
	Assumptions Assumptions    `yaml:"assumptions" json:"assumptions"`
	Inputs      YearInputs     `yaml:"inputs" json:"inputs"`
	Overrides   []YearOverride `yaml:"overrides" json:"overrides"`
	Shock       FundingShock   `yaml:"funding_shock" json:"fundingShock"`
	Debt        DebtBlock      `yaml:"debt" json:"debt"`
	Pipeline    []SavingsItem  `yaml:"pipeline" json:"pipeline"`
}

// OverrideForYear returns the override record for year index i, or nil when
// none is configured.
func (s *Scenario) OverrideForYear(i int) *YearOverride {
	if i < 0 || i >= len(s.Overrides) {
		return nil
	}
	return &s.Overrides[i]
}

func copyDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// DeepCopy returns an independent copy of the scenario. Mutating the copy,
// including its overrides, pipeline and service tables, leaves the original
// untouched.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	clone := *s

	clone.Overrides = make([]YearOverride, len(s.Overrides))
	copy(clone.Overrides, s.Overrides)
	for i := range clone.Overrides {
		o := &clone.Overrides[i]
		o.CouncilTaxIncrease = copyDecimalPtr(o.CouncilTaxIncrease)
		o.PayAward = copyDecimalPtr(o.PayAward)
		o.GeneralInflation = copyDecimalPtr(o.GeneralInflation)
		o.SocialCareGrowth = copyDecimalPtr(o.SocialCareGrowth)
	}

	clone.Pipeline = make([]SavingsItem, len(s.Pipeline))
	copy(clone.Pipeline, s.Pipeline)

	if s.Assumptions.ServiceSplits != nil {
		clone.Assumptions.ServiceSplits = make(map[string]decimal.Decimal, len(s.Assumptions.ServiceSplits))
		for name, share := range s.Assumptions.ServiceSplits {
			clone.Assumptions.ServiceSplits[name] = share
		}
	}
	if s.Assumptions.ServiceAdjustments != nil {
		clone.Assumptions.ServiceAdjustments = make(map[string]ServiceAdjustment, len(s.Assumptions.ServiceAdjustments))
		for name, adj := range s.Assumptions.ServiceAdjustments {
			clone.Assumptions.ServiceAdjustments[name] = adj
		}
	}

	return &clone
}

// DefaultScenario returns the baseline medium-term plan used by the CLI when
// no scenario file is supplied, and by the test suite as the golden scenario.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name: "Baseline MTFP",
		Assumptions: Assumptions{
			BaseYear:         2025,
			PreviousYearBase: decimal.NewFromInt(200_000_000),
			DemandPressures:  decimal.NewFromInt(14_000_000),
			PlannedSavings:   decimal.NewFromInt(10_000_000),
			CurrentReserves:  decimal.NewFromInt(25_000_000),

			TaxBase:     decimal.NewFromInt(62_000),
			BandDCharge: decimal.NewFromInt(1_850),

			BusinessRatesBase:       decimal.NewFromInt(65_000_000),
			RevenueSupportGrantBase: decimal.NewFromInt(30_000_000),
			OtherGrantsBase:         decimal.NewFromInt(14_000_000),
			FundingGrowth: FundingGrowth{
				BusinessRates:       decimal.NewFromFloat(1.5),
				RevenueSupportGrant: decimal.NewFromFloat(-5.0),
				OtherGrants:         decimal.NewFromFloat(0.5),
			},

			ServiceSplits: map[string]decimal.Decimal{
				"Adult Social Care":    decimal.NewFromFloat(0.38),
				"Children's Services":  decimal.NewFromFloat(0.22),
				"Environment & Waste":  decimal.NewFromFloat(0.12),
				"Highways & Transport": decimal.NewFromFloat(0.10),
				"Culture & Leisure":    decimal.NewFromFloat(0.08),
				"Central Services":     decimal.NewFromFloat(0.10),
			},
			ServiceAdjustments: map[string]ServiceAdjustment{
				"Adult Social Care":    {InflationAdj: decimal.NewFromFloat(1.0), DemandAdj: decimal.NewFromFloat(2.5)},
				"Children's Services":  {InflationAdj: decimal.NewFromFloat(0.5), DemandAdj: decimal.NewFromFloat(1.5)},
				"Environment & Waste":  {InflationAdj: decimal.NewFromFloat(0.5), DemandAdj: decimal.Zero},
				"Highways & Transport": {InflationAdj: decimal.NewFromFloat(0.8), DemandAdj: decimal.Zero},
				"Culture & Leisure":    {InflationAdj: decimal.Zero, DemandAdj: decimal.NewFromFloat(-0.5)},
				"Central Services":     {InflationAdj: decimal.Zero, DemandAdj: decimal.Zero},
			},
		},
		Inputs: YearInputs{
			CouncilTaxIncrease: decimal.NewFromFloat(3.0),
			PayAward:           decimal.NewFromFloat(4.0),
			GeneralInflation:   decimal.NewFromFloat(3.0),
			SocialCareGrowth:   decimal.NewFromFloat(4.5),
		},
		Overrides: make([]YearOverride, ProjectionHorizon),
		Debt: DebtBlock{
			Principal:        decimal.NewFromInt(120_000_000),
			InterestRate:     decimal.NewFromFloat(4.2),
			CapitalFinancing: decimal.NewFromInt(6_500_000),
		},
		Pipeline: []SavingsItem{
			{Name: "Digital transformation", Amount: decimal.NewFromInt(2_500_000), StartYear: 1, Recurring: true, Confidence: decimal.NewFromFloat(0.7)},
			{Name: "Shared services", Amount: decimal.NewFromInt(1_800_000), StartYear: 2, Recurring: true, Confidence: decimal.NewFromFloat(0.55)},
			{Name: "Asset disposals", Amount: decimal.NewFromInt(3_000_000), StartYear: 3, Recurring: false, Confidence: decimal.NewFromFloat(0.5)},
		},
	}
}
