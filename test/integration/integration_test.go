package integration

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/compare"
	"github.com/councilmodel/mtfp/internal/config"
	"github.com/councilmodel/mtfp/internal/domain"
	"github.com/councilmodel/mtfp/internal/output"
	"github.com/councilmodel/mtfp/internal/transform"
)

const planYAML = `
name: "Integration plan"
assumptions:
  base_year: 2025
  previous_year_base: 200000000
  demand_pressures: 14000000
  planned_savings: 10000000
  current_reserves: 25000000
  tax_base: 62000
  band_d_charge: 1850
  business_rates_base: 65000000
  revenue_support_grant_base: 30000000
  other_grants_base: 14000000
  funding_growth:
    business_rates: 1.5
    revenue_support_grant: -5.0
    other_grants: 0.5
  service_splits:
    "Adult Social Care": 0.38
    "Children's Services": 0.22
    "Environment & Waste": 0.12
    "Highways & Transport": 0.10
    "Culture & Leisure": 0.08
    "Central Services": 0.10
  service_adjustments:
    "Adult Social Care":
      inflation_adj: 1.0
      demand_adj: 2.5
inputs:
  council_tax_increase: 3.0
  pay_award: 4.0
  general_inflation: 3.0
  social_care_growth: 4.5
overrides:
  - enabled: false
  - enabled: true
    pay_award: 3.0
debt:
  principal: 120000000
  interest_rate: 4.2
  capital_financing: 6500000
pipeline:
  - name: "Digital transformation"
    amount: 2500000
    start_year: 1
    recurring: true
    confidence: 0.7
  - name: "Shared services"
    amount: 1800000
    start_year: 2
    recurring: true
    confidence: 0.55
  - name: "Asset disposals"
    amount: 3000000
    start_year: 3
    recurring: false
    confidence: 0.5
`

func loadPlan(t *testing.T) *domain.Scenario {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planYAML), 0o644))

	scenario, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	return scenario
}

func TestFullProjectionFlow(t *testing.T) {
	scenario := loadPlan(t)
	engine := calculation.NewEngine()

	rows := engine.Project(scenario)
	require.Len(t, rows, domain.ProjectionHorizon)

	assert.Equal(t, 2026, rows[0].CalendarYear)
	assert.True(t, rows[0].NetBudgetRequirement.Equal(decimal.NewFromInt(227_790_000)),
		"year-1 requirement %s", rows[0].NetBudgetRequirement)
	assert.True(t, rows[0].AnnualGap.Equal(decimal.NewFromInt(649_000)),
		"year-1 gap %s", rows[0].AnnualGap)

	// The parsed override trims year 2 pay awards to 3%, so year 2 carries
	// 6% pay and price inflation on the rolled-forward base.
	expectedInflation := rows[0].NetBudgetRequirement.Mul(decimal.NewFromInt(6)).Div(decimal.NewFromInt(100))
	assert.True(t, rows[1].PayPriceInflation.Equal(expectedInflation),
		"year-2 inflation %s", rows[1].PayPriceInflation)

	waterfall := calculation.Waterfall(rows, scenario)
	require.Len(t, waterfall, 7)
	sum := decimal.Zero
	for _, entry := range waterfall[:6] {
		sum = sum.Add(entry.Amount)
	}
	assert.True(t, sum.Equal(waterfall[6].Amount), "waterfall sums to the gap, got %s", sum)
}

func TestBreakEvenRateClosesGapWhenApplied(t *testing.T) {
	scenario := loadPlan(t)
	engine := calculation.NewEngine()

	rate := engine.SolveCouncilTaxIncrease(scenario)
	require.NotNil(t, rate)

	solved, err := transform.ApplyTransforms(scenario, []transform.ScenarioTransform{
		transform.SetDriver{Driver: domain.DriverCouncilTax, Value: *rate},
	})
	require.NoError(t, err)

	rows := engine.Project(solved)
	assert.True(t, rows[0].AnnualGap.LessThanOrEqual(decimal.Zero),
		"gap at solved rate %s is %s", rate, rows[0].AnnualGap)
}

func TestCompareFlow(t *testing.T) {
	scenario := loadPlan(t)
	comparer := compare.NewEngine(calculation.NewEngine())

	set, err := comparer.Compare(scenario, []string{"freeze-council-tax", "savings-slippage"})
	require.NoError(t, err)
	require.Len(t, set.Alternatives, 2)

	for _, alt := range set.Alternatives {
		assert.True(t, alt.GapDeltaFromBase.IsPositive(), alt.ScenarioName)
	}
}

func TestStressFlowDeterministic(t *testing.T) {
	scenario := loadPlan(t)
	engine := calculation.NewEngine()
	params := domain.StressParameters{
		Seed:            42,
		Simulations:     200,
		InflationSigma:  decimal.NewFromFloat(1.0),
		DemandSigma:     decimal.NewFromFloat(1.5),
		PaySigma:        decimal.NewFromFloat(0.75),
		CouncilTaxSigma: decimal.NewFromFloat(0.5),
	}

	first := engine.RunStressTest(scenario, params)
	second := engine.RunStressTest(scenario, params)

	assert.Equal(t, first, second)
	assert.True(t, first.Year1Gap.P10.LessThanOrEqual(first.Year1Gap.P50))
	assert.True(t, first.Year1Gap.P50.LessThanOrEqual(first.Year1Gap.P90))
}

func TestExportFlow(t *testing.T) {
	scenario := loadPlan(t)
	engine := calculation.NewEngine()
	rows := engine.Project(scenario)

	csvData, err := output.ProjectionCSV(rows)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, domain.ProjectionHorizon+1)
	assert.Contains(t, lines[1], "649000.00")

	stress := engine.RunStressTest(scenario, domain.StressParameters{Seed: 1, Simulations: 50})
	meta := &output.ExportMetadata{Scenario: scenario, Stress: &stress}
	wbData, err := output.BuildWorkbook(rows, meta).Bytes()
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(wbData), int64(len(wbData)))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "[Content_Types].xml")
	assert.Contains(t, names, "xl/workbook.xml")
	assert.Contains(t, names, "xl/worksheets/sheet1.xml")

	identical, err := output.BuildWorkbook(rows, meta).Bytes()
	require.NoError(t, err)
	assert.Equal(t, wbData, identical, "workbook serialization must be byte stable")
}
