package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilmodel/mtfp/internal/domain"
)

func TestWaterfall_DecomposesYear1Gap(t *testing.T) {
	engine := NewEngine()
	scenario := domain.DefaultScenario()
	rows := engine.Project(scenario)

	entries := Waterfall(rows, scenario)

	require.Len(t, entries, 7)
	assert.Equal(t, "Base budget", entries[0].Label)
	assert.Equal(t, "Budget gap", entries[6].Label)

	// Positive contributions, then negated offsets, must net to the gap.
	sum := decimal.Zero
	for _, e := range entries[:6] {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.Equal(rows[0].AnnualGap), "waterfall deltas must sum to the year-1 gap")
	assert.True(t, entries[6].Amount.Equal(rows[0].AnnualGap))

	assert.True(t, entries[4].Amount.LessThan(decimal.Zero), "savings entry is negated")
	assert.True(t, entries[5].Amount.LessThan(decimal.Zero), "funding entry is negated")
}

func TestWaterfall_EmptyRows(t *testing.T) {
	entries := Waterfall(nil, domain.DefaultScenario())

	assert.Empty(t, entries, "no rows yields an empty waterfall")
}

func TestServiceBreakdown_ProportionalAllocation(t *testing.T) {
	engine := NewEngine()
	scenario := domain.DefaultScenario()
	rows := engine.Project(scenario)

	breakdown := ServiceBreakdown(rows, scenario.Assumptions)

	require.Len(t, breakdown, len(scenario.Assumptions.ServiceSplits))

	impacts, ok := breakdown["Adult Social Care"]
	require.True(t, ok)
	require.Len(t, impacts, domain.ProjectionHorizon)

	split := scenario.Assumptions.ServiceSplits["Adult Social Care"]
	adj := scenario.Assumptions.ServiceAdjustments["Adult Social Care"]
	factor := decimal.NewFromInt(1).Add(adj.InflationAdj.Add(adj.DemandAdj).Div(decimal.NewFromInt(100)))

	for i, impact := range impacts {
		assert.Equal(t, i+1, impact.Year)
		assert.True(t, impact.Requirement.Equal(rows[i].NetBudgetRequirement.Mul(split).Mul(factor)))
		assert.True(t, impact.GapShare.Equal(rows[i].AnnualGap.Mul(split).Mul(factor)))
	}
}

func TestServiceBreakdown_MissingAdjustmentDefaultsToZero(t *testing.T) {
	engine := NewEngine()
	scenario := domain.DefaultScenario()
	scenario.Assumptions.ServiceSplits["Unadjusted"] = decimal.NewFromFloat(0.05)

	rows := engine.Project(scenario)
	breakdown := ServiceBreakdown(rows, scenario.Assumptions)

	impacts, ok := breakdown["Unadjusted"]
	require.True(t, ok)
	expected := rows[0].NetBudgetRequirement.Mul(decimal.NewFromFloat(0.05))
	assert.True(t, impacts[0].Requirement.Equal(expected),
		"a service without an adjustment record uses factor 1")
}

func TestServiceNames_SortedStable(t *testing.T) {
	engine := NewEngine()
	scenario := domain.DefaultScenario()
	breakdown := ServiceBreakdown(engine.Project(scenario), scenario.Assumptions)

	names := ServiceNames(breakdown)

	require.Len(t, names, len(breakdown))
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i], "names must be sorted")
	}
}

func TestReserveExhaustion(t *testing.T) {
	engine := NewEngine()

	t.Run("default scenario exhausts within the horizon", func(t *testing.T) {
		rows := engine.Project(domain.DefaultScenario())

		row, exhausted := ReserveExhaustion(rows)

		require.True(t, exhausted, "gap growth outpaces funding in the default plan")
		assert.True(t, row.ReservesEnd.LessThanOrEqual(decimal.Zero))
		// Must be the first such year.
		for _, r := range rows {
			if r.Year == row.Year {
				break
			}
			assert.True(t, r.ReservesEnd.GreaterThan(decimal.Zero))
		}
	})

	t.Run("healthy reserves never exhaust", func(t *testing.T) {
		scenario := domain.DefaultScenario()
		scenario.Assumptions.CurrentReserves = decimal.NewFromInt(2_000_000_000)

		_, exhausted := ReserveExhaustion(engine.Project(scenario))

		assert.False(t, exhausted)
	})

	t.Run("empty rows", func(t *testing.T) {
		_, exhausted := ReserveExhaustion(nil)

		assert.False(t, exhausted)
	})
}
