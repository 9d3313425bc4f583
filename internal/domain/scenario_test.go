package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopy_Independent(t *testing.T) {
	base := DefaultScenario()
	override := decimal.NewFromFloat(1.99)
	base.Overrides[1] = YearOverride{Enabled: true, CouncilTaxIncrease: &override}

	clone := base.DeepCopy()

	clone.Inputs.PayAward = decimal.Zero
	clone.Pipeline[0].Confidence = decimal.Zero
	*clone.Overrides[1].CouncilTaxIncrease = decimal.Zero
	clone.Assumptions.ServiceSplits["Adult Social Care"] = decimal.Zero
	clone.Assumptions.ServiceAdjustments["Adult Social Care"] = ServiceAdjustment{}

	assert.True(t, base.Inputs.PayAward.Equal(decimal.NewFromFloat(4.0)))
	assert.True(t, base.Pipeline[0].Confidence.Equal(decimal.NewFromFloat(0.7)))
	assert.True(t, base.Overrides[1].CouncilTaxIncrease.Equal(decimal.NewFromFloat(1.99)))
	assert.True(t, base.Assumptions.ServiceSplits["Adult Social Care"].Equal(decimal.NewFromFloat(0.38)))
	assert.True(t, base.Assumptions.ServiceAdjustments["Adult Social Care"].DemandAdj.Equal(decimal.NewFromFloat(2.5)))
}

func TestDeepCopy_Nil(t *testing.T) {
	var s *Scenario

	assert.Nil(t, s.DeepCopy())
}

func TestDeepCopy_NilOverrideFieldsStayNil(t *testing.T) {
	base := DefaultScenario()

	clone := base.DeepCopy()

	require.Len(t, clone.Overrides, ProjectionHorizon)
	for _, o := range clone.Overrides {
		assert.Nil(t, o.CouncilTaxIncrease)
		assert.Nil(t, o.PayAward)
	}
}
