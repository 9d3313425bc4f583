package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

// SetFundingShock enables a one-time funding adjustment in a single
// projection year, replacing any shock already configured.
type SetFundingShock struct {
	YearIndex int
	Amount    decimal.Decimal
}

func (t SetFundingShock) Name() string { return "set_funding_shock" }

func (t SetFundingShock) Description() string {
	return fmt.Sprintf("apply a %s funding shock in year index %d", t.Amount.String(), t.YearIndex)
}

func (t SetFundingShock) Validate(base *domain.Scenario) error {
	if t.YearIndex < 0 || t.YearIndex >= domain.ProjectionHorizon {
		return fmt.Errorf("shock year index %d outside [0, %d)", t.YearIndex, domain.ProjectionHorizon)
	}
	return nil
}

func (t SetFundingShock) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	out := base.DeepCopy()
	out.Shock = domain.FundingShock{Enabled: true, YearIndex: t.YearIndex, Amount: t.Amount}
	return out, nil
}

// ScaleConfidence multiplies the delivery confidence of every pipeline
// savings item, modelling slippage or firmer delivery. The result is capped
// at full confidence.
type ScaleConfidence struct {
	Factor decimal.Decimal
}

func (t ScaleConfidence) Name() string { return "scale_confidence" }

func (t ScaleConfidence) Description() string {
	return fmt.Sprintf("scale pipeline delivery confidence by %s", t.Factor.String())
}

func (t ScaleConfidence) Validate(base *domain.Scenario) error {
	if t.Factor.IsNegative() {
		return fmt.Errorf("confidence factor must not be negative, got %s", t.Factor.String())
	}
	return nil
}

func (t ScaleConfidence) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	out := base.DeepCopy()
	ceiling := decimal.NewFromInt(1)
	for i := range out.Pipeline {
		scaled := out.Pipeline[i].Confidence.Mul(t.Factor)
		if scaled.GreaterThan(ceiling) {
			scaled = ceiling
		}
		out.Pipeline[i].Confidence = scaled
	}
	return out, nil
}
