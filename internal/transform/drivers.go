package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

func readDriver(in domain.YearInputs, driver string) (decimal.Decimal, error) {
	switch driver {
	case domain.DriverCouncilTax:
		return in.CouncilTaxIncrease, nil
	case domain.DriverPayAward:
		return in.PayAward, nil
	case domain.DriverGeneralInflation:
		return in.GeneralInflation, nil
	case domain.DriverSocialCareGrowth:
		return in.SocialCareGrowth, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown driver %q", driver)
	}
}

func setDriver(in *domain.YearInputs, driver string, value decimal.Decimal) error {
	switch driver {
	case domain.DriverCouncilTax:
		in.CouncilTaxIncrease = value
	case domain.DriverPayAward:
		in.PayAward = value
	case domain.DriverGeneralInflation:
		in.GeneralInflation = value
	case domain.DriverSocialCareGrowth:
		in.SocialCareGrowth = value
	default:
		return fmt.Errorf("unknown driver %q", driver)
	}
	return nil
}

// SetDriver replaces one baseline driver with an absolute percentage value.
type SetDriver struct {
	Driver string
	Value  decimal.Decimal
}

func (t SetDriver) Name() string { return "set_" + t.Driver }

func (t SetDriver) Description() string {
	return fmt.Sprintf("set %s to %s%%", t.Driver, t.Value.String())
}

func (t SetDriver) Validate(base *domain.Scenario) error {
	_, err := readDriver(base.Inputs, t.Driver)
	return err
}

func (t SetDriver) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	out := base.DeepCopy()
	if err := setDriver(&out.Inputs, t.Driver, t.Value); err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustDriver shifts one baseline driver by a signed number of percentage
// points.
type AdjustDriver struct {
	Driver string
	Delta  decimal.Decimal
}

func (t AdjustDriver) Name() string { return "adjust_" + t.Driver }

func (t AdjustDriver) Description() string {
	return fmt.Sprintf("shift %s by %spp", t.Driver, t.Delta.String())
}

func (t AdjustDriver) Validate(base *domain.Scenario) error {
	_, err := readDriver(base.Inputs, t.Driver)
	return err
}

func (t AdjustDriver) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	out := base.DeepCopy()
	current, err := readDriver(out.Inputs, t.Driver)
	if err != nil {
		return nil, err
	}
	if err := setDriver(&out.Inputs, t.Driver, current.Add(t.Delta)); err != nil {
		return nil, err
	}
	return out, nil
}
