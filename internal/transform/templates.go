package transform

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/domain"
)

// Template is a named, reusable sequence of transforms.
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// Registry holds the templates available for comparison runs.
type Registry struct {
	templates map[string]Template
}

// Get returns the named template.
func (r *Registry) Get(name string) (Template, bool) {
	tpl, ok := r.templates[name]
	return tpl, ok
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) add(tpl Template) {
	r.templates[tpl.Name] = tpl
}

// BuiltInTemplates returns the standard what-if variants used by the compare
// command.
func BuiltInTemplates() *Registry {
	r := &Registry{templates: make(map[string]Template)}

	r.add(Template{
		Name:        "freeze-council-tax",
		Description: "Hold council tax flat across the horizon",
		Transforms: []ScenarioTransform{
			SetDriver{Driver: domain.DriverCouncilTax, Value: decimal.Zero},
		},
	})
	r.add(Template{
		Name:        "max-council-tax",
		Description: "Raise council tax at the 4.99% referendum ceiling",
		Transforms: []ScenarioTransform{
			SetDriver{Driver: domain.DriverCouncilTax, Value: decimal.NewFromFloat(4.99)},
		},
	})
	r.add(Template{
		Name:        "pay-restraint",
		Description: "Pay awards one point below plan",
		Transforms: []ScenarioTransform{
			AdjustDriver{Driver: domain.DriverPayAward, Delta: decimal.NewFromInt(-1)},
		},
	})
	r.add(Template{
		Name:        "demand-surge",
		Description: "Social care demand growth 1.5 points above plan",
		Transforms: []ScenarioTransform{
			AdjustDriver{Driver: domain.DriverSocialCareGrowth, Delta: decimal.NewFromFloat(1.5)},
		},
	})
	r.add(Template{
		Name:        "funding-shock",
		Description: "Lose 2m of funding in the first year",
		Transforms: []ScenarioTransform{
			SetFundingShock{YearIndex: 0, Amount: decimal.NewFromInt(-2_000_000)},
		},
	})
	r.add(Template{
		Name:        "savings-slippage",
		Description: "Pipeline delivery confidence halved",
		Transforms: []ScenarioTransform{
			ScaleConfidence{Factor: decimal.NewFromFloat(0.5)},
		},
	})

	return r
}
