package compare

import (
	"fmt"
	"strings"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/domain"
	"github.com/councilmodel/mtfp/internal/transform"
)

// Engine projects a base scenario and template-derived variants.
type Engine struct {
	calc      *calculation.Engine
	templates *transform.Registry
}

// NewEngine creates a comparison engine carrying the built-in what-if
// templates.
func NewEngine(calc *calculation.Engine) *Engine {
	return &Engine{calc: calc, templates: transform.BuiltInTemplates()}
}

// TemplateNames returns the available what-if template names, sorted.
func (e *Engine) TemplateNames() []string {
	return e.templates.Names()
}

// Compare projects the base scenario and each named template variant, and
// returns the results with deltas taken against the base.
func (e *Engine) Compare(base *domain.Scenario, templateNames []string) (*Set, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	baseResult := e.measure(base.Name, "", base)
	set := &Set{BaseName: base.Name, Base: baseResult}

	for _, name := range templateNames {
		tpl, ok := e.templates.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q (available: %s)",
				name, strings.Join(e.templates.Names(), ", "))
		}
		variant, err := transform.ApplyTransforms(base, tpl.Transforms)
		if err != nil {
			return nil, fmt.Errorf("building variant %s: %w", name, err)
		}

		result := e.measure(tpl.Name, tpl.Description, variant)
		result.GapDeltaFromBase = result.Year1Gap.Sub(baseResult.Year1Gap)
		result.ReservesDeltaFromBase = result.FinalReserves.Sub(baseResult.FinalReserves)
		set.Alternatives = append(set.Alternatives, result)
	}
	return set, nil
}

func (e *Engine) measure(name, description string, scenario *domain.Scenario) Result {
	rows := e.calc.Project(scenario)

	result := Result{ScenarioName: name, Description: description}
	for _, row := range rows {
		result.CumulativeGap = result.CumulativeGap.Add(row.AnnualGap)
	}
	if len(rows) > 0 {
		result.Year1Gap = rows[0].AnnualGap
		result.FinalReserves = rows[len(rows)-1].ReservesEnd
	}
	if row, exhausted := calculation.ReserveExhaustion(rows); exhausted {
		result.ExhaustionYear = row.Year
	}
	result.BreakEvenIncrease = e.calc.SolveCouncilTaxIncrease(scenario)
	return result
}
