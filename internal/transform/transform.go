// Package transform provides composable what-if edits over scenarios.
// Each transform takes a scenario and produces a modified copy, so a
// sequence of transforms describes a variant of the baseline plan without
// touching the plan itself.
package transform

import (
	"fmt"

	"github.com/councilmodel/mtfp/internal/domain"
)

// ScenarioTransform is a single composable edit.
type ScenarioTransform interface {
	// Apply returns a new scenario with the edit applied. The input is
	// never mutated.
	Apply(base *domain.Scenario) (*domain.Scenario, error)

	// Name returns a short identifier for the transform.
	Name() string

	// Description returns a human-readable summary of the edit.
	Description() string

	// Validate checks the transform parameters against the base scenario
	// without applying it.
	Validate(base *domain.Scenario) error
}

// ApplyTransforms applies a sequence of transforms to a base scenario.
// Transforms run in order, each receiving the output of the previous one.
func ApplyTransforms(base *domain.Scenario, transforms []ScenarioTransform) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	current := base.DeepCopy()
	for i, tr := range transforms {
		if tr == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := tr.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", tr.Name(), err)
		}
		next, err := tr.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", tr.Name(), err)
		}
		current = next
	}
	return current, nil
}
