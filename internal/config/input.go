package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/councilmodel/mtfp/internal/domain"
)

// InputParser handles parsing of scenario files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a scenario from YAML bytes and normalizes the override
// table to the projection horizon.
func (ip *InputParser) Parse(data []byte) (*domain.Scenario, error) {
	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Shorter override tables are padded with disabled years; longer ones
	// are truncated to the horizon.
	if len(scenario.Overrides) < domain.ProjectionHorizon {
		padded := make([]domain.YearOverride, domain.ProjectionHorizon)
		copy(padded, scenario.Overrides)
		scenario.Overrides = padded
	} else if len(scenario.Overrides) > domain.ProjectionHorizon {
		scenario.Overrides = scenario.Overrides[:domain.ProjectionHorizon]
	}

	return &scenario, nil
}
