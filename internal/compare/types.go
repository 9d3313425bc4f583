// Package compare projects what-if variants of a scenario side by side and
// reports the headline metrics of each against the base plan.
package compare

import (
	"github.com/shopspring/decimal"
)

// Result holds the headline metrics for one projected scenario.
type Result struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description,omitempty"`

	Year1Gap      decimal.Decimal `json:"year1Gap"`
	CumulativeGap decimal.Decimal `json:"cumulativeGap"`
	FinalReserves decimal.Decimal `json:"finalReserves"`

	// ExhaustionYear is the 1-based year in which reserves first run out,
	// or 0 when they survive the horizon.
	ExhaustionYear int `json:"exhaustionYear"`

	// BreakEvenIncrease is the council tax increase that closes the
	// first-year gap, nil when no rate in the solver bracket does.
	BreakEvenIncrease *decimal.Decimal `json:"breakEvenIncrease,omitempty"`

	// Deltas against the base scenario. Zero on the base itself.
	GapDeltaFromBase      decimal.Decimal `json:"gapDeltaFromBase"`
	ReservesDeltaFromBase decimal.Decimal `json:"reservesDeltaFromBase"`
}

// Set is a base result plus the variant results compared against it.
type Set struct {
	BaseName     string   `json:"baseName"`
	Base         Result   `json:"base"`
	Alternatives []Result `json:"alternatives"`
}
