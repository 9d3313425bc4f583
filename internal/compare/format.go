package compare

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/councilmodel/mtfp/internal/output"
)

// TableFormatter renders a comparison set as a console table.
type TableFormatter struct{}

// Format renders the set with one row per scenario.
func (TableFormatter) Format(set *Set) string {
	var b strings.Builder
	b.WriteString("SCENARIO COMPARISON\n")
	b.WriteString(strings.Repeat("=", 96) + "\n")
	fmt.Fprintf(&b, "Base scenario: %s\n\n", set.BaseName)

	fmt.Fprintf(&b, "%-24s %16s %16s %16s %12s\n",
		"Scenario", "Year-1 gap", "5-year gap", "Final reserves", "Exhausted")
	b.WriteString(strings.Repeat("-", 96) + "\n")

	b.WriteString(formatRow(set.Base))
	if len(set.Alternatives) > 0 {
		b.WriteString(strings.Repeat("-", 96) + "\n")
		for _, alt := range set.Alternatives {
			b.WriteString(formatRow(alt))
		}
	}
	return b.String()
}

func formatRow(r Result) string {
	exhausted := "never"
	if r.ExhaustionYear > 0 {
		exhausted = fmt.Sprintf("year %d", r.ExhaustionYear)
	}
	return fmt.Sprintf("%-24s %16s %16s %16s %12s\n",
		r.ScenarioName,
		output.FormatMoney(r.Year1Gap),
		output.FormatMoney(r.CumulativeGap),
		output.FormatMoney(r.FinalReserves),
		exhausted)
}

// CSVFormatter renders a comparison set as CSV for spreadsheet import.
type CSVFormatter struct{}

// Format renders the set with one record per scenario.
func (CSVFormatter) Format(set *Set) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Scenario", "Year 1 Gap", "Cumulative Gap", "Final Reserves",
		"Exhaustion Year", "Break-even Council Tax %",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	rows := append([]Result{set.Base}, set.Alternatives...)
	for _, r := range rows {
		exhaustion := ""
		if r.ExhaustionYear > 0 {
			exhaustion = fmt.Sprintf("%d", r.ExhaustionYear)
		}
		breakEven := ""
		if r.BreakEvenIncrease != nil {
			breakEven = r.BreakEvenIncrease.StringFixed(4)
		}
		record := []string{
			r.ScenarioName,
			r.Year1Gap.StringFixed(2),
			r.CumulativeGap.StringFixed(2),
			r.FinalReserves.StringFixed(2),
			exhaustion,
			breakEven,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}
