package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/domain"
)

// FormatMoney renders a currency amount with thousands separators, for
// console display.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	result := strings.Join(parts, ",")
	if negative {
		return "-" + result
	}
	return result
}

// ConsoleProjection renders the projection as a fixed-width table.
func ConsoleProjection(rows []domain.ProjectionRow) string {
	var b strings.Builder
	b.WriteString("MEDIUM-TERM FINANCIAL PROJECTION\n")
	b.WriteString(strings.Repeat("=", 88) + "\n")
	fmt.Fprintf(&b, "%-6s %18s %18s %14s %14s\n",
		"Year", "Requirement", "Funding", "Gap", "Reserves")
	b.WriteString(strings.Repeat("-", 88) + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-6d %18s %18s %14s %14s\n",
			row.CalendarYear,
			FormatMoney(row.NetBudgetRequirement),
			FormatMoney(row.TotalFunding),
			FormatMoney(row.AnnualGap),
			FormatMoney(row.ReservesEnd))
	}
	if row, exhausted := calculation.ReserveExhaustion(rows); exhausted {
		fmt.Fprintf(&b, "\nReserves exhausted in year %d (%d)\n", row.Year, row.CalendarYear)
	}
	return b.String()
}

// ConsoleWaterfall renders the year-1 gap decomposition.
func ConsoleWaterfall(entries []domain.WaterfallEntry) string {
	var b strings.Builder
	b.WriteString("YEAR 1 GAP DECOMPOSITION\n")
	b.WriteString(strings.Repeat("-", 48) + "\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%-28s %18s\n", entry.Label, FormatMoney(entry.Amount))
	}
	return b.String()
}

// ConsoleSensitivities renders the finite-difference pairs per driver.
func ConsoleSensitivities(entries []domain.SensitivityEntry) string {
	var b strings.Builder
	b.WriteString("DRIVER SENSITIVITIES (year-1 gap, +/- 1pp)\n")
	b.WriteString(strings.Repeat("-", 64) + "\n")
	fmt.Fprintf(&b, "%-24s %18s %18s\n", "Driver", "Up", "Down")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%-24s %18s %18s\n", entry.Driver, FormatMoney(entry.Up), FormatMoney(entry.Down))
	}
	return b.String()
}

// ConsoleStress renders a stress summary.
func ConsoleStress(summary domain.StressSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "STRESS TEST (%d simulations, seed %d)\n", summary.Simulations, summary.Seed)
	b.WriteString(strings.Repeat("-", 64) + "\n")
	fmt.Fprintf(&b, "%-18s %14s %14s %14s\n", "", "p10", "p50", "p90")
	fmt.Fprintf(&b, "%-18s %14s %14s %14s\n", "Year 1 gap",
		FormatMoney(summary.Year1Gap.P10), FormatMoney(summary.Year1Gap.P50), FormatMoney(summary.Year1Gap.P90))
	fmt.Fprintf(&b, "%-18s %14s %14s %14s\n", "Year 5 reserves",
		FormatMoney(summary.Year5Reserves.P10), FormatMoney(summary.Year5Reserves.P50), FormatMoney(summary.Year5Reserves.P90))
	return b.String()
}
