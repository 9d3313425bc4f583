package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/councilmodel/mtfp/internal/domain"
)

// ProjectionCSV renders projection rows as CSV: one header row, then one
// line per year. Fields are numeric or calendar-year labels, so the writer
// never needs to quote.
func ProjectionCSV(rows []domain.ProjectionRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Year", "Net Budget Requirement", "Total Funding", "Annual Gap", "Reserves End"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.CalendarYear),
			row.NetBudgetRequirement.StringFixed(2),
			row.TotalFunding.StringFixed(2),
			row.AnnualGap.StringFixed(2),
			row.ReservesEnd.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
