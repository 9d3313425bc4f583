package output

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/domain"
)

// worksheetDoc mirrors the subset of the worksheet schema the tests read
// back.
type worksheetDoc struct {
	Rows []struct {
		Cells []struct {
			Ref    string `xml:"r,attr"`
			Type   string `xml:"t,attr"`
			Value  string `xml:"v"`
			Inline struct {
				Text string `xml:"t"`
			} `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func openPackage(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err, "package must be a structurally valid archive")
	return zr
}

func readPart(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

func TestWorkbook_PartListIsExact(t *testing.T) {
	engine := calculation.NewEngine()
	scenario := domain.DefaultScenario()
	rows := engine.Project(scenario)

	wb := BuildWorkbook(rows, &ExportMetadata{Scenario: scenario})
	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)

	expected := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet2.xml",
		"xl/worksheets/sheet3.xml",
		"xl/worksheets/sheet4.xml",
		"xl/worksheets/sheet5.xml",
		"xl/worksheets/sheet6.xml",
		"xl/worksheets/sheet7.xml",
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, expected, names,
		"archive directory must enumerate the four infrastructure parts plus one part per sheet, in order")
}

func TestWorkbook_ProjectionsOnlyWithoutMetadata(t *testing.T) {
	engine := calculation.NewEngine()
	rows := engine.Project(domain.DefaultScenario())

	wb := BuildWorkbook(rows, nil)
	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)
	require.Len(t, zr.File, 5, "content types, two rels, workbook and a single sheet")
	assert.Equal(t, "xl/worksheets/sheet1.xml", zr.File[4].Name)

	workbookXML := readPart(t, zr, "xl/workbook.xml")
	assert.Contains(t, workbookXML, `name="Projections"`)
	assert.NotContains(t, workbookXML, `name="Assumptions"`)
}

func TestWorkbook_DeclaresEverySheet(t *testing.T) {
	engine := calculation.NewEngine()
	scenario := domain.DefaultScenario()
	summary := engine.RunStressTest(scenario, domain.StressParameters{
		Seed: 3, Simulations: 20,
		InflationSigma: decimal.NewFromFloat(1.0),
	})

	wb := BuildWorkbook(engine.Project(scenario), &ExportMetadata{
		Scenario:        scenario,
		Stress:          &summary,
		GovernanceNotes: []GovernanceNote{{Label: "S151 sign-off", Note: "Approved at Cabinet"}},
	})
	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)
	workbookXML := readPart(t, zr, "xl/workbook.xml")
	for _, name := range []string{"Projections", "Scenario", "Assumptions", "Savings", "Overrides", "Governance", "Stress"} {
		assert.Contains(t, workbookXML, `name="`+name+`"`, "workbook part must declare sheet %s", name)
	}

	contentTypes := readPart(t, zr, "[Content_Types].xml")
	assert.Equal(t, 7, strings.Count(contentTypes, "worksheet+xml"),
		"content types must carry one worksheet override per sheet")

	rels := readPart(t, zr, "xl/_rels/workbook.xml.rels")
	assert.Equal(t, 7, strings.Count(rels, `Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"`))
}

func TestWorkbook_InlineStringRoundTrip(t *testing.T) {
	wb := &Workbook{}
	labels := []string{
		`Parks & Leisure`,
		`<Children's "draft">`,
		`A&B <C> 'D' "E"`,
	}
	grid := [][]any{}
	for _, label := range labels {
		grid = append(grid, []any{label})
	}
	wb.AddSheet("Labels", grid)

	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)
	sheet := readPart(t, zr, "xl/worksheets/sheet1.xml")

	var doc worksheetDoc
	require.NoError(t, xml.Unmarshal([]byte(sheet), &doc), "worksheet part must be well-formed XML")
	require.Len(t, doc.Rows, len(labels))
	for i, label := range labels {
		cell := doc.Rows[i].Cells[0]
		assert.Equal(t, "inlineStr", cell.Type)
		assert.Equal(t, label, cell.Inline.Text,
			"escaped label must decode back to the original text")
	}
}

func TestWorkbook_NumericCellsAreRawValues(t *testing.T) {
	wb := &Workbook{}
	wb.AddSheet("Numbers", [][]any{
		{decimal.NewFromInt(227_790_000), 2026, decimal.NewFromFloat(4.2)},
	})

	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)
	sheet := readPart(t, zr, "xl/worksheets/sheet1.xml")

	assert.Contains(t, sheet, `<c r="A1"><v>227790000</v></c>`)
	assert.Contains(t, sheet, `<c r="B1"><v>2026</v></c>`)
	assert.Contains(t, sheet, `<c r="C1"><v>4.2</v></c>`)

	var doc worksheetDoc
	require.NoError(t, xml.Unmarshal([]byte(sheet), &doc))
	assert.Empty(t, doc.Rows[0].Cells[0].Type, "numeric cells carry no type attribute")
}

func TestWorkbook_CellReferencesAdvance(t *testing.T) {
	wb := &Workbook{}
	row := make([]any, 28)
	for i := range row {
		row[i] = i
	}
	wb.AddSheet("Wide", [][]any{row, row})

	data, err := wb.Bytes()
	require.NoError(t, err)

	zr := openPackage(t, data)
	sheet := readPart(t, zr, "xl/worksheets/sheet1.xml")

	assert.Contains(t, sheet, `<c r="Z1">`)
	assert.Contains(t, sheet, `<c r="AA1">`, "columns wrap from Z to AA")
	assert.Contains(t, sheet, `<c r="AB2">`)
}
