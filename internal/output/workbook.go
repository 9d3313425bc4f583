package output

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Sheet is one logical worksheet: a name and a grid of cell values. Numeric
// values (decimal.Decimal, ints, floats) become raw numeric cells; anything
// else is rendered as an escaped inline string.
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook is an ordered collection of sheets that serializes to a minimal
// OOXML spreadsheet package.
type Workbook struct {
	Sheets []Sheet
}

// AddSheet appends a sheet to the workbook.
func (wb *Workbook) AddSheet(name string, rows [][]any) {
	wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
}

const (
	contentTypesName = "[Content_Types].xml"
	rootRelsName     = "_rels/.rels"
	workbookName     = "xl/workbook.xml"
	workbookRelsName = "xl/_rels/workbook.xml.rels"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

func sheetPartName(i int) string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
}

// Bytes serializes the workbook to a zip-packaged spreadsheet. The archive
// directory enumerates exactly the content-types part, the root
// relationships, the workbook part, the workbook relationships and one
// worksheet part per sheet, in that order; spreadsheet applications reject
// packages that deviate from this part set.
func (wb *Workbook) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	parts := []struct {
		name    string
		content string
	}{
		{contentTypesName, wb.contentTypesXML()},
		{rootRelsName, rootRelsXML()},
		{workbookName, wb.workbookXML()},
		{workbookRelsName, wb.workbookRelsXML()},
	}
	for i, sheet := range wb.Sheets {
		parts = append(parts, struct {
			name    string
			content string
		}{sheetPartName(i), sheetXML(sheet)})
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

func (wb *Workbook) contentTypesXML() string {
	buf := &bytes.Buffer{}
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	buf.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	buf.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	buf.WriteString(`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	for i := range wb.Sheets {
		fmt.Fprintf(buf, `<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, sheetPartName(i))
	}
	buf.WriteString(`</Types>`)
	return buf.String()
}

func rootRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
		`</Relationships>`
}

func (wb *Workbook) workbookXML() string {
	buf := &bytes.Buffer{}
	buf.WriteString(xmlHeader)
	buf.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	buf.WriteString(`<sheets>`)
	for i, sheet := range wb.Sheets {
		fmt.Fprintf(buf, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, escapeXML(sheet.Name), i+1, i+1)
	}
	buf.WriteString(`</sheets>`)
	buf.WriteString(`</workbook>`)
	return buf.String()
}

func (wb *Workbook) workbookRelsXML() string {
	buf := &bytes.Buffer{}
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range wb.Sheets {
		fmt.Fprintf(buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet%d.xml"/>`, i+1, i+1)
	}
	buf.WriteString(`</Relationships>`)
	return buf.String()
}

func sheetXML(sheet Sheet) string {
	buf := &bytes.Buffer{}
	buf.WriteString(xmlHeader)
	buf.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	buf.WriteString(`<sheetData>`)
	for r, row := range sheet.Rows {
		fmt.Fprintf(buf, `<row r="%d">`, r+1)
		for c, value := range row {
			writeCell(buf, cellRef(c, r), value)
		}
		buf.WriteString(`</row>`)
	}
	buf.WriteString(`</sheetData>`)
	buf.WriteString(`</worksheet>`)
	return buf.String()
}

// writeCell emits one cell node. Numeric values are embedded as raw <v>
// nodes; everything else becomes an inline string with XML specials
// escaped.
func writeCell(buf *bytes.Buffer, ref string, value any) {
	switch v := value.(type) {
	case decimal.Decimal:
		fmt.Fprintf(buf, `<c r="%s"><v>%s</v></c>`, ref, v.String())
	case int:
		fmt.Fprintf(buf, `<c r="%s"><v>%s</v></c>`, ref, strconv.Itoa(v))
	case int64:
		fmt.Fprintf(buf, `<c r="%s"><v>%s</v></c>`, ref, strconv.FormatInt(v, 10))
	case uint32:
		fmt.Fprintf(buf, `<c r="%s"><v>%s</v></c>`, ref, strconv.FormatUint(uint64(v), 10))
	case float64:
		fmt.Fprintf(buf, `<c r="%s"><v>%s</v></c>`, ref, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		fmt.Fprintf(buf, `<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, strconv.FormatBool(v))
	case string:
		fmt.Fprintf(buf, `<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, escapeXML(v))
	default:
		fmt.Fprintf(buf, `<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, escapeXML(fmt.Sprint(v)))
	}
}
