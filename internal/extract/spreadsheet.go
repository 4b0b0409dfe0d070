package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet reads xlsx workbooks. Cells are read unformatted, so date
// cells come back as Excel serial numbers.
type Spreadsheet struct{}

func (Spreadsheet) Extract(r io.Reader) (*Document, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer f.Close()

	doc := &Document{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrFormat, name, err)
		}
		for i, row := range rows {
			for j := range row {
				if text, ok := richText(f, name, i, j); ok {
					row[j] = text
				}
			}
		}
		doc.Sheets = append(doc.Sheets, Sheet{Name: name, Rows: rows})
	}
	return doc, nil
}

// richText flattens a rich text cell by concatenating its runs in order.
func richText(f *excelize.File, sheet string, row, col int) (string, bool) {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false
	}
	runs, err := f.GetCellRichText(sheet, cell)
	if err != nil || len(runs) == 0 {
		return "", false
	}
	return FlattenRuns(runs), true
}

// FlattenRuns joins the text of rich text runs.
func FlattenRuns(runs []excelize.RichTextRun) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}
