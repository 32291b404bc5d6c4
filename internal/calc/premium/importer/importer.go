package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Coning/internal/calc/coning"
	"Coning/internal/calc/premium/batch"
)

const (
	ResultFileName = "processed_results.xlsx"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Read loads the first sheet of a workbook. The first row is the header.
// Cells stored as numbers become float64. Text cells stay strings even when
// they look numeric, and the well column is always kept as text. Blank rows
// are skipped and short rows are padded to the header width.
func Read(r io.Reader) (batch.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return batch.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return batch.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return batch.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	t := batch.Table{Columns: rows[0], Rows: make([]batch.Row, 0, len(rows)-1)}
	for n, raw := range rows[1:] {
		if blank(raw) {
			continue
		}
		// GetRows keeps empty rows in place, so the sheet row is the index + 2
		sheetRow := n + 2
		row := make(batch.Row, len(t.Columns))
		for i := range row {
			if i >= len(raw) {
				row[i] = ""
				continue
			}
			if t.Columns[i] == batch.ColWell {
				row[i] = raw[i]
				continue
			}
			text, err := isText(f, sheet, i+1, sheetRow)
			if err != nil {
				return batch.Table{}, err
			}
			if text {
				row[i] = raw[i]
			} else {
				row[i] = cell(raw[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// isText reports whether the cell is stored as a string.
func isText(f *excelize.File, sheet string, col, row int) (bool, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false, fmt.Errorf("cell %s type: %w", name, err)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true, nil
	}
	return false, nil
}

func cell(s string) any {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	return v
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Write stores t as a single-sheet workbook. Non-finite numbers are written
// as text since a spreadsheet cell cannot hold NaN or infinity.
func Write(w io.Writer, t batch.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(row))
		for j, c := range row {
			if v, ok := c.(float64); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
				c = coning.FormatRate(v)
			}
			vals[j] = c
		}
		if err := f.SetSheetRow(sheet, addr, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
