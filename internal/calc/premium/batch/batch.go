package batch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"Coning/internal/calc/coning"
)

// Spreadsheet column names. Matching is exact and case-sensitive.
const (
	ColWell = "Well"
	ColHp   = "hp (feet)"
	ColH    = "h (feet)"
	ColKho  = "kho (mD)"
	ColKvo  = "kvo (mD)"
	ColMu   = "Oil visc (cP)"
	ColBo   = "Bo (bbl/STB)"
	ColRe   = "re (feet)"
	ColRw   = "rw (feet)"
	ColDeno = "Oil den (lb/feet3)"
	ColDenw = "Water den (lb/feet3)"
)

// RequiredColumns is the minimal well table schema.
var RequiredColumns = []string{
	ColWell, ColHp, ColH, ColKho, ColKvo, ColMu, ColBo, ColRe, ColRw, ColDeno, ColDenw,
}

// Methods are the correlations appended in batch mode, in column order.
// Sobocinski & Cornelius needs Qo, relative permeabilities, water viscosity
// and porosity, which the table does not carry.
var Methods = []coning.Method{
	coning.MethodMeyerGardner,
	coning.MethodChaperson,
	coning.MethodSchols,
	coning.MethodMuskatWyckoff,
}

// Row cells are float64 or string.
type Row []any

type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Evaluate returns a copy of t with one result column per batch method
// appended. Rows are evaluated independently and keep their order. A cell
// that is not a number evaluates as NaN.
func Evaluate(t Table) (Table, error) {
	idx, err := columnIndex(t.Columns)
	if err != nil {
		return Table{}, err
	}

	out := Table{
		Columns: make([]string, 0, len(t.Columns)+len(Methods)),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	out.Columns = append(out.Columns, t.Columns...)
	for _, m := range Methods {
		out.Columns = append(out.Columns, m.Title())
	}

	for _, row := range t.Rows {
		w := wellFromRow(row, idx)
		next := make(Row, len(t.Columns), len(out.Columns))
		copy(next, row)
		next = append(next,
			coning.MeyerGardner(w.MeyerGardner()),
			coning.Chaperson(w.Chaperson()),
			coning.Schols(w.Schols()),
			coning.MuskatWyckoff(w.MuskatWyckoff()),
		)
		out.Rows = append(out.Rows, next)
	}
	return out, nil
}

// firstIndex maps each column name to its first position.
func firstIndex(cols []string) map[string]int {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

func columnIndex(cols []string) (map[string]int, error) {
	idx := firstIndex(cols)
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	return idx, nil
}

// wellFromRow maps a table row onto the single-well input: kho feeds both
// ko and kh, kvo feeds kv.
func wellFromRow(row Row, idx map[string]int) coning.Input {
	num := func(col string) float64 {
		i := idx[col]
		if i >= len(row) {
			return math.NaN()
		}
		return Number(row[i])
	}
	kho := num(ColKho)
	return coning.Input{
		Ko:   kho,
		Kh:   kho,
		Kv:   num(ColKvo),
		H:    num(ColH),
		Hp:   num(ColHp),
		Mu:   num(ColMu),
		Bo:   num(ColBo),
		Re:   num(ColRe),
		Rw:   num(ColRw),
		Deno: num(ColDeno),
		Denw: num(ColDenw),
	}
}

// Number coerces a cell to float64. Unparseable cells are NaN.
func Number(cell any) float64 {
	switch v := cell.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case coning.Value:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// WellRates is one well's batch results, in Methods order.
type WellRates struct {
	Well  string
	Rates []float64
}

// Rates pulls the well identifier and appended result columns out of an
// evaluated table.
func Rates(t Table) ([]WellRates, error) {
	idx := firstIndex(t.Columns)
	cols := append([]string{ColWell}, titles()...)
	var missing []string
	for _, c := range cols {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	out := make([]WellRates, 0, len(t.Rows))
	for _, row := range t.Rows {
		wr := WellRates{Rates: make([]float64, 0, len(Methods))}
		if i := idx[ColWell]; i < len(row) {
			wr.Well = fmt.Sprint(row[i])
		}
		for _, title := range titles() {
			v := math.NaN()
			if i := idx[title]; i < len(row) {
				v = Number(row[i])
			}
			wr.Rates = append(wr.Rates, v)
		}
		out = append(out, wr)
	}
	return out, nil
}

func titles() []string {
	out := make([]string, 0, len(Methods))
	for _, m := range Methods {
		out = append(out, m.Title())
	}
	return out
}
