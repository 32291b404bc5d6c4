package batch

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Coning/internal/calc/coning"
)

func wellTable() Table {
	return Table{
		Columns: append([]string{}, RequiredColumns...),
		Rows: []Row{
			{"W-1", 15.0, 40.0, 93.5, 9.0, 0.73, 1.1, 660.0, 0.25, 47.5, 63.76},
			{"W-2", 20.0, 65.0, 120.0, 12.0, 1.2, 1.25, 1000.0, 0.3, 49.0, 64.0},
		},
	}
}

func TestEvaluate_AppendsFourColumns(t *testing.T) {
	in := wellTable()
	out, err := Evaluate(in)
	require.NoError(t, err)

	require.Len(t, out.Columns, len(in.Columns)+4)
	assert.Equal(t, in.Columns, out.Columns[:len(in.Columns)])
	assert.Equal(t, []string{"Meyer & Gardner", "Chaperson", "Schols", "Muskat & Wyckoff"}, out.Columns[len(in.Columns):])
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "W-1", out.Rows[0][0])
	assert.Equal(t, "W-2", out.Rows[1][0])

	for i, row := range in.Rows {
		assert.Equal(t, row, out.Rows[i][:len(row)])

		num := func(j int) float64 { return row[j].(float64) }
		hp, h, kho, kvo, mu, bo, re, rw, deno, denw := num(1), num(2), num(3), num(4), num(5), num(6), num(7), num(8), num(9), num(10)
		want := []float64{
			coning.MeyerGardner(coning.MeyerGardnerParams{Ko: kho, H: h, Hp: hp, Mu: mu, Bo: bo, Re: re, Rw: rw, Deno: deno, Denw: denw}),
			coning.Chaperson(coning.ChapersonParams{Kh: kho, Kv: kvo, H: h, Hp: hp, Mu: mu, Bo: bo, Denw: denw, Deno: deno, Re: re}),
			coning.Schols(coning.ScholsParams{Ko: kho, H: h, Hp: hp, Mu: mu, Rw: rw, Re: re, Denw: denw, Deno: deno, Bo: bo}),
			coning.MuskatWyckoff(coning.MuskatWyckoffParams{Ko: kho, H: h, Hp: hp, Mu: mu, Re: re, Denw: denw, Deno: deno, Bo: bo, Rw: rw}),
		}
		for k, w := range want {
			got, ok := out.Rows[i][len(row)+k].(float64)
			require.True(t, ok)
			assert.Equal(t, math.Float64bits(w), math.Float64bits(got), "row %d column %s", i, out.Columns[len(row)+k])
		}
	}
}

func TestEvaluate_FirstRowFixture(t *testing.T) {
	out, err := Evaluate(wellTable())
	require.NoError(t, err)
	assert.InEpsilon(t, 8.12847337907412, out.Rows[0][11].(float64), 1e-12)
}

func TestEvaluate_MissingColumn(t *testing.T) {
	in := wellTable()
	in.Columns[4] = "kv (mD)"

	out, err := Evaluate(in)
	require.Error(t, err)
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"kvo (mD)"}, mce.Columns)
	assert.Nil(t, out.Columns)
	assert.Nil(t, out.Rows)
}

func TestEvaluate_ColumnNamesAreCaseSensitive(t *testing.T) {
	in := wellTable()
	in.Columns[0] = "well"
	in.Columns[1] = "HP (feet)"

	_, err := Evaluate(in)
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"Well", "hp (feet)"}, mce.Columns)
	assert.Contains(t, err.Error(), "Well, hp (feet)")
}

func TestEvaluate_ExtraColumnsAndOrderPreserved(t *testing.T) {
	in := Table{
		Columns: append([]string{"Field"}, RequiredColumns...),
		Rows: []Row{
			{"North", "W-9", "15", "40", "93.5", "9", "0.73", "1.1", "660", "0.25", "47.5", "63.76"},
		},
	}
	in.Columns[0], in.Columns[1] = in.Columns[1], in.Columns[0]
	in.Rows[0][0], in.Rows[0][1] = in.Rows[0][1], in.Rows[0][0]

	out, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, "Well", out.Columns[0])
	assert.Equal(t, "Field", out.Columns[1])
	assert.Equal(t, "North", out.Rows[0][1])
	assert.InEpsilon(t, 8.12847337907412, out.Rows[0][12].(float64), 1e-12)
}

func TestEvaluate_BadRowDoesNotAbort(t *testing.T) {
	in := wellTable()
	in.Rows[0][3] = "n/a"
	in.Rows[1] = in.Rows[1][:5]

	out, err := Evaluate(in)
	require.NoError(t, err)
	for k := 0; k < 4; k++ {
		assert.True(t, math.IsNaN(out.Rows[0][11+k].(float64)))
	}
	require.Len(t, out.Rows[1], 11+4)
	assert.Nil(t, out.Rows[1][5])
	assert.True(t, math.IsNaN(out.Rows[1][11].(float64)))
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	in := wellTable()
	before := wellTable()

	_, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestEvaluate_EmptyTable(t *testing.T) {
	out, err := Evaluate(Table{Columns: RequiredColumns})
	require.NoError(t, err)
	assert.Len(t, out.Columns, len(RequiredColumns)+4)
	assert.Empty(t, out.Rows)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 1.5, Number(1.5))
	assert.Equal(t, 2.0, Number(" 2 "))
	assert.Equal(t, 3.0, Number(3))
	assert.True(t, math.IsNaN(Number("")))
	assert.True(t, math.IsNaN(Number(nil)))
	assert.True(t, math.IsInf(Number("+Inf"), 1))
}

func TestRates(t *testing.T) {
	out, err := Evaluate(wellTable())
	require.NoError(t, err)

	rates, err := Rates(out)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "W-1", rates[0].Well)
	require.Len(t, rates[0].Rates, 4)
	assert.Equal(t, out.Rows[0][11], rates[0].Rates[0])

	_, err = Rates(wellTable())
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Len(t, mce.Columns, 4)
}

func TestRates_DuplicateWellColumnUsesFirst(t *testing.T) {
	in := wellTable()
	in.Columns = append(in.Columns, ColWell)
	in.Rows[0] = append(in.Rows[0], "alias-1")
	in.Rows[1] = append(in.Rows[1], "alias-2")

	out, err := Evaluate(in)
	require.NoError(t, err)
	rates, err := Rates(out)
	require.NoError(t, err)
	assert.Equal(t, "W-1", rates[0].Well)
	assert.Equal(t, "W-2", rates[1].Well)
}
