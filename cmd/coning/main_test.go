package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Coning/internal/calc/premium/batch"
	"Coning/internal/calc/premium/importer"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, addr, &r))
	}
	path := filepath.Join(t.TempDir(), "wells.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func wells() [][]interface{} {
	header := make([]interface{}, 0, len(batch.RequiredColumns))
	for _, c := range batch.RequiredColumns {
		header = append(header, c)
	}
	return [][]interface{}{
		header,
		{"W-1", 15, 40, 93.5, 9, 0.73, 1.1, 660, 0.25, 47.5, 63.76},
		{"W-2", 20, 65, 120, 12, 1.2, 1.25, 1000, 0.3, 49, 64},
	}
}

func TestRun_Eval(t *testing.T) {
	in := writeWorkbook(t, wells())
	dir := t.TempDir()
	out := filepath.Join(dir, "processed_results.xlsx")
	chartPath := filepath.Join(dir, "chart.html")

	var stdout, stderr bytes.Buffer
	code := run([]string{"eval", "-in", in, "-out", out, "-chart", chartPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "W-1")
	assert.Contains(t, stdout.String(), "MEYER & GARDNER")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	tbl, err := importer.Read(f)
	require.NoError(t, err)
	assert.Len(t, tbl.Columns, len(batch.RequiredColumns)+len(batch.Methods))
	assert.Len(t, tbl.Rows, 2)

	html, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "W-2")
}

func TestRun_EvalMissingColumns(t *testing.T) {
	rows := wells()
	for i := range rows {
		rows[i] = rows[i][:3]
	}
	in := writeWorkbook(t, rows)

	var stdout, stderr bytes.Buffer
	code := run([]string{"eval", "-in", in}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing columns")
	assert.Contains(t, stderr.String(), batch.ColKvo)
}

func TestRun_Calc(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"calc", "-method", "sobocinski-cornelius"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Sobocinski & Cornelius")
	assert.Contains(t, stdout.String(), "Qoc")
	assert.Contains(t, stdout.String(), "Tbt")

	stdout.Reset()
	code = run([]string{"calc", "-method", "schols", "-hp", "40", "-h", "40"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "0.00 STB/d")
}

func TestRun_CalcErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"calc", "-method", "darcy"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown coning method")
	assert.Equal(t, 1, strings.Count(stderr.String(), `"darcy"`))

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"calc", "-hp", "abc"}, &stdout, &stderr))
}

func TestRun_Token(t *testing.T) {
	t.Setenv("TOKEN_KEY", "cli-test-key")
	var stdout, stderr bytes.Buffer
	code := run([]string{"token", "-sub", "ops"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(stdout.String()), "."))
}

func TestRun_TokenWithoutKey(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"token", "-sub", "ops"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "TOKEN_KEY")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"serve"}, &stdout, &stderr))
	assert.Equal(t, 0, run([]string{"help"}, &stdout, &stderr))
}
