package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"

	"Coning/internal/calc/coning"
)

type Input struct {
	Project string       `json:"project"`
	Author  string       `json:"author"`
	Title   string       `json:"title"`
	Notes   string       `json:"notes"`
	Well    coning.Input `json:"input"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := coning.Calculate(input.Well)
	if err != nil {
		if errors.Is(err, coning.ErrUnknownMethod) {
			http.Error(w, "Unknown method", http.StatusBadRequest)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"coning-report.pdf\"")
	if err := Render(w, input, res, time.Now()); err != nil {
		slog.Error("report: render", "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// Render writes an A4 report of one single-well calculation.
func Render(w io.Writer, input Input, res coning.Result, now time.Time) error {
	if input.Title == "" {
		input.Title = "Water Coning Critical Rate"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Method: %s", res.Method.Title()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 7, "Parameter", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Value", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Unit", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range input.Well.Params() {
		pdf.CellFormat(100, 6, p.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%g", p.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, p.Unit, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Critical Flow Rate (Qoc): %s STB/d", res.Qoc))
	pdf.Ln(7)
	if res.Tbt != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Time to water breakthrough (Tbt): %s days", *res.Tbt))
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, res.Notes, "", "L", false)
	if input.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	return pdf.Output(w)
}
