package batch

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"Coning/internal/calc/coning"
	"Coning/internal/metrics"
)

type Handler struct{}

func (h *Handler) Coning(w http.ResponseWriter, r *http.Request) {
	var input Table
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Evaluate(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	Observe(res)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Observe records an evaluated table: its row count and, per method, the
// appended results that came back NaN or infinite.
func Observe(res Table) {
	metrics.BatchRows.Add(float64(len(res.Rows)))
	first := len(res.Columns) - len(Methods)
	if first < 0 {
		return
	}
	for k, m := range Methods {
		n := 0
		for _, row := range res.Rows {
			if first+k >= len(row) {
				continue
			}
			if f, ok := row[first+k].(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				n++
			}
		}
		if n > 0 {
			metrics.NonFinite.WithLabelValues(string(m)).Add(float64(n))
		}
	}
}

// WriteError answers a failed Evaluate. Missing columns are reported by name.
func WriteError(w http.ResponseWriter, err error) {
	var mce *MissingColumnError
	if errors.As(err, &mce) {
		metrics.BatchRejected.Inc()
		slog.Info("batch: table rejected", "missing", mce.Columns)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   mce.Error(),
			"missing": mce.Columns,
		})
		return
	}
	http.Error(w, "Calculation error", http.StatusBadRequest)
}

// MarshalJSON writes non-finite numbers as "NaN", "+Inf" or "-Inf".
func (t Table) MarshalJSON() ([]byte, error) {
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, c := range row {
			if f, ok := c.(float64); ok {
				c = coning.Value(f)
			}
			cells[j] = c
		}
		rows[i] = cells
	}
	cols := t.Columns
	if cols == nil {
		cols = []string{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}{cols, rows})
}
