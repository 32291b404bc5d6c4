package coning

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Coning/internal/metrics"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		if errors.Is(err, ErrUnknownMethod) {
			http.Error(w, "Unknown method", http.StatusBadRequest)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	metrics.Calculations.WithLabelValues(string(res.Method)).Inc()
	if !res.Finite {
		metrics.NonFinite.WithLabelValues(string(res.Method)).Inc()
		slog.Debug("coning: non-finite result", "method", res.Method, "qoc", res.Qoc.String())
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	in, err := Defaults(Method(r.URL.Query().Get("method")))
	if err != nil {
		http.Error(w, "Unknown method", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(in)
}

type methodInfo struct {
	Method Method `json:"method"`
	Title  string `json:"title"`
	Batch  bool   `json:"batch"`
}

func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	out := make([]methodInfo, 0, len(Methods()))
	for _, m := range Methods() {
		out = append(out, methodInfo{Method: m, Title: m.Title(), Batch: m != MethodSobocinskiCornelius})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
