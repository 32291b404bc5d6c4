package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"Coning/internal/calc/chart"
	"Coning/internal/calc/premium/batch"
	"Coning/internal/repo"
)

const DefaultMaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Repo          repo.Repository
	MaxUploadSize int64
	// BasePath prefixes the download and chart links in upload responses.
	BasePath string
}

type UploadResult struct {
	ID       string      `json:"id"`
	Count    int         `json:"count"`
	Download string      `json:"download"`
	Chart    string      `json:"chart"`
	Table    batch.Table `json:"table"`
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadSize
	if limit <= 0 {
		limit = DefaultMaxUploadSize
	}
	if r.ContentLength > limit {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "File too big", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	tbl, err := Read(bytes.NewReader(data))
	if err != nil {
		slog.Info("importer: unreadable workbook", "err", err)
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	res, err := batch.Evaluate(tbl)
	if err != nil {
		batch.WriteError(w, err)
		return
	}
	batch.Observe(res)

	id := repo.ID(data)
	if err := h.Repo.Put(r.Context(), id, res); err != nil {
		slog.Error("importer: store result", "id", id, "err", err)
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	slog.Info("importer: batch processed", "id", id, "wells", len(res.Rows))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UploadResult{
		ID:       id,
		Count:    len(res.Rows),
		Download: fmt.Sprintf("%s/results/%s.xlsx", h.BasePath, id),
		Chart:    fmt.Sprintf("%s/results/%s/chart", h.BasePath, id),
		Table:    res,
	})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	tbl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := Write(&buf, tbl); err != nil {
		slog.Error("importer: export", "err", err)
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ResultFileName))
	w.Write(buf.Bytes())
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	tbl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	rates, err := batch.Rates(tbl)
	if err != nil {
		http.Error(w, "Chart error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, rates); err != nil {
		http.Error(w, "Chart error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (batch.Table, bool) {
	id := mux.Vars(r)["id"]
	tbl, ok, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return batch.Table{}, false
	}
	if !ok {
		http.Error(w, "Result not found or expired", http.StatusNotFound)
		return batch.Table{}, false
	}
	return tbl, true
}
