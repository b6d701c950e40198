package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/servicodocente/dsd/pkg/core/services"
	"github.com/servicodocente/dsd/pkg/db"
	"github.com/servicodocente/dsd/pkg/report"
)

// maxDatasetBytes bounds the body of POST /api/evaluate
const maxDatasetBytes = 8 << 20

// Handler serves the evaluation endpoints
type Handler struct {
	// reader is the configured data source; nil disables the report endpoints
	reader db.Reader
	opts   services.Options
	logger *zap.Logger
}

// NewHandler creates a handler evaluating with opts
func NewHandler(reader db.Reader, opts services.Options, logger *zap.Logger) *Handler {
	return &Handler{reader: reader, opts: opts, logger: logger}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health reports that the server is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EvaluateDataset evaluates a dataset posted as JSON (or YAML) with the input tables
func (h *Handler) EvaluateDataset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDatasetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "dataset too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	raw, err := db.ParseDataset(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset", err)
		return
	}

	ds, issues := services.PrepareDataset(raw)
	result, err := services.Evaluate(ds, issues, h.opts, h.logger)
	if err != nil {
		h.logger.Error("Evaluation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "evaluation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Report evaluates the configured data source
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	result, ok := h.evaluateSource(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ReportWorkbook evaluates the configured data source and returns the xlsx export
func (h *Handler) ReportWorkbook(w http.ResponseWriter, r *http.Request) {
	result, ok := h.evaluateSource(w, r)
	if !ok {
		return
	}

	f, err := report.Workbook(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dsd.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		h.logger.Error("Failed to stream workbook", zap.Error(err))
	}
}

func (h *Handler) evaluateSource(w http.ResponseWriter, r *http.Request) (*services.Report, bool) {
	if h.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "no data source configured", nil)
		return nil, false
	}

	result, err := services.Run(r.Context(), h.reader, h.opts, h.logger)
	if err != nil {
		h.logger.Error("Evaluation of data source failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to evaluate data source", err)
		return nil, false
	}
	return result, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
