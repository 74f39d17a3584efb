// Package api exposes the batch scanner as a JSON HTTP endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/dtnitsch/blank-page-detector/pkg/scanner"
)

const maxRequestBytes = 10 << 20

// ErrURLsNotArray is returned when the request body has no "urls" array.
var ErrURLsNotArray = errors.New(`invalid input. "urls" must be an array of strings`)

// BatchScanner runs a batch of analyses. *scanner.Scanner implements it.
type BatchScanner interface {
	ScanBatch(ctx context.Context, urls []string) ([]models.ScanResult, error)
}

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	URLs json.RawMessage `json:"urls"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	scanner  BatchScanner
	logger   *slog.Logger
	maxBatch int
	mux      *http.ServeMux
}

// NewHandler wires the scan and health routes.
func NewHandler(s BatchScanner, maxBatch int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Handler{scanner: s, logger: logger, maxBatch: maxBatch, mux: http.NewServeMux()}
	h.mux.HandleFunc("/api/scan", h.handleScan)
	h.mux.HandleFunc("/healthz", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("Scan handler panic", "path", r.URL.Path, "panic", rec)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "Internal Server Error",
				Details: fmt.Sprint(rec),
			})
		}
	}()
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Use POST."})
		return
	}

	urls, err := decodeURLs(r, w)
	if err != nil {
		h.logger.Warn("Rejected scan request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: `Invalid input. "urls" must be an array of strings.`, Details: detailsFor(err)})
		return
	}

	if len(urls) == 0 {
		writeJSON(w, http.StatusOK, []models.ScanResult{})
		return
	}

	start := time.Now()
	results, err := h.scanner.ScanBatch(r.Context(), urls)
	if errors.Is(err, scanner.ErrBatchTooLarge) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Batch size limit exceeded. Max %d URLs per request.", h.maxBatch)})
		return
	}
	if err != nil {
		h.logger.Error("Scan failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Details: err.Error()})
		return
	}

	h.logger.Info("Scan request served", "url_count", len(urls), "result_count", len(results), "duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, results)
}

// decodeURLs reads the "urls" array. Entries that are not strings become ""
// so they are dropped by the scanner but still count toward the batch limit.
func decodeURLs(r *http.Request, w http.ResponseWriter) ([]string, error) {
	var req ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}

	var raw []any
	if len(req.URLs) == 0 || string(req.URLs) == "null" {
		return nil, ErrURLsNotArray
	}
	if err := json.Unmarshal(req.URLs, &raw); err != nil {
		return nil, ErrURLsNotArray
	}

	urls := make([]string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			urls[i] = s
		}
	}
	return urls, nil
}

func detailsFor(err error) string {
	if errors.Is(err, ErrURLsNotArray) {
		return ""
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
