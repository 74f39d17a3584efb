package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/dtnitsch/blank-page-detector/pkg/fetcher"
	"github.com/dtnitsch/blank-page-detector/pkg/scanner"
)

type countingFetcher struct {
	calls atomic.Int64
}

func (f *countingFetcher) Fetch(ctx context.Context, rawURL string) fetcher.Outcome {
	f.calls.Add(1)
	return fetcher.Done{Result: models.NewScanResult(rawURL, fetcher.NormalizeURL(rawURL))}
}

type stubScanner struct {
	calls   int
	gotURLs []string
	scan    func(urls []string) ([]models.ScanResult, error)
}

func (s *stubScanner) ScanBatch(ctx context.Context, urls []string) ([]models.ScanResult, error) {
	s.calls++
	s.gotURLs = urls
	if s.scan != nil {
		return s.scan(urls)
	}
	return echo(urls), nil
}

// echo returns one not-blank record per non-empty entry, in order.
func echo(urls []string) []models.ScanResult {
	out := make([]models.ScanResult, 0, len(urls))
	for _, u := range urls {
		if t := strings.TrimSpace(u); t != "" {
			out = append(out, models.NewScanResult(t, "https://"+t))
		}
	}
	return out
}

func doRequest(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleScanRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "urls is a string", body: `{"urls":"a.com"}`},
		{name: "urls is an object", body: `{"urls":{"a":"b"}}`},
		{name: "urls missing", body: `{}`},
		{name: "urls null", body: `{"urls":null}`},
		{name: "invalid json", body: `{"urls":[`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubScanner{}
			rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodPost, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := decodeError(t, rec).Error; got != `Invalid input. "urls" must be an array of strings.` {
				t.Errorf("error = %q", got)
			}
			if s.calls != 0 {
				t.Errorf("scanner calls = %d, want 0", s.calls)
			}
		})
	}
}

func TestHandleScanBatchLimit(t *testing.T) {
	cfg := models.DefaultScanConfig()
	f := &countingFetcher{}
	h := NewHandler(scanner.New(cfg, nil, f), cfg.MaxBatchSize, nil)

	urls := make([]string, 1001)
	for i := range urls {
		urls[i] = "a.com"
	}
	body, _ := json.Marshal(map[string]any{"urls": urls})

	rec := doRequest(t, h, http.MethodPost, string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rec).Error; got != "Batch size limit exceeded. Max 1000 URLs per request." {
		t.Errorf("error = %q", got)
	}
	if got := f.calls.Load(); got != 0 {
		t.Errorf("fetch calls = %d, want 0", got)
	}
}

func TestHandleScanEmpty(t *testing.T) {
	s := &stubScanner{}
	rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodPost, `{"urls":[]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleScanKeepsOrderAndDropsNonStrings(t *testing.T) {
	s := &stubScanner{}
	rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodPost, `{"urls":["b.com", 42, "  ", null, "a.com", {"x":1}, "c.com"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(s.gotURLs) != 7 {
		t.Errorf("scanner got %d entries, want 7", len(s.gotURLs))
	}

	var results []models.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	want := []string{"b.com", "a.com", "c.com"}
	if len(results) != len(want) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.OriginalURL != want[i] {
			t.Errorf("results[%d].OriginalURL = %q, want %q", i, r.OriginalURL, want[i])
		}
	}
}

func TestHandleScanResultFields(t *testing.T) {
	s := &stubScanner{scan: func(urls []string) ([]models.ScanResult, error) {
		r := models.NewScanResult("a.com", "https://a.com")
		r.FinalURL = "https://a.com/"
		r.StatusCode = 200
		r.RedirectChain = []models.RedirectStep{{URL: "https://a.com", Status: 301}, {URL: "https://a.com/", Status: 200}}
		r.Redirected = true
		r.RedirectHops = 1
		r.VisibleTextLength = 120
		return []models.ScanResult{r}, nil
	}}
	rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodPost, `{"urls":["a.com"]}`)

	var raw []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(raw))
	}
	for _, key := range []string{
		"original_url", "final_url", "status_code", "redirected", "redirect_hops",
		"redirect_chain", "content_length", "visible_text_length", "has_images_only",
		"blank_reason", "is_blank_page",
	} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("result missing key %q", key)
		}
	}
	if raw[0]["blank_reason"] != nil {
		t.Errorf("blank_reason = %v, want null", raw[0]["blank_reason"])
	}
	if _, ok := raw[0]["error"]; ok {
		t.Error("error key present on a successful result")
	}
}

func TestHandleScanMethodNotAllowed(t *testing.T) {
	s := &stubScanner{}
	rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodGet, "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestHandleScanPanic(t *testing.T) {
	s := &stubScanner{scan: func(urls []string) ([]models.ScanResult, error) {
		panic("boom")
	}}
	rec := doRequest(t, NewHandler(s, 1000, nil), http.MethodPost, `{"urls":["a.com"]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	resp := decodeError(t, rec)
	if resp.Error != "Internal Server Error" || resp.Details != "boom" {
		t.Errorf("error response = %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&stubScanner{}, 1000, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 \"ok\"", rec.Code, rec.Body.String())
	}
}
