// Package scanner composes fetching and classification into a single
// per-URL analysis and runs batches of them under bounded concurrency.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/dtnitsch/blank-page-detector/pkg/detector"
	"github.com/dtnitsch/blank-page-detector/pkg/fetcher"
	"golang.org/x/sync/semaphore"
)

// ErrBatchTooLarge is returned when a batch exceeds the configured ceiling.
var ErrBatchTooLarge = errors.New("batch size limit exceeded")

// Fetcher resolves a URL to a fetch outcome. *fetcher.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) fetcher.Outcome
}

// Scanner runs the blank-page analysis.
type Scanner struct {
	cfg        models.ScanConfig
	thresholds detector.Thresholds
	fetcher    Fetcher
	logger     *slog.Logger
}

// New creates a Scanner. A nil logger discards log output.
func New(cfg models.ScanConfig, logger *slog.Logger, f Fetcher) *Scanner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{
		cfg:        cfg,
		thresholds: detector.ThresholdsFrom(cfg),
		fetcher:    f,
		logger:     logger,
	}
}

// Analyze fetches rawURL, follows its redirects and classifies the final page.
func (s *Scanner) Analyze(ctx context.Context, rawURL string) models.ScanResult {
	start := time.Now()
	s.logger.Debug("Analysis started", "url", rawURL)

	var res models.ScanResult
	switch out := s.fetcher.Fetch(ctx, rawURL).(type) {
	case fetcher.Done:
		res = out.Result
	case fetcher.Terminal:
		verdict := detector.Classify(detector.Input{
			StatusCode:    out.StatusCode,
			ContentLength: out.ContentLength,
			HTML:          out.Body,
		}, s.thresholds)
		if verdict.ParseError != nil {
			s.logger.Warn("Failed to parse HTML", "url", rawURL, "error", verdict.ParseError)
		}
		res = verdict.Apply(out.Result())
	default:
		res = fetcher.Failed(rawURL, fmt.Errorf("unexpected fetch outcome %T", out))
	}

	s.logger.Info("Analysis finished",
		"url", rawURL,
		"final_url", res.FinalURL,
		"status_code", res.StatusCode,
		"redirect_hops", res.RedirectHops,
		"is_blank_page", res.IsBlankPage,
		"blank_reason", res.Reason(),
		"error", res.Error,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// ScanBatch analyzes urls with at most Concurrency analyses in flight.
// Entries that are blank after trimming are dropped; the output keeps the
// input order of the remaining entries. Only an oversized batch is an error.
func (s *Scanner) ScanBatch(ctx context.Context, urls []string) ([]models.ScanResult, error) {
	if len(urls) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d URLs, max %d", ErrBatchTooLarge, len(urls), s.cfg.MaxBatchSize)
	}

	targets := make([]string, 0, len(urls))
	for _, u := range urls {
		if t := strings.TrimSpace(u); t != "" {
			targets = append(targets, t)
		}
	}

	results := make([]models.ScanResult, len(targets))
	if len(targets) == 0 {
		return results, nil
	}

	s.logger.Info("Starting batch", "url_count", len(targets), "concurrency", s.cfg.Concurrency)
	start := time.Now()

	sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))
	var wg sync.WaitGroup
	for i, target := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context is done: the rest never started but still get a record.
			for j := i; j < len(targets); j++ {
				results[j] = fetcher.Failed(targets[j], err)
			}
			break
		}
		wg.Add(1)
		i, target := i, target
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Analysis panicked", "url", target, "panic", r)
					results[i] = fetcher.Failed(target, fmt.Errorf("internal error: %v", r))
				}
			}()
			results[i] = s.Analyze(ctx, target)
		}()
	}
	wg.Wait()

	s.logger.Info("Batch finished", "url_count", len(targets), "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}
