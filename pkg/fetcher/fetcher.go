package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/blank-page-detector/models"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Reasons and messages attached to results decided during the fetch.
const (
	ReasonTooManyRedirects  = "Redirect Loop / Too Many Redirects"
	MessageTooManyRedirects = "Too many redirects"

	reasonNoContentFormat = "Status %d No Content"
)

// NormalizeURL prefixes https:// when the input carries no http(s) scheme.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// Outcome is what a fetch produced: either a Terminal response that still
// needs classification or a Done result whose verdict is already decided.
type Outcome interface {
	isOutcome()
}

// Terminal is the first non-redirect response of a chain.
type Terminal struct {
	OriginalURL   string
	FinalURL      string
	StatusCode    int
	Hops          int
	Chain         []models.RedirectStep
	ContentLength int
	Body          string
}

// Done carries a result that needs no further analysis.
type Done struct {
	Result models.ScanResult
}

func (Terminal) isOutcome() {}
func (Done) isOutcome()     {}

// Result builds the pre-classification record for t.
func (t Terminal) Result() models.ScanResult {
	return models.ScanResult{
		OriginalURL:   t.OriginalURL,
		FinalURL:      t.FinalURL,
		StatusCode:    t.StatusCode,
		Redirected:    t.Hops > 0,
		RedirectHops:  t.Hops,
		RedirectChain: t.Chain,
		ContentLength: t.ContentLength,
	}
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithTransport replaces the default transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.transport = rt }
}

// Fetcher resolves a URL to its terminal response, walking redirects by hand.
// Requests go straight to the transport so every Location header, including
// a malformed one, is seen and resolved here.
type Fetcher struct {
	transport http.RoundTripper
	cfg       models.ScanConfig
	limiter   *rate.Limiter
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg models.ScanConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:       cfg,
		transport: newTransport(cfg.Timeout),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// exchange is the part of one HTTP round trip the redirect walk needs.
type exchange struct {
	status   int
	location string
	size     int
	body     string
}

// Fetch walks rawURL's redirect chain and returns the terminal response or a
// decided result. It never returns an error: transport failures become Done.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Outcome {
	current := NormalizeURL(rawURL)
	base := models.NewScanResult(rawURL, current)
	chain := make([]models.RedirectStep, 0, 1)
	hops := 0

	for {
		ex, err := f.do(ctx, current)
		if ex.status != 0 {
			chain = append(chain, models.RedirectStep{URL: current, Status: ex.status})
		}
		if err != nil {
			res := failed(base, current, chain, hops, err)
			res.StatusCode = ex.status
			return Done{Result: res}
		}

		if isRedirect(ex.status) && ex.location != "" {
			next, err := resolveLocation(current, ex.location)
			if err != nil {
				return Done{Result: failed(base, current, chain, hops, fmt.Errorf("invalid redirect location %q: %w", ex.location, err))}
			}
			hops++
			if hops > f.cfg.MaxRedirects {
				res := base
				res.FinalURL = current
				res.Redirected = true
				res.RedirectHops = hops
				res.RedirectChain = chain
				res.Error = MessageTooManyRedirects
				return Done{Result: res.Blank(ReasonTooManyRedirects)}
			}
			current = next
			continue
		}

		t := Terminal{
			OriginalURL:   rawURL,
			FinalURL:      current,
			StatusCode:    ex.status,
			Hops:          hops,
			Chain:         chain,
			ContentLength: ex.size,
			Body:          ex.body,
		}
		if isNoContent(ex.status) {
			return Done{Result: t.Result().Blank(fmt.Sprintf(reasonNoContentFormat, ex.status))}
		}
		return t
	}
}

// do performs a single GET under its own timeout. The body is read only for
// terminal responses. Once the status line has arrived the returned exchange
// carries the status even when err is set.
func (f *Fetcher) do(ctx context.Context, target string) (exchange, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return exchange{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return exchange{}, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", f.cfg.Accept)

	resp, err := f.transport.RoundTrip(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return exchange{}, f.timeoutError()
		}
		return exchange{}, f.describe(err)
	}
	defer resp.Body.Close()

	ex := exchange{status: resp.StatusCode}
	if isRedirect(resp.StatusCode) {
		ex.location = resp.Header.Get("Location")
		if ex.location != "" {
			return ex, nil
		}
	}
	if isNoContent(resp.StatusCode) {
		return ex, nil
	}

	// Only the first MaxBodyBytes are kept for classification; the rest is
	// drained so size is the full length received.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return ex, fmt.Errorf("failed to read response body: %w", f.describe(err))
	}
	rest, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return ex, fmt.Errorf("failed to read response body: %w", f.describe(err))
	}
	ex.size = len(raw) + int(rest)
	ex.body = decodeBody(raw, resp.Header.Get("Content-Type"))
	return ex, nil
}

// describe turns deadline errors into a message naming the timeout.
func (f *Fetcher) describe(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return f.timeoutError()
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return f.timeoutError()
	}
	return err
}

func (f *Fetcher) timeoutError() error {
	return fmt.Errorf("request timed out after %s", f.cfg.Timeout)
}

// decodeBody converts raw to UTF-8 using the declared or sniffed charset.
func decodeBody(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// resolveLocation resolves a Location header against the current URL.
// An absolute location is used as-is when the current URL cannot be parsed.
func resolveLocation(current, location string) (string, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(current)
	if err != nil {
		if ref.IsAbs() && ref.Host != "" {
			return location, nil
		}
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// Failed builds the blank record for an analysis that never got a response.
func Failed(rawURL string, err error) models.ScanResult {
	current := NormalizeURL(rawURL)
	return failed(models.NewScanResult(rawURL, current), current, nil, 0, err)
}

func failed(base models.ScanResult, current string, chain []models.RedirectStep, hops int, err error) models.ScanResult {
	res := base
	res.FinalURL = current
	if chain != nil {
		res.RedirectChain = chain
	}
	res.Redirected = hops > 0
	res.RedirectHops = hops
	res.Error = err.Error()
	return res.Blank("Request Failed: " + err.Error())
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func isNoContent(status int) bool {
	return status == http.StatusNoContent || status == http.StatusResetContent
}
