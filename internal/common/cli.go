package common

import (
	"log/slog"
	"os"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger honoring --quiet and --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ConfigFromContext loads --config and applies any explicitly set flags on top.
func ConfigFromContext(c *cli.Context) (models.ScanConfig, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("max-redirects") {
		cfg.MaxRedirects = c.Int("max-redirects")
	}
	if c.IsSet("min-text") {
		cfg.MinTextLength = c.Int("min-text")
	}
	if c.IsSet("min-html") {
		cfg.MinHTMLLength = c.Int("min-html")
	}
	if c.IsSet("max-batch") {
		cfg.MaxBatchSize = c.Int("max-batch")
	}
	if c.IsSet("rate-limit") {
		cfg.RateLimit = c.Float64("rate-limit")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}

	return cfg, cfg.Validate()
}

// ScanFlags are the pipeline flags shared by every command.
func ScanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"BLANKSCAN_CONFIG"}},
		&cli.IntFlag{Name: "concurrency", Aliases: []string{"w"}, Value: models.DefaultConcurrency, Usage: "Max analyses in flight", EnvVars: []string{"BLANKSCAN_CONCURRENCY"}},
		&cli.DurationFlag{Name: "timeout", Value: models.DefaultTimeout, Usage: "Per-request timeout", EnvVars: []string{"BLANKSCAN_TIMEOUT"}},
		&cli.IntFlag{Name: "max-redirects", Value: models.DefaultMaxRedirects, Usage: "Redirect hops before giving up", EnvVars: []string{"BLANKSCAN_MAX_REDIRECTS"}},
		&cli.IntFlag{Name: "min-text", Value: models.DefaultMinTextLength, Usage: "Visible characters needed for a page to count as not blank", EnvVars: []string{"BLANKSCAN_MIN_TEXT"}},
		&cli.IntFlag{Name: "min-html", Value: models.DefaultMinHTMLLength, Usage: "HTML characters below which a page is blank without parsing", EnvVars: []string{"BLANKSCAN_MIN_HTML"}},
		&cli.IntFlag{Name: "max-batch", Value: models.DefaultMaxBatchSize, Usage: "Max URLs per batch", EnvVars: []string{"BLANKSCAN_MAX_BATCH"}},
		&cli.Float64Flag{Name: "rate-limit", Usage: "Requests per second across the batch (0 = unlimited)", EnvVars: []string{"BLANKSCAN_RATE_LIMIT"}},
		&cli.StringFlag{Name: "user-agent", Value: models.DefaultUserAgent, Usage: "User-Agent header", EnvVars: []string{"BLANKSCAN_USER_AGENT"}},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output"},
	}
}
