package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dtnitsch/blank-page-detector/internal/common"
	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/dtnitsch/blank-page-detector/pkg/export"
	"github.com/dtnitsch/blank-page-detector/pkg/fetcher"
	"github.com/dtnitsch/blank-page-detector/pkg/scanner"
	"github.com/dtnitsch/blank-page-detector/pkg/storage"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func ScanAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	urls, err := collectURLs(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  blankscan scan --urls "example.com,https://example.org"`)
		fmt.Fprintln(os.Stderr, `  blankscan scan --file urls.txt --format csv --output report.csv`)
		fmt.Fprintln(os.Stderr, `  cat urls.txt | blankscan scan`)
		return cli.Exit("", 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scanner.New(cfg, logger, fetcher.NewFetcher(cfg))
	results, err := s.ScanBatch(ctx, urls)
	if err != nil {
		logger.Error("scan rejected", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	if c.Bool("no-color") {
		color.NoColor = true
	}
	if err := writeResults(c, results); err != nil {
		logger.Error("failed to write results", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	summary := scanner.Summarize(results)
	logger.Info("Scan summary",
		"total", summary.Total,
		"blank", summary.Blank,
		"errored", summary.Errored,
		"redirected", summary.Redirected,
		"top_reasons", scanner.TopReasons(summary.Reasons, 5),
	)
	if c.Bool("summary") {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err == nil {
			fmt.Fprintln(os.Stderr, string(data))
		}
	}

	if c.Bool("fail-on-blank") && summary.Blank > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d pages are blank", summary.Blank, summary.Total), 1)
	}
	return nil
}

// collectURLs gathers URLs from --urls followed by --file. Piped stdin is read
// only when neither flag is given.
func collectURLs(c *cli.Context) ([]string, error) {
	var urls []string
	if c.IsSet("urls") {
		urls = append(urls, common.ParseURLList(c.String("urls"))...)
	}
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open URL file: %w", err)
		}
		defer f.Close()
		fromFile, err := common.ReadURLList(f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 && !c.IsSet("urls") && c.String("file") == "" && stdinIsPiped() {
		return common.ReadURLList(os.Stdin)
	}
	return urls, nil
}

func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// writeResults renders results in --format to --output (stdout by default).
func writeResults(c *cli.Context, results []models.ScanResult) error {
	format := strings.ToLower(c.String("format"))

	var out io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		if format == "table" {
			format = formatFromExtension(path)
		}
		exp, err := export.ForFormat(format)
		if err != nil {
			return err
		}
		store := &storage.Storage{}
		f, err := store.Create(store.ResolvePath(path, export.DefaultFilename(exp, time.Now())))
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if format == "table" {
		PrintTable(out, results)
		return nil
	}
	exp, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	return exp.Export(out, results)
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
