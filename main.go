package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/blank-page-detector/internal/common"
	"github.com/dtnitsch/blank-page-detector/internal/scan"
	"github.com/dtnitsch/blank-page-detector/internal/serve"
	"github.com/dtnitsch/blank-page-detector/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "blankscan",
		Usage: "Audit URLs for pages that end up blank after redirects",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "Scan a list of URLs and report which final pages are blank",
				ArgsUsage: " ",
				Flags: append(common.ScanFlags(),
					&cli.StringFlag{Name: "urls", Aliases: []string{"u"}, Usage: "Comma or newline separated URLs"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "File with one URL per line"},
					&cli.StringFlag{Name: "format", Value: "table", Usage: "Output format: table, json, csv or yaml"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write output to this file or directory instead of stdout"},
					&cli.BoolFlag{Name: "summary", Usage: "Print batch statistics to stderr"},
					&cli.BoolFlag{Name: "fail-on-blank", Usage: "Exit with status 1 if any page is blank"},
					&cli.BoolFlag{Name: "no-color", Usage: "Disable colored table output"},
				),
				Action: scan.ScanAction,
			},
			{
				Name:  "serve",
				Usage: "Serve POST /api/scan over HTTP",
				Flags: append(common.ScanFlags(),
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "Listen address", EnvVars: []string{"BLANKSCAN_ADDR"}},
				),
				Action: serve.ServeAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML quick reference",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
