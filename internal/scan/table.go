package scan

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/fatih/color"
	"github.com/rodaine/table"
)

const (
	verdictBlank = "BLANK"
	verdictOK    = "OK"
	verdictError = "ERROR"
)

// PrintTable writes one row per result with the verdict colored.
func PrintTable(w io.Writer, results []models.ScanResult) {
	headerFmt := color.New(color.FgHiWhite, color.Underline).SprintfFunc()
	tbl := table.New("Verdict", "URL", "Final URL", "Status", "Hops", "Text", "Reason").
		WithWriter(w).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(verdictFormatter)

	for _, r := range results {
		tbl.AddRow(verdict(r), r.OriginalURL, r.FinalURL, r.StatusCode, r.RedirectHops, r.VisibleTextLength, r.Reason())
	}
	tbl.Print()
}

func verdict(r models.ScanResult) string {
	switch {
	case r.Error != "" && r.IsBlankPage:
		return verdictError
	case r.IsBlankPage:
		return verdictBlank
	default:
		return verdictOK
	}
}

// verdictFormatter colors the already padded verdict cell.
func verdictFormatter(format string, vals ...interface{}) string {
	cell := fmt.Sprintf(format, vals...)
	switch strings.TrimSpace(cell) {
	case verdictError:
		return color.HiMagentaString("%s", cell)
	case verdictBlank:
		return color.HiRedString("%s", cell)
	default:
		return color.HiGreenString("%s", cell)
	}
}
