package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dtnitsch/blank-page-detector/models"
)

type Exporter interface {
	// Export writes results to w in the exporter's format
	Export(w io.Writer, results []models.ScanResult) error
	// Extension is the file extension without the dot
	Extension() string
}

// ForFormat returns the exporter registered for format.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONExporter(), nil
	case "csv":
		return NewCSVExporter(), nil
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	}
	return nil, fmt.Errorf("unknown export format %q (want json, csv or yaml)", format)
}

// DefaultFilename names an export file after the scan date.
func DefaultFilename(e Exporter, now time.Time) string {
	return fmt.Sprintf("scan_results_%s.%s", now.Format("2006-01-02"), e.Extension())
}
