package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dtnitsch/blank-page-detector/models"
)

type JSONExporter struct{}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Extension() string { return "json" }

// Export writes the result array exactly as the HTTP endpoint returns it.
func (e *JSONExporter) Export(w io.Writer, results []models.ScanResult) error {
	if results == nil {
		results = []models.ScanResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
