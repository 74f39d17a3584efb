package export

import (
	"fmt"
	"io"

	"github.com/dtnitsch/blank-page-detector/models"
	"gopkg.in/yaml.v3"
)

type YAMLExporter struct{}

func NewYAMLExporter() Exporter {
	return &YAMLExporter{}
}

func (e *YAMLExporter) Extension() string { return "yaml" }

func (e *YAMLExporter) Export(w io.Writer, results []models.ScanResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if results == nil {
		results = []models.ScanResult{}
	}
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
