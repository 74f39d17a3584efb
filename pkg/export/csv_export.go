package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/blank-page-detector/models"
	"github.com/gocarina/gocsv"
)

// ResultRow is one CSV line. Tag order fixes the column order.
type ResultRow struct {
	URL           string `csv:"URL"`
	FinalURL      string `csv:"Final URL"`
	Status        int    `csv:"Status"`
	Redirects     int    `csv:"Redirects"`
	ContentLength int    `csv:"Content Length"`
	VisibleText   int    `csv:"Visible Text"`
	IsBlank       bool   `csv:"Is Blank"`
	Reason        string `csv:"Reason"`
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) Export(w io.Writer, results []models.ScanResult) error {
	rows := e.transformData(results)
	if err := gocsv.MarshalCSV(&rows, newQuotedWriter(w)); err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}
	return nil
}

func (e *CSVExporter) transformData(results []models.ScanResult) []ResultRow {
	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, ResultRow{
			URL:           r.OriginalURL,
			FinalURL:      r.FinalURL,
			Status:        r.StatusCode,
			Redirects:     r.RedirectHops,
			ContentLength: r.ContentLength,
			VisibleText:   r.VisibleTextLength,
			IsBlank:       r.IsBlankPage,
			Reason:        r.Reason(),
		})
	}
	return rows
}

// quotedWriter satisfies gocsv.CSVWriter. The header row is written bare and
// every data field is wrapped in double quotes with embedded quotes doubled.
type quotedWriter struct {
	w          *bufio.Writer
	headerDone bool
	err        error
}

func newQuotedWriter(w io.Writer) *quotedWriter {
	return &quotedWriter{w: bufio.NewWriter(w)}
}

func (q *quotedWriter) Write(row []string) error {
	if q.err != nil {
		return q.err
	}
	fields := make([]string, len(row))
	for i, f := range row {
		if q.headerDone {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			fields[i] = f
		}
	}
	q.headerDone = true
	_, q.err = q.w.WriteString(strings.Join(fields, ",") + "\n")
	return q.err
}

func (q *quotedWriter) Flush() {
	if err := q.w.Flush(); err != nil && q.err == nil {
		q.err = err
	}
}

func (q *quotedWriter) Error() error {
	return q.err
}
