package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
)

// utf8BOM helps Excel recognize the encoding when a tidy CSV is opened
// directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes tidy enrollment CSVs under the configured data layout.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool
}

// WriteDataset writes the full dataset, base and derived columns included,
// as one tidy CSV.
func (w *CSVWriter) WriteDataset(filePath string, d *dataset.Dataset) error {
	records, err := datasetRecords(d)
	if err != nil {
		return err
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   dataset.Columns(),
		Records:   records,
		BOMPrefix: true,
	})
}

// AppendDataset appends a dataset's rows to an existing tidy CSV, header
// elided. The target's header must have been written with the same column
// order, which WriteCSV with dataset.Columns() guarantees.
func (w *CSVWriter) AppendDataset(filePath string, d *dataset.Dataset) error {
	records, err := datasetRecords(d)
	if err != nil {
		return err
	}
	return w.AppendToCSV(filePath, records)
}

// datasetRecords renders every record into the tidy column order.
func datasetRecords(d *dataset.Dataset) ([][]string, error) {
	columns := dataset.Columns()
	records := make([][]string, 0, d.Len())
	for _, r := range d.Records() {
		row := make([]string, len(columns))
		for i, c := range columns {
			v, err := r.Value(c)
			if err != nil {
				return nil, fmt.Errorf("format column %s: %w", c, err)
			}
			row[i] = v
		}
		records = append(records, row)
	}
	return records, nil
}

// WriteGroups writes an aggregation table (key/value rows) as a two-column
// CSV.
func (w *CSVWriter) WriteGroups(filePath string, keyHeader, valueHeader string, rows []dataset.GroupRow) error {
	records := make([][]string, 0, len(rows))
	for _, g := range rows {
		records = append(records, []string{g.Key, strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", g.Value), "0"), ".")})
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{keyHeader, valueHeader},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteCSV writes data to a CSV file with the given options.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("records", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// AppendToCSV appends records to an existing CSV file.
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Records: records,
		Append:  true,
	})
}

// resolvePath places relative outputs in the configured data layout:
// raw scraper downloads under downloads/, everything else under reports/.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	if strings.HasPrefix(filePath, "downloads/") {
		return w.paths.GetDownloadPath(filepath.Base(filePath))
	}
	return w.paths.GetReportPath(filePath)
}
