package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is an ordered tabular report. Rows are keyed by header name and
// render blank for columns they omit, so sparse records (a placeholder
// binding with no venue or timing, say) need no padding by the caller.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// NewDataset fixes the column order for a report.
func NewDataset(headers ...string) Dataset {
	return Dataset{Headers: headers}
}

// AddRow appends one record. Keys outside the header set are ignored when
// rendering.
func (d *Dataset) AddRow(row map[string]string) {
	d.Rows = append(d.Rows, row)
}

// CSVExporter renders a Dataset as CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the header row followed by every record, cells in header
// order.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
