package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Columns listed in QuotedColumns are
// always emitted wrapped in double quotes; everything else is written as-is.
type Dataset struct {
	Headers       []string
	Rows          []map[string]string
	QuotedColumns []string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	quoted := make(map[string]struct{}, len(data.QuotedColumns))
	for _, col := range data.QuotedColumns {
		quoted[col] = struct{}{}
	}

	lines := make([]string, 0, len(data.Rows)+1)
	lines = append(lines, strings.Join(data.Headers, ","))

	cells := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			value := row[header]
			if _, ok := quoted[header]; ok {
				value = quoteCell(value)
			}
			cells[i] = value
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func quoteCell(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
