package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/sqlplay/relation"
)

// CSVFormatter outputs records as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes records as CSV. The header is the first record's field
// names in order; null values are empty cells.
func (c *CSVFormatter) Format(records []relation.Record) error {
	csvWriter := csv.NewWriter(c.writer)

	if columns := header(records); len(columns) > 0 {
		if err := csvWriter.Write(columns); err != nil {
			return err
		}

		for _, rec := range records {
			row := make([]string, len(columns))
			for i, col := range columns {
				v, _ := rec.Get(col)
				row[i] = sanitizeCSV(formatValue(v, ""))
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// sanitizeCSV guards against formula injection by quoting cells that a
// spreadsheet would evaluate.
func sanitizeCSV(val string) string {
	if len(val) == 0 {
		return val
	}
	switch val[0] {
	case '=', '+', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(val, "'", "''")
	case '-':
		// negative numbers are safe
		if len(val) > 1 && (val[1] >= '0' && val[1] <= '9' || val == "-Infinity") {
			return val
		}
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
