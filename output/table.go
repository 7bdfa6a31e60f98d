package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/vegasq/sqlplay/relation"
)

// TableFormatter renders records as a bordered text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes records as a table whose header is the first record's
// field names. Null values show as NULL.
func (t *TableFormatter) Format(records []relation.Record) error {
	columns := header(records)
	if len(columns) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = formatValue(v, "NULL")
		}
		table.Append(row)
	}

	table.Render()
	return nil
}
