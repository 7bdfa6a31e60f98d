package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/vegasq/sqlplay/relation"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to convert records to the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes records in the formatter's specific format
	Format(records []relation.Record) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Names of the supported formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatTable, "":
		return NewTableFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s, %s or %s)", name, FormatTable, FormatJSON, FormatCSV)
	}
}

// Write renders a result set with f.
func Write(f Formatter, w io.Writer, records []relation.Record) error {
	f.SetOutput(w)
	return f.Format(records)
}

// WriteDiagnostic writes an {error} or {message} record as indented JSON,
// whatever format results are rendered in.
func WriteDiagnostic(w io.Writer, rec relation.Record) error {
	return NewPrettyJSONFormatter(w).Format([]relation.Record{rec})
}

// header returns the column names of the first record, which every
// record of a result shares.
func header(records []relation.Record) []string {
	if len(records) == 0 {
		return nil
	}
	return records[0].Names()
}

// formatValue converts a value to its text form. null renders as nullText.
func formatValue(v interface{}, nullText string) string {
	switch val := v.(type) {
	case nil:
		return nullText
	case string:
		return val
	case float64:
		switch {
		case math.IsNaN(val):
			return "NaN"
		case math.IsInf(val, 1):
			return "Infinity"
		case math.IsInf(val, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return cast.ToString(val)
	}
}
