package output

import (
	"encoding/json"
	"io"

	"github.com/vegasq/sqlplay/relation"
)

// JSONFormatter outputs records as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes records as JSON Lines (one JSON object per line). Field
// order is kept.
func (j *JSONFormatter) Format(records []relation.Record) error {
	encoder := json.NewEncoder(j.writer)
	for _, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// PrettyJSONFormatter writes all records as one indented JSON array
type PrettyJSONFormatter struct {
	writer io.Writer
}

// NewPrettyJSONFormatter creates a new indented JSON formatter
func NewPrettyJSONFormatter(w io.Writer) *PrettyJSONFormatter {
	return &PrettyJSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *PrettyJSONFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes records as an indented JSON array
func (p *PrettyJSONFormatter) Format(records []relation.Record) error {
	if records == nil {
		records = []relation.Record{}
	}
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
