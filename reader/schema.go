package reader

import (
	"fmt"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/vegasq/sqlplay/relation"
)

// ColumnInfo describes one leaf column of a parquet file.
type ColumnInfo struct {
	Name         string
	Type         string
	PhysicalType string
	LogicalType  string
	Required     bool
	Repeated     bool
}

// Record renders the column description as an output record.
func (c ColumnInfo) Record() relation.Record {
	return relation.NewRecord(
		"name", c.Name,
		"type", c.Type,
		"physical_type", c.PhysicalType,
		"logical_type", c.LogicalType,
		"required", strconv.FormatBool(c.Required),
		"repeated", strconv.FormatBool(c.Repeated),
	)
}

// ReadSchema lists the leaf columns of the parquet file at path. Nested
// columns use dot notation, e.g. "address.street".
func ReadSchema(path string) ([]ColumnInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var columns []ColumnInfo
	for _, field := range r.Schema().Fields() {
		columns = appendColumns(columns, field, "", false)
	}
	return columns, nil
}

// SchemaRecords returns ReadSchema's result as records.
func SchemaRecords(path string) ([]relation.Record, error) {
	columns, err := ReadSchema(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	records := make([]relation.Record, len(columns))
	for i, c := range columns {
		records[i] = c.Record()
	}
	return records, nil
}

// appendColumns walks field depth-first. Groups contribute no column of
// their own; repetition is inherited by every leaf below a repeated group.
func appendColumns(columns []ColumnInfo, field parquet.Field, prefix string, parentRepeated bool) []ColumnInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			columns = appendColumns(columns, child, name, repeated)
		}
		return columns
	}

	return append(columns, ColumnInfo{
		Name:         name,
		Type:         columnType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Repeated:     repeated,
	})
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

func logicalType(field parquet.Field) string {
	if field.Type() == nil || field.Type().LogicalType() == nil {
		return ""
	}
	return field.Type().LogicalType().String()
}

// columnType maps a parquet column onto the playground's column types:
// integers are int, floating point is number, everything else is string.
func columnType(field parquet.Field) string {
	if field.Type() == nil {
		return relation.TypeString.String()
	}

	switch field.Type().Kind() {
	case parquet.Boolean, parquet.Int32, parquet.Int64:
		return relation.TypeInt.String()
	case parquet.Float, parquet.Double:
		return relation.TypeNumber.String()
	default:
		return relation.TypeString.String()
	}
}
