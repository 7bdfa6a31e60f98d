// Package relation holds the two fixed relations the playground queries
// and the ordered Record type shared by every stage of the engine.
package relation

import "strings"

// ColumnType is the declared scalar type of a column.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeString
	TypeNumber
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Column describes one field of a relation schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered column list of a relation.
type Schema []Column

// Has reports whether the schema declares a column called name.
func (s Schema) Has(name string) bool {
	for _, c := range s {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// NullRecord returns a record carrying every schema column set to nil.
func (s Schema) NullRecord() Record {
	rec := make(Record, len(s))
	for i, c := range s {
		rec[i] = Field{Name: c.Name}
	}
	return rec
}

// Relation is a named, fixed-schema, ordered sequence of records.
// Relations are shared read-only; callers must not modify Records.
type Relation struct {
	Name    string
	Schema  Schema
	Records []Record
}

// Len returns the number of records.
func (r *Relation) Len() int {
	return len(r.Records)
}

var users = &Relation{
	Name: "users",
	Schema: Schema{
		{Name: "id", Type: TypeInt},
		{Name: "name", Type: TypeString},
		{Name: "age", Type: TypeInt},
		{Name: "country", Type: TypeString},
		{Name: "salary", Type: TypeNumber},
	},
	Records: []Record{
		NewRecord("id", int64(1), "name", "Alice", "age", int64(24), "country", "USA", "salary", float64(40000)),
		NewRecord("id", int64(2), "name", "Bob", "age", int64(30), "country", "USA", "salary", float64(60000)),
		NewRecord("id", int64(3), "name", "Charlie", "age", int64(28), "country", "India", "salary", float64(50000)),
	},
}

// Charlie has no orders.
var orders = &Relation{
	Name: "orders",
	Schema: Schema{
		{Name: "id", Type: TypeInt},
		{Name: "user_id", Type: TypeInt},
		{Name: "amount", Type: TypeNumber},
	},
	Records: []Record{
		NewRecord("id", int64(101), "user_id", int64(1), "amount", float64(120)),
		NewRecord("id", int64(102), "user_id", int64(1), "amount", float64(80)),
		NewRecord("id", int64(103), "user_id", int64(2), "amount", float64(200)),
	},
}

// Users returns the fixed users relation.
func Users() *Relation { return users }

// Orders returns the fixed orders relation.
func Orders() *Relation { return orders }

// All returns every relation in catalog order.
func All() []*Relation {
	return []*Relation{users, orders}
}

// Lookup finds a relation by case-insensitive name.
func Lookup(name string) (*Relation, bool) {
	switch strings.ToLower(name) {
	case users.Name:
		return users, true
	case orders.Name:
		return orders, true
	}
	return nil, false
}
