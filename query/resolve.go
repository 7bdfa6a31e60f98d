package query

import (
	"strings"

	"github.com/vegasq/sqlplay/relation"
)

// Resolve returns the value a column reference names in row. A reference
// that names no field of the row's relations is an ErrUnknownColumn.
func Resolve(row Row, ref string) (interface{}, error) {
	switch r := row.(type) {
	case PlainRow:
		return recordValue(r.Record, ref)
	case GroupRow:
		return recordValue(r.Output, ref)
	case JoinedRow:
		return r.resolve(ref)
	default:
		return nil, ErrUnknownColumn.New(ref)
	}
}

// recordValue reads an unqualified field. Plain records carry no aliases,
// so a qualified reference never resolves.
func recordValue(rec relation.Record, ref string) (interface{}, error) {
	if strings.Contains(ref, ".") {
		return nil, ErrUnknownColumn.New(ref)
	}
	if v, ok := rec.Get(ref); ok {
		return v, nil
	}
	return nil, ErrUnknownColumn.New(ref)
}

type joinSide struct {
	alias  string
	rel    *relation.Relation
	record relation.Record
}

func (r JoinedRow) sides() [2]joinSide {
	return [2]joinSide{
		{alias: r.LeftAlias, rel: r.LeftRelation, record: r.Left},
		{alias: r.RightAlias, rel: r.RightRelation, record: r.Right},
	}
}

func (r JoinedRow) resolve(ref string) (interface{}, error) {
	sides := r.sides()

	if alias, col, ok := strings.Cut(ref, "."); ok {
		for _, side := range sides {
			if side.alias != alias {
				continue
			}
			if !side.rel.Schema.Has(col) {
				return nil, ErrUnknownColumn.New(ref)
			}
			if side.record == nil {
				return nil, nil
			}
			v, _ := side.record.Get(col)
			return v, nil
		}
		return nil, ErrUnknownColumn.New(ref)
	}

	for _, side := range sides {
		if side.record == nil {
			continue
		}
		if v, ok := side.record.Get(ref); ok {
			return v, nil
		}
	}
	// An unmatched side still owns its schema's columns; they read as null.
	for _, side := range sides {
		if side.record == nil && side.rel.Schema.Has(ref) {
			return nil, nil
		}
	}
	return nil, ErrUnknownColumn.New(ref)
}

// probeRow returns a row of the query's shape with every field null. It is
// used to check column references before any data is touched.
func probeRow(q *Query) (Row, error) {
	rel, ok := relation.Lookup(q.Table)
	if !ok {
		return nil, ErrUnsupportedTable.New(q.Table)
	}
	if q.Join == nil {
		return PlainRow{Relation: rel, Record: rel.Schema.NullRecord()}, nil
	}
	return JoinedRow{
		LeftAlias:     q.Join.LeftAlias,
		LeftRelation:  rel,
		RightAlias:    q.Join.RightAlias,
		RightRelation: relation.Orders(),
	}, nil
}
