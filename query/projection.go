package query

import (
	"github.com/vegasq/sqlplay/relation"
)

// ApplySelectList projects rows onto the select list. For * a plain row
// is copied as-is and a joined row is flattened to <alias>_<field> for
// both sides.
func ApplySelectList(rows []Row, q *Query) ([]relation.Record, error) {
	projected := make([]relation.Record, 0, len(rows))

	for _, row := range rows {
		var rec relation.Record
		var err error
		if q.Star {
			rec = projectStar(row)
		} else {
			rec, err = projectItems(row, q.Select)
			if err != nil {
				return nil, err
			}
		}
		projected = append(projected, rec)
	}

	return projected, nil
}

func projectStar(row Row) relation.Record {
	switch r := row.(type) {
	case PlainRow:
		return r.Record
	case JoinedRow:
		rec := make(relation.Record, 0, len(r.LeftRelation.Schema)+len(r.RightRelation.Schema))
		for _, side := range r.sides() {
			for _, col := range side.rel.Schema {
				var value interface{}
				if side.record != nil {
					value, _ = side.record.Get(col.Name)
				}
				rec = rec.With(side.alias+"_"+col.Name, value)
			}
		}
		return rec
	case GroupRow:
		return r.Output
	}
	return nil
}

func projectItems(row Row, items []SelectItem) (relation.Record, error) {
	rec := make(relation.Record, 0, len(items))
	for _, item := range items {
		value, err := Resolve(row, item.Column)
		if err != nil {
			return nil, err
		}
		// a repeated output name keeps its first position and the last value
		rec = rec.With(item.OutputName(), value)
	}
	return rec, nil
}
