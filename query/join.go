package query

import (
	"github.com/vegasq/sqlplay/relation"
)

// BuildRows materializes the rows a query reads: the FROM relation as plain
// rows, or the result of its join against orders.
func BuildRows(q *Query) ([]Row, error) {
	left, ok := relation.Lookup(q.Table)
	if !ok {
		return nil, ErrUnsupportedTable.New(q.Table)
	}

	if q.Join == nil {
		rows := make([]Row, 0, left.Len())
		for _, rec := range left.Records {
			rows = append(rows, PlainRow{Relation: left, Record: rec})
		}
		return rows, nil
	}

	right, ok := relation.Lookup(q.Join.Table)
	if !ok {
		return nil, ErrUnsupportedJoin.New(q.Join.Table)
	}
	return executeJoin(left, right, q.Join), nil
}

// joinIndex maps a key value to the records carrying it, in relation order.
type joinIndex map[interface{}][]relation.Record

func buildIndex(rel *relation.Relation, key string) joinIndex {
	idx := make(joinIndex, rel.Len())
	for _, rec := range rel.Records {
		k, _ := rec.Get(key)
		idx[k] = append(idx[k], rec)
	}
	return idx
}

// executeJoin is a hash join over both relations. Keys match on plain
// value equality with no coercion between types.
func executeJoin(left, right *relation.Relation, spec *JoinSpec) []Row {
	leftIdx := buildIndex(left, spec.LeftKey)
	rightIdx := buildIndex(right, spec.RightKey)

	pair := func(l, r relation.Record) Row {
		return JoinedRow{
			LeftAlias:     spec.LeftAlias,
			LeftRelation:  left,
			Left:          l,
			RightAlias:    spec.RightAlias,
			RightRelation: right,
			Right:         r,
		}
	}

	var rows []Row
	switch spec.Type {
	case InnerJoin, LeftJoin:
		for _, l := range left.Records {
			k, _ := l.Get(spec.LeftKey)
			matches := rightIdx[k]
			for _, r := range matches {
				rows = append(rows, pair(l, r))
			}
			if len(matches) == 0 && spec.Type == LeftJoin {
				rows = append(rows, pair(l, nil))
			}
		}

	case RightJoin:
		for _, r := range right.Records {
			k, _ := r.Get(spec.RightKey)
			matches := leftIdx[k]
			for _, l := range matches {
				rows = append(rows, pair(l, r))
			}
			if len(matches) == 0 {
				rows = append(rows, pair(nil, r))
			}
		}

	case FullJoin:
		for _, l := range left.Records {
			k, _ := l.Get(spec.LeftKey)
			matches := rightIdx[k]
			for _, r := range matches {
				rows = append(rows, pair(l, r))
			}
			if len(matches) == 0 {
				rows = append(rows, pair(l, nil))
			}
		}
		for _, r := range right.Records {
			k, _ := r.Get(spec.RightKey)
			if _, ok := leftIdx[k]; !ok {
				rows = append(rows, pair(nil, r))
			}
		}
	}

	return rows
}
