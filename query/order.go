package query

import (
	"reflect"
	"sort"

	"github.com/vegasq/sqlplay/relation"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyDistinct removes duplicate records, keeping the first occurrence.
// Two records are equal when they have the same fields in the same order
// with the same values.
func ApplyDistinct(records []relation.Record) ([]relation.Record, error) {
	seen := make(map[uint64][]relation.Record, len(records))
	distinct := make([]relation.Record, 0, len(records))

	for _, rec := range records {
		key, err := hashValues(rec)
		if err != nil {
			return nil, err
		}
		if containsRecord(seen[key], rec) {
			continue
		}
		seen[key] = append(seen[key], rec)
		distinct = append(distinct, rec)
	}

	return distinct, nil
}

func containsRecord(bucket []relation.Record, rec relation.Record) bool {
	for _, other := range bucket {
		if reflect.DeepEqual(other, rec) {
			return true
		}
	}
	return false
}

// ApplyOrderBy sorts records on one projected column. Numbers compare
// numerically and everything else by English collation of its string
// form. The sort is stable.
func ApplyOrderBy(records []relation.Record, orderBy *OrderByItem) ([]relation.Record, error) {
	if orderBy == nil || len(records) == 0 {
		return records, nil
	}
	if !records[0].Has(orderBy.Column) {
		return nil, ErrUnknownSortColumn.New(orderBy.Column)
	}

	col := collate.New(language.English)
	sorted := make([]relation.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := sorted[i].Get(orderBy.Column)
		b, _ := sorted[j].Get(orderBy.Column)

		cmp := compareValues(col, a, b)
		if orderBy.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted, nil
}

// compareValues returns -1, 0 or +1. NaN differences compare as equal.
func compareValues(col *collate.Collator, a, b interface{}) int {
	if isNumeric(a) && isNumeric(b) {
		x, y := toNumber(a), toNumber(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return col.CompareString(stringify(a), stringify(b))
}

// ApplyLimit keeps the first n records
func ApplyLimit(records []relation.Record, limit *int) []relation.Record {
	if limit == nil || *limit >= len(records) {
		return records
	}
	return records[:*limit]
}
