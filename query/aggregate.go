package query

import (
	"math"
	"reflect"

	"github.com/mitchellh/hashstructure"
	"github.com/vegasq/sqlplay/relation"
)

// Group is one partition of the input rows under GROUP BY
type Group struct {
	Key    uint64        // hash of Values
	Values []interface{} // GROUP BY column values, in clause order
	Rows   []Row         // member rows in input order
}

// hashValues keys the group and distinct indexes. Equal hashes are
// confirmed with reflect.DeepEqual.
var hashValues = func(v interface{}) (uint64, error) {
	return hashstructure.Hash(v, nil)
}

// GroupRows partitions rows by the values of the GROUP BY columns. Groups
// are returned in the order their first row was seen.
func GroupRows(rows []Row, columns []string) ([]*Group, error) {
	index := make(map[uint64][]*Group)
	var groups []*Group

	for _, row := range rows {
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			v, err := Resolve(row, col)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		key, err := hashValues(values)
		if err != nil {
			return nil, err
		}

		if group := findGroup(index[key], values); group != nil {
			group.Rows = append(group.Rows, row)
			continue
		}
		group := &Group{Key: key, Values: values, Rows: []Row{row}}
		index[key] = append(index[key], group)
		groups = append(groups, group)
	}

	return groups, nil
}

func findGroup(bucket []*Group, values []interface{}) *Group {
	for _, group := range bucket {
		if reflect.DeepEqual(group.Values, values) {
			return group
		}
	}
	return nil
}

// ApplyGroupByAndAggregate builds one output record per group and keeps the
// groups that pass HAVING.
func ApplyGroupByAndAggregate(rows []Row, q *Query) ([]relation.Record, error) {
	if err := validateSelectListWithGroupBy(q); err != nil {
		return nil, err
	}

	groups, err := GroupRows(rows, q.GroupBy)
	if err != nil {
		return nil, err
	}

	result := make([]relation.Record, 0, len(groups))
	for _, group := range groups {
		rec, err := computeAggregates(group.Rows, q.Select)
		if err != nil {
			return nil, err
		}

		keep, err := q.Having.Evaluate(GroupRow{Output: rec, Members: group.Rows})
		if err != nil {
			return nil, err
		}
		if keep {
			result = append(result, rec)
		}
	}

	return result, nil
}

// aggregateWithoutGroupBy treats every row as one group. A lone unaliased
// aggregate is named after its function; otherwise fields are named as
// they would be inside a group.
func aggregateWithoutGroupBy(rows []Row, q *Query) ([]relation.Record, error) {
	var rec relation.Record

	if len(q.Select) == 1 && q.Select[0].Alias == "" {
		agg := q.Select[0].Aggregate
		value, err := evaluateAggregate(agg, rows)
		if err != nil {
			return nil, err
		}
		rec = relation.NewRecord(agg.Func, value)
	} else {
		var err error
		if rec, err = computeAggregates(rows, q.Select); err != nil {
			return nil, err
		}
	}

	keep, err := q.Having.Evaluate(GroupRow{Output: rec, Members: rows})
	if err != nil {
		return nil, err
	}
	if !keep {
		return []relation.Record{}, nil
	}
	return []relation.Record{rec}, nil
}

// computeAggregates evaluates the select list over one group's rows
func computeAggregates(rows []Row, items []SelectItem) (relation.Record, error) {
	rec := make(relation.Record, 0, len(items))

	for _, item := range items {
		if item.Aggregate != nil {
			value, err := evaluateAggregate(item.Aggregate, rows)
			if err != nil {
				return nil, err
			}
			name := item.Alias
			if name == "" {
				name = item.Aggregate.FieldName()
			}
			rec = rec.With(name, value)
			continue
		}

		// grouping column: every member shares its value
		var value interface{}
		if len(rows) > 0 {
			v, err := Resolve(rows[0], item.Column)
			if err != nil {
				return nil, err
			}
			value = v
		}
		rec = rec.With(item.OutputName(), value)
	}

	return rec, nil
}

// evaluateAggregate computes a single aggregate over rows
func evaluateAggregate(agg *AggregateCall, rows []Row) (interface{}, error) {
	switch agg.Func {
	case "count":
		return evaluateCount(agg, rows)
	case "sum":
		return evaluateSum(agg, rows)
	case "avg":
		return evaluateAvg(agg, rows)
	case "max":
		return evaluateExtreme(agg, rows, math.Inf(-1), math.Max)
	case "min":
		return evaluateExtreme(agg, rows, math.Inf(1), math.Min)
	default:
		return nil, ErrInvalidSelectItem.New(agg.String())
	}
}

// argValue reads the aggregate argument from a row; * reads as 1.
func argValue(agg *AggregateCall, row Row) (interface{}, error) {
	if agg.Arg == "*" {
		return int64(1), nil
	}
	return Resolve(row, agg.Arg)
}

// evaluateCount counts rows for count(*), non-null values otherwise
func evaluateCount(agg *AggregateCall, rows []Row) (interface{}, error) {
	if agg.Arg == "*" {
		return int64(len(rows)), nil
	}

	var count int64
	for _, row := range rows {
		v, err := argValue(agg, row)
		if err != nil {
			return nil, err
		}
		if v != nil {
			count++
		}
	}
	return count, nil
}

// summableValue is the numeric value of v with null and non-numeric
// values counting as 0.
func summableValue(v interface{}) float64 {
	n := toNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return n
}

func evaluateSum(agg *AggregateCall, rows []Row) (interface{}, error) {
	var sum float64
	for _, row := range rows {
		v, err := argValue(agg, row)
		if err != nil {
			return nil, err
		}
		sum += summableValue(v)
	}
	return sum, nil
}

// evaluateAvg rounds the mean to two decimal places for output.
func evaluateAvg(agg *AggregateCall, rows []Row) (interface{}, error) {
	mean, err := rawMean(agg, rows)
	if err != nil {
		return nil, err
	}
	return math.Round(mean*100) / 100, nil
}

// rawMean divides the sum by the row count. An empty input averages to 0.
func rawMean(agg *AggregateCall, rows []Row) (float64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sum float64
	for _, row := range rows {
		v, err := argValue(agg, row)
		if err != nil {
			return 0, err
		}
		sum += summableValue(v)
	}
	return sum / float64(len(rows)), nil
}

// havingValue computes an aggregate for a HAVING comparison. avg is
// compared unrounded.
func havingValue(agg *AggregateCall, rows []Row) (float64, error) {
	if agg.Func == "avg" {
		return rawMean(agg, rows)
	}
	value, err := evaluateAggregate(agg, rows)
	if err != nil {
		return 0, err
	}
	return toNumber(value), nil
}

// evaluateExtreme folds max or min over the coerced values, starting from
// the saturating sentinel. Null reads as 0 and a non-numeric value makes
// the result NaN.
func evaluateExtreme(agg *AggregateCall, rows []Row, start float64, pick func(a, b float64) float64) (interface{}, error) {
	result := start
	for _, row := range rows {
		v, err := argValue(agg, row)
		if err != nil {
			return nil, err
		}
		result = pick(result, toNumber(v))
	}
	return result, nil
}

// hasAggregate reports whether any select item is an aggregate call
func hasAggregate(items []SelectItem) bool {
	for _, item := range items {
		if item.Aggregate != nil {
			return true
		}
	}
	return false
}

// validateSelectListWithGroupBy checks that every non-aggregate item is a
// grouping column.
func validateSelectListWithGroupBy(q *Query) error {
	if q.Star {
		return ErrNonAggregated.New("*")
	}

	grouped := make(map[string]bool, len(q.GroupBy))
	for _, col := range q.GroupBy {
		grouped[col] = true
	}

	for _, item := range q.Select {
		if item.Aggregate == nil && !grouped[item.Column] {
			return ErrNonAggregated.New(item.Column)
		}
	}
	return nil
}
