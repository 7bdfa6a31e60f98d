package query

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vegasq/sqlplay/relation"
)

// Options tune how queries are parsed.
type Options struct {
	// QuoteAwareClauses stops clause keywords inside string literals from
	// splitting the query.
	QuoteAwareClauses bool
	// MaxQueryLength caps the raw query size in bytes.
	MaxQueryLength int
}

// DefaultOptions returns the options used by Parse and Evaluate.
func DefaultOptions() Options {
	return Options{MaxQueryLength: MaxQueryLength}
}

// Mode is the output strategy a query runs under.
type Mode string

const (
	ModeProjection Mode = "projection"
	ModeAggregate  Mode = "aggregate"
	ModeGrouped    Mode = "grouped"
)

// Mode picks how the select list is turned into output records.
func (q *Query) Mode() Mode {
	switch {
	case len(q.GroupBy) > 0:
		return ModeGrouped
	case hasAggregate(q.Select):
		return ModeAggregate
	default:
		return ModeProjection
	}
}

// Engine evaluates queries against the built-in relations. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	opts Options
	log  *logrus.Entry
}

// NewEngine creates an engine. A nil logger discards all log output.
func NewEngine(opts Options, log *logrus.Entry) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = MaxQueryLength
	}
	return &Engine{opts: opts, log: log}
}

var defaultEngine = NewEngine(DefaultOptions(), nil)

// Evaluate runs a query on a default engine.
func Evaluate(sql string) ([]relation.Record, error) {
	return defaultEngine.Evaluate(sql)
}

// Evaluate parses and executes sql. The records are the query result, which
// may be empty; any failure aborts the whole query.
func (e *Engine) Evaluate(sql string) ([]relation.Record, error) {
	entry := e.log.WithField("query_id", uuid.NewString())

	q, err := ParseWithOptions(sql, e.opts)
	if err != nil {
		entry.WithError(err).Debug("query rejected")
		return nil, err
	}

	fields := logrus.Fields{
		"table": q.Table,
		"mode":  q.Mode(),
	}
	if q.Join != nil {
		fields["join"] = q.Join.Type.String()
	}
	entry = entry.WithFields(fields)

	records, err := Execute(q)
	if err != nil {
		entry.WithError(err).Debug("query failed")
		return nil, err
	}

	entry.WithField("rows", len(records)).Debug("query evaluated")
	return records, nil
}

// Run evaluates sql and always returns something to show: the result
// records, an {error} record on failure, or a {message} record when the
// result is empty.
func (e *Engine) Run(sql string) []relation.Record {
	records, err := e.Evaluate(sql)
	if err != nil {
		return []relation.Record{relation.ErrorRecord(err.Error())}
	}
	if len(records) == 0 {
		return []relation.Record{relation.MessageRecord(relation.NoRowsMessage)}
	}
	return records
}

// Execute runs a parsed query: build rows, filter, project or aggregate,
// then DISTINCT, ORDER BY and LIMIT.
func Execute(q *Query) ([]relation.Record, error) {
	if err := checkQueryColumns(q); err != nil {
		return nil, err
	}

	rows, err := BuildRows(q)
	if err != nil {
		return nil, err
	}

	rows, err = ApplyFilter(rows, q.Where)
	if err != nil {
		return nil, err
	}

	var records []relation.Record
	switch q.Mode() {
	case ModeGrouped:
		records, err = ApplyGroupByAndAggregate(rows, q)
	case ModeAggregate:
		records, err = aggregateWithoutGroupBy(rows, q)
	default:
		records, err = ApplySelectList(rows, q)
	}
	if err != nil {
		return nil, err
	}

	if q.Distinct {
		if records, err = ApplyDistinct(records); err != nil {
			return nil, err
		}
	}

	if records, err = ApplyOrderBy(records, q.OrderBy); err != nil {
		return nil, err
	}

	return ApplyLimit(records, q.Limit), nil
}

// checkQueryColumns rejects references to columns that do not exist and
// clause combinations that cannot run, before any row is read.
func checkQueryColumns(q *Query) error {
	probe, err := probeRow(q)
	if err != nil {
		return err
	}

	for _, item := range q.Select {
		ref := item.Column
		if item.Aggregate != nil {
			ref = item.Aggregate.Arg
		}
		if ref == "*" {
			continue
		}
		if _, err := Resolve(probe, ref); err != nil {
			return err
		}
	}

	for _, col := range q.GroupBy {
		if _, err := Resolve(probe, col); err != nil {
			return err
		}
	}

	if q.Where != nil {
		for _, term := range q.Where.Terms {
			for _, pred := range term.Predicates {
				if agg, ok := pred.(*AggregateComparison); ok {
					return ErrAggregateInWhere.New(agg.Aggregate.String())
				}
			}
		}
	}
	if err := checkColumns(probe, q.Where); err != nil {
		return err
	}

	switch q.Mode() {
	case ModeAggregate:
		for _, item := range q.Select {
			if item.Aggregate == nil {
				return ErrNonAggregated.New(item.Column)
			}
		}
	case ModeProjection:
		if q.Having != nil {
			return ErrInvalidCondition.New("HAVING requires GROUP BY or an aggregate")
		}
	}

	if q.Having != nil {
		for _, term := range q.Having.Terms {
			for _, pred := range term.Predicates {
				if agg, ok := pred.(*AggregateComparison); ok && agg.Aggregate.Arg != "*" {
					if _, err := Resolve(probe, agg.Aggregate.Arg); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}
