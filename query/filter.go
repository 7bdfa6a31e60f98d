package query

// Evaluate is true when any AND-term holds. Evaluation stops at the first
// term that does. A nil condition holds for every row.
func (o *OrExpr) Evaluate(row Row) (bool, error) {
	if o == nil {
		return true, nil
	}
	for _, term := range o.Terms {
		ok, err := term.Evaluate(row)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Evaluate is true when every predicate holds.
func (a *AndExpr) Evaluate(row Row) (bool, error) {
	for _, pred := range a.Predicates {
		ok, err := pred.Evaluate(row)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ApplyFilter keeps the rows for which the condition holds. A nil
// condition keeps every row.
func ApplyFilter(rows []Row, filter Expression) ([]Row, error) {
	if filter == nil {
		return rows, nil
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		match, err := filter.Evaluate(row)
		if err != nil {
			return nil, err
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// checkColumns resolves every column reference the condition makes against
// a probe row, so an unknown column fails even when evaluation would never
// reach it.
func checkColumns(probe Row, cond *OrExpr) error {
	if cond == nil {
		return nil
	}
	for _, term := range cond.Terms {
		for _, pred := range term.Predicates {
			if ref := predicateColumn(pred); ref != "" {
				if _, err := Resolve(probe, ref); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func predicateColumn(pred Expression) string {
	switch p := pred.(type) {
	case *ComparisonExpr:
		return p.Column
	case *LikeExpr:
		return p.Column
	case *InExpr:
		return p.Column
	case *BetweenExpr:
		return p.Column
	case *IsNullExpr:
		return p.Column
	case *AggregateComparison:
		if p.Aggregate.Arg != "*" {
			return p.Aggregate.Arg
		}
	}
	return ""
}
