package query

import (
	"math"
	"regexp"
	"strings"
)

// newLikeExpr compiles a LIKE pattern: % matches any run of characters,
// _ matches exactly one, and the whole value must match.
func newLikeExpr(column, pattern string, not bool) *LikeExpr {
	var expr strings.Builder
	expr.WriteString("(?is)^")
	for _, ch := range pattern {
		switch ch {
		case '%':
			expr.WriteString(".*")
		case '_':
			expr.WriteString(".")
		default:
			expr.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	expr.WriteString("$")

	return &LikeExpr{
		Column:  column,
		Pattern: pattern,
		Not:     not,
		matcher: regexp.MustCompile(expr.String()),
	}
}

// Evaluate evaluates a comparison expression
func (c *ComparisonExpr) Evaluate(row Row) (bool, error) {
	field, err := Resolve(row, c.Column)
	if err != nil {
		return false, err
	}

	if field == nil || c.Value.IsNull() {
		bothNull := field == nil && c.Value.IsNull()
		switch c.Operator {
		case TokenEqual:
			return bothNull, nil
		case TokenNotEqual:
			return !bothNull, nil
		default:
			return false, nil
		}
	}

	if n, ok := c.Value.Number(); ok && isNumeric(field) {
		return compareNumbers(toNumber(field), c.Operator, n), nil
	}

	left := strings.ToLower(stringify(field))
	right := strings.ToLower(c.Value.Text)
	switch c.Operator {
	case TokenEqual:
		return left == right, nil
	case TokenNotEqual:
		return left != right, nil
	default:
		// strings only support equality
		return false, nil
	}
}

// Evaluate evaluates a LIKE expression
func (l *LikeExpr) Evaluate(row Row) (bool, error) {
	field, err := Resolve(row, l.Column)
	if err != nil {
		return false, err
	}
	if field == nil {
		return false, nil
	}

	matched := l.matcher.MatchString(stringify(field))
	if l.Not {
		return !matched, nil
	}
	return matched, nil
}

// Evaluate evaluates an IN expression
func (i *InExpr) Evaluate(row Row) (bool, error) {
	field, err := Resolve(row, i.Column)
	if err != nil {
		return false, err
	}
	if field == nil {
		return false, nil
	}

	value := strings.ToLower(stringify(field))
	found := false
	for _, lit := range i.Values {
		if strings.ToLower(lit.Text) == value {
			found = true
			break
		}
	}

	if i.Not {
		return !found, nil
	}
	return found, nil
}

// Evaluate evaluates a BETWEEN expression. Bounds are inclusive.
func (b *BetweenExpr) Evaluate(row Row) (bool, error) {
	field, err := Resolve(row, b.Column)
	if err != nil {
		return false, err
	}
	if field == nil {
		return false, nil
	}

	v := toNumber(field)
	in := v >= toNumber(b.Lower.Text) && v <= toNumber(b.Upper.Text)
	if b.Not {
		return !in, nil
	}
	return in, nil
}

// Evaluate evaluates an IS NULL expression
func (i *IsNullExpr) Evaluate(row Row) (bool, error) {
	field, err := Resolve(row, i.Column)
	if err != nil {
		return false, err
	}
	if i.Not {
		return field != nil, nil
	}
	return field == nil, nil
}

// Evaluate recomputes the aggregate over the group's member rows. It is
// only meaningful inside HAVING.
func (a *AggregateComparison) Evaluate(row Row) (bool, error) {
	group, ok := row.(GroupRow)
	if !ok {
		return false, ErrAggregateInWhere.New(a.Aggregate.String())
	}

	value, err := havingValue(a.Aggregate, group.Members)
	if err != nil {
		return false, err
	}
	return compareNumbers(value, a.Operator, a.Value), nil
}

// compareNumbers applies a comparison operator. Any comparison involving
// NaN is false except !=.
func compareNumbers(left float64, operator TokenType, right float64) bool {
	if math.IsNaN(left) || math.IsNaN(right) {
		return operator == TokenNotEqual
	}
	switch operator {
	case TokenEqual:
		return left == right
	case TokenNotEqual:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}
