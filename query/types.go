package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vegasq/sqlplay/relation"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenDistinct
	TokenFrom
	TokenAs
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenLike
	TokenBetween
	TokenIs
	TokenNull
	TokenAsc
	TokenDesc
	TokenJoin
	TokenInner
	TokenLeft
	TokenRight
	TokenFull
	TokenOuter
	TokenOn

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent

	// Delimiters
	TokenComma
	TokenLeftParen
	TokenRightParen
	TokenStar

	TokenEOF
	TokenError
)

func (t TokenType) isComparison() bool {
	return t >= TokenEqual && t <= TokenGreaterEqual
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Value)
}

// Query is the parsed form of one SELECT statement.
type Query struct {
	Distinct bool
	Star     bool
	Select   []SelectItem
	Table    string
	Join     *JoinSpec
	Where    *OrExpr
	GroupBy  []string
	Having   *OrExpr
	OrderBy  *OrderByItem
	Limit    *int
}

// JoinType represents the type of JOIN
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
)

func (j JoinType) String() string {
	switch j {
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case FullJoin:
		return "full"
	default:
		return "inner"
	}
}

// JoinSpec describes the single equality join against orders.
type JoinSpec struct {
	Type       JoinType
	Table      string
	LeftAlias  string
	RightAlias string
	LeftKey    string
	RightKey   string
}

// OrderByItem represents an ORDER BY item
type OrderByItem struct {
	Column string
	Desc   bool
}

// AggregateCall is one of count, sum, avg, max or min over * or a column.
type AggregateCall struct {
	Func string
	Arg  string
}

// FieldName is the output key of an unaliased aggregate inside a group:
// "count" for count(*), "sum_salary" for sum(salary).
func (a *AggregateCall) FieldName() string {
	if a.Arg == "*" {
		return a.Func
	}
	return a.Func + "_" + bareName(a.Arg)
}

func (a *AggregateCall) String() string {
	return a.Func + "(" + a.Arg + ")"
}

var aggregateFuncs = map[string]bool{
	"count": true,
	"sum":   true,
	"avg":   true,
	"max":   true,
	"min":   true,
}

// SelectItem is either a column reference or an aggregate call, with an
// optional alias.
type SelectItem struct {
	Column    string
	Aggregate *AggregateCall
	Alias     string
}

// OutputName returns the key the item produces in a projected record.
func (s SelectItem) OutputName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return bareName(s.Column)
}

// Literal is a value written in a condition. Text keeps the literal as
// written (lowercased, unquoted).
type Literal struct {
	Text   string
	Quoted bool
}

// IsNull reports whether the literal is a bare NULL. A quoted 'null' is
// an ordinary string.
func (l Literal) IsNull() bool {
	return !l.Quoted && l.Text == "null"
}

// Number parses the literal as a number. Text without a digit, such as
// infinity or nan, is never numeric.
func (l Literal) Number() (float64, bool) {
	text := strings.TrimSpace(l.Text)
	if !hasDigit(text) {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, err == nil
}

// Expression represents a boolean condition evaluated against a row.
type Expression interface {
	Evaluate(row Row) (bool, error)
}

// OrExpr is a disjunction of AND-terms; the only boolean shape conditions
// may take.
type OrExpr struct {
	Terms []*AndExpr
}

// AndExpr is a conjunction of primitive predicates.
type AndExpr struct {
	Predicates []Expression
}

// ComparisonExpr represents column op literal
type ComparisonExpr struct {
	Column   string
	Operator TokenType
	Value    Literal
}

// LikeExpr represents column [NOT] LIKE pattern
type LikeExpr struct {
	Column  string
	Pattern string
	Not     bool
	matcher *regexp.Regexp
}

// InExpr represents column [NOT] IN (values...)
type InExpr struct {
	Column string
	Values []Literal
	Not    bool
}

// BetweenExpr represents column [NOT] BETWEEN lower AND upper
type BetweenExpr struct {
	Column string
	Lower  Literal
	Upper  Literal
	Not    bool
}

// IsNullExpr represents column IS [NOT] NULL
type IsNullExpr struct {
	Column string
	Not    bool
}

// AggregateComparison represents fn(arg) op number inside HAVING. It is
// recomputed from the member rows of the group being tested.
type AggregateComparison struct {
	Aggregate *AggregateCall
	Operator  TokenType
	Value     float64
}

// Row is the input to column resolution: a PlainRow, a JoinedRow, or a
// GroupRow while HAVING runs.
type Row interface {
	row()
}

// PlainRow is a record of the queried relation.
type PlainRow struct {
	Relation *relation.Relation
	Record   relation.Record
}

// JoinedRow pairs a left record with an orders record. A nil side is the
// unmatched side of an outer join.
type JoinedRow struct {
	LeftAlias     string
	LeftRelation  *relation.Relation
	Left          relation.Record
	RightAlias    string
	RightRelation *relation.Relation
	Right         relation.Record
}

// GroupRow is one group during HAVING: its output record plus the rows it
// was built from.
type GroupRow struct {
	Output  relation.Record
	Members []Row
}

func (PlainRow) row()  {}
func (JoinedRow) row() {}
func (GroupRow) row()  {}

// bareName strips an alias qualifier: "u.name" becomes "name".
func bareName(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
