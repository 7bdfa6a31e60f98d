package query

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/vegasq/sqlplay/relation"
)

// Parser parses one clause of a normalized query
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// accept advances past the current token if it has the given type
func (p *Parser) accept(tokType TokenType) bool {
	if p.current().Type != tokType {
		return false
	}
	p.advance()
	return true
}

// Parse parses a query using DefaultOptions.
func Parse(sql string) (*Query, error) {
	return ParseWithOptions(sql, DefaultOptions())
}

// ParseWithOptions validates, normalizes and splits the query, then parses
// every clause that is present.
func ParseWithOptions(sql string, opts Options) (*Query, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptyQuery.New()
	}
	if err := ValidateQuery(sql, opts.MaxQueryLength); err != nil {
		return nil, err
	}

	normalized := Normalize(sql)
	if !strings.HasPrefix(normalized, "select") {
		return nil, ErrNotSelect.New()
	}
	if err := ValidateTokens(Tokenize(normalized)); err != nil {
		return nil, err
	}

	clauses := SplitClauses(normalized, opts.QuoteAwareClauses)

	q, err := parseBase(clauses.Base)
	if err != nil {
		return nil, err
	}

	if clauses.Where != "" {
		if q.Where, err = ParseCondition(clauses.Where); err != nil {
			return nil, err
		}
	}
	if clauses.GroupBy != "" {
		if q.GroupBy, err = parseGroupBy(clauses.GroupBy); err != nil {
			return nil, err
		}
	}
	if clauses.Having != "" {
		if q.Having, err = ParseCondition(clauses.Having); err != nil {
			return nil, err
		}
	}
	if clauses.OrderBy != "" {
		if q.OrderBy, err = parseOrderBy(clauses.OrderBy); err != nil {
			return nil, err
		}
	}
	if clauses.Limit != "" {
		if q.Limit, err = parseLimit(clauses.Limit); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// parseBase parses: select [distinct] list from table [[as] alias] [join ...]
func parseBase(base string) (*Query, error) {
	p := NewParser(Tokenize(base))

	if !p.accept(TokenSelect) {
		return nil, ErrInvalidSelect.New(base)
	}

	q := &Query{}
	if p.accept(TokenDistinct) {
		q.Distinct = true
	}

	if err := p.parseSelectList(q); err != nil {
		return nil, err
	}

	if !p.accept(TokenFrom) {
		return nil, ErrInvalidSelect.New("expected FROM, got " + p.current().String())
	}

	tableTok := p.current()
	if tableTok.Type != TokenIdent {
		return nil, ErrInvalidSelect.New("expected table name after FROM, got " + tableTok.String())
	}
	rel, ok := relation.Lookup(tableTok.Value)
	if !ok {
		return nil, ErrUnsupportedTable.New(tableTok.Value)
	}
	q.Table = rel.Name
	p.advance()

	leftAlias := rel.Name
	p.accept(TokenAs)
	if tok := p.current(); tok.Type == TokenIdent && !strings.Contains(tok.Value, ".") {
		leftAlias = tok.Value
		p.advance()
	}

	switch tok := p.current(); tok.Type {
	case TokenEOF:
	case TokenJoin, TokenInner, TokenLeft, TokenRight, TokenFull:
		join, err := p.parseJoin(rel, leftAlias)
		if err != nil {
			return nil, err
		}
		q.Join = join
	default:
		return nil, ErrInvalidSelect.New("unexpected " + tok.String() + " after table " + rel.Name)
	}

	return q, nil
}

// parseSelectList parses "*" or a comma separated list of items. A trailing
// comma before FROM is tolerated.
func (p *Parser) parseSelectList(q *Query) error {
	if p.current().Type == TokenStar {
		p.advance()
		if p.current().Type == TokenComma {
			return ErrInvalidSelectItem.New("*")
		}
		q.Star = true
		return nil
	}

	for {
		if p.current().Type == TokenFrom || p.current().Type == TokenEOF {
			break
		}

		item, err := p.parseSelectItem()
		if err != nil {
			return err
		}
		q.Select = append(q.Select, item)

		if !p.accept(TokenComma) {
			break
		}
	}

	if len(q.Select) == 0 {
		return ErrInvalidSelect.New("empty select list")
	}

	switch tok := p.current(); tok.Type {
	case TokenFrom, TokenEOF:
		return nil
	default:
		return ErrInvalidSelectItem.New(tok.Value)
	}
}

// parseSelectItem parses: column [as alias] | fn(*|column) [as alias]
func (p *Parser) parseSelectItem() (SelectItem, error) {
	tok := p.current()
	if tok.Type != TokenIdent {
		return SelectItem{}, ErrInvalidSelectItem.New(tok.Value)
	}
	p.advance()

	var item SelectItem
	if p.current().Type == TokenLeftParen {
		if !aggregateFuncs[tok.Value] {
			return SelectItem{}, ErrInvalidSelectItem.New(tok.Value + "(")
		}
		agg, err := p.parseAggregateArgs(tok.Value)
		if err != nil {
			return SelectItem{}, ErrInvalidSelectItem.New(tok.Value + "(")
		}
		item.Aggregate = agg
	} else {
		item.Column = tok.Value
	}

	if p.accept(TokenAs) {
		alias := p.current()
		if alias.Type != TokenIdent || strings.Contains(alias.Value, ".") {
			return SelectItem{}, ErrInvalidSelectItem.New("as " + alias.Value)
		}
		item.Alias = alias.Value
		p.advance()
	}

	return item, nil
}

// parseAggregateArgs parses "(*)" or "(column)" following an aggregate name
func (p *Parser) parseAggregateArgs(fn string) (*AggregateCall, error) {
	if !p.accept(TokenLeftParen) {
		return nil, ErrInvalidCondition.New(fn)
	}

	arg := p.current()
	if arg.Type != TokenStar && arg.Type != TokenIdent {
		return nil, ErrInvalidCondition.New(fn + "(" + arg.Value)
	}
	p.advance()

	if !p.accept(TokenRightParen) {
		return nil, ErrInvalidCondition.New(fn + "(" + arg.Value)
	}
	return &AggregateCall{Func: fn, Arg: arg.Value}, nil
}

// parseJoin parses: [inner|left|right|full [outer]] join orders [[as] alias] on key = key
func (p *Parser) parseJoin(left *relation.Relation, leftAlias string) (*JoinSpec, error) {
	join := &JoinSpec{Type: InnerJoin, LeftAlias: leftAlias}

	switch p.current().Type {
	case TokenInner:
		p.advance()
	case TokenLeft:
		join.Type = LeftJoin
		p.advance()
		p.accept(TokenOuter)
	case TokenRight:
		join.Type = RightJoin
		p.advance()
		p.accept(TokenOuter)
	case TokenFull:
		join.Type = FullJoin
		p.advance()
		p.accept(TokenOuter)
	}

	if !p.accept(TokenJoin) {
		return nil, ErrInvalidJoin.New("expected JOIN, got " + p.current().String())
	}

	tableTok := p.current()
	if tableTok.Type != TokenIdent {
		return nil, ErrInvalidJoin.New("expected table name after JOIN, got " + tableTok.String())
	}
	right := relation.Orders()
	if tableTok.Value != right.Name {
		return nil, ErrUnsupportedJoin.New(tableTok.Value)
	}
	join.Table = right.Name
	p.advance()

	join.RightAlias = right.Name
	p.accept(TokenAs)
	if tok := p.current(); tok.Type == TokenIdent && !strings.Contains(tok.Value, ".") {
		join.RightAlias = tok.Value
		p.advance()
	}

	if !p.accept(TokenOn) {
		return nil, ErrInvalidJoin.New("expected ON, got " + p.current().String())
	}

	leftKey := p.current()
	if leftKey.Type != TokenIdent || p.peek().Type != TokenEqual {
		return nil, ErrInvalidJoin.New("ON must have the form <key> = <key>")
	}
	p.advance()
	p.advance()
	rightKey := p.current()
	if rightKey.Type != TokenIdent {
		return nil, ErrInvalidJoin.New("ON must have the form <key> = <key>")
	}
	p.advance()

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, ErrInvalidJoin.New("unexpected " + tok.String() + " after ON condition")
	}

	lAlias, lCol := splitQualified(leftKey.Value, join.LeftAlias)
	rAlias, rCol := splitQualified(rightKey.Value, join.RightAlias)
	if lAlias != join.LeftAlias || rAlias != join.RightAlias {
		return nil, ErrJoinAliasMismatch.New(join.LeftAlias, join.RightAlias)
	}
	if !left.Schema.Has(lCol) {
		return nil, ErrUnknownColumn.New(leftKey.Value)
	}
	if !right.Schema.Has(rCol) {
		return nil, ErrUnknownColumn.New(rightKey.Value)
	}
	join.LeftKey = lCol
	join.RightKey = rCol

	return join, nil
}

// splitQualified splits "alias.col"; a bare column takes the default alias
func splitQualified(ref, defaultAlias string) (alias, col string) {
	if alias, col, ok := strings.Cut(ref, "."); ok {
		return alias, col
	}
	return defaultAlias, ref
}

// ParseCondition parses a WHERE or HAVING clause: AND-terms joined by OR.
func ParseCondition(text string) (*OrExpr, error) {
	p := NewParser(Tokenize(text))

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, ErrInvalidCondition.New("unexpected " + tok.String())
	}
	return expr, nil
}

// parseOr parses: and_term (OR and_term)*
func (p *Parser) parseOr() (*OrExpr, error) {
	expr := &OrExpr{}
	for {
		term, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		expr.Terms = append(expr.Terms, term)

		if !p.accept(TokenOr) {
			return expr, nil
		}
	}
}

// parseAnd parses: predicate (AND predicate)*
func (p *Parser) parseAnd() (*AndExpr, error) {
	term := &AndExpr{}
	for {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		term.Predicates = append(term.Predicates, pred)

		if !p.accept(TokenAnd) {
			return term, nil
		}
	}
}

// parsePredicate parses a single primitive condition
func (p *Parser) parsePredicate() (Expression, error) {
	tok := p.current()
	if tok.Type != TokenIdent {
		return nil, ErrInvalidCondition.New("expected column, got " + tok.String())
	}

	if p.peek().Type == TokenLeftParen && aggregateFuncs[tok.Value] {
		return p.parseAggregateComparison()
	}

	column := tok.Value
	p.advance()

	not := p.accept(TokenNot)

	switch op := p.current(); {
	case op.Type == TokenLike:
		p.advance()
		pattern := p.current()
		if pattern.Type != TokenString {
			return nil, ErrInvalidCondition.New("LIKE requires a quoted pattern")
		}
		p.advance()
		return newLikeExpr(column, pattern.Value, not), nil

	case op.Type == TokenIn:
		p.advance()
		values, err := p.parseValueList()
		if err != nil {
			return nil, err
		}
		return &InExpr{Column: column, Values: values, Not: not}, nil

	case op.Type == TokenBetween:
		p.advance()
		lower, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if !p.accept(TokenAnd) {
			return nil, ErrInvalidCondition.New("BETWEEN requires AND")
		}
		upper, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &BetweenExpr{Column: column, Lower: lower, Upper: upper, Not: not}, nil

	case not:
		return nil, ErrInvalidCondition.New("NOT must be followed by LIKE, IN or BETWEEN")

	case op.Type == TokenIs:
		p.advance()
		isNot := p.accept(TokenNot)
		if !p.accept(TokenNull) {
			return nil, ErrInvalidCondition.New("IS requires NULL")
		}
		return &IsNullExpr{Column: column, Not: isNot}, nil

	case op.Type.isComparison():
		p.advance()
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Column: column, Operator: op.Type, Value: value}, nil

	default:
		return nil, ErrInvalidCondition.New("unexpected " + op.String() + " after " + column)
	}
}

// parseAggregateComparison parses: fn(*|column) op number
func (p *Parser) parseAggregateComparison() (Expression, error) {
	fn := p.current().Value
	p.advance()

	agg, err := p.parseAggregateArgs(fn)
	if err != nil {
		return nil, err
	}

	op := p.current()
	if !op.Type.isComparison() {
		return nil, ErrInvalidCondition.New(agg.String() + " must be compared to a number")
	}
	p.advance()

	value := p.current()
	if value.Type != TokenNumber {
		return nil, ErrInvalidCondition.New(agg.String() + " must be compared to a number")
	}
	n, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return nil, ErrInvalidCondition.New(value.Value)
	}
	p.advance()

	return &AggregateComparison{Aggregate: agg, Operator: op.Type, Value: n}, nil
}

// parseValueList parses: ( literal [, literal]* )
func (p *Parser) parseValueList() ([]Literal, error) {
	if !p.accept(TokenLeftParen) {
		return nil, ErrInvalidCondition.New("IN requires a parenthesized list")
	}

	var values []Literal
	for {
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if !p.accept(TokenComma) {
			break
		}
	}

	if !p.accept(TokenRightParen) {
		return nil, ErrInvalidCondition.New("unterminated IN list")
	}
	return values, nil
}

// parseLiteral parses a quoted string, number, bare word or NULL
func (p *Parser) parseLiteral() (Literal, error) {
	tok := p.current()
	switch tok.Type {
	case TokenString:
		p.advance()
		return Literal{Text: tok.Value, Quoted: true}, nil
	case TokenNumber, TokenIdent, TokenNull:
		p.advance()
		return Literal{Text: tok.Value}, nil
	default:
		return Literal{}, ErrInvalidCondition.New("expected value, got " + tok.String())
	}
}

// parseGroupBy parses a comma separated list of column references
func parseGroupBy(text string) ([]string, error) {
	p := NewParser(Tokenize(text))

	var columns []string
	for p.current().Type != TokenEOF {
		tok := p.current()
		if tok.Type != TokenIdent {
			return nil, ErrInvalidGroupBy.New(tok.Value)
		}
		columns = append(columns, tok.Value)
		p.advance()

		if !p.accept(TokenComma) {
			break
		}
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, ErrInvalidGroupBy.New(tok.Value)
	}
	if len(columns) == 0 {
		return nil, ErrEmptyGroupBy.New()
	}
	return columns, nil
}

// parseOrderBy parses: column [asc|desc]. Only the first sort key is used.
func parseOrderBy(text string) (*OrderByItem, error) {
	p := NewParser(Tokenize(text))

	tok := p.current()
	if tok.Type != TokenIdent {
		return nil, ErrInvalidOrderBy.New(text)
	}
	p.advance()

	item := &OrderByItem{Column: tok.Value}
	switch p.current().Type {
	case TokenDesc:
		item.Desc = true
	case TokenAsc:
	}
	return item, nil
}

// parseLimit parses the leading non-negative integer of a LIMIT clause.
// A value too large for an int keeps every row.
func parseLimit(text string) (*int, error) {
	tok := NewParser(Tokenize(text)).current()
	if tok.Type != TokenNumber || strings.HasPrefix(tok.Value, "-") {
		return nil, ErrInvalidLimit.New(text)
	}

	digits, _, _ := strings.Cut(tok.Value, ".")
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		n = math.MaxInt
	} else if err != nil {
		return nil, ErrInvalidLimit.New(text)
	}
	return &n, nil
}
