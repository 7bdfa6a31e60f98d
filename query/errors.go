package query

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// Input errors. These are reported before any parsing happens.
var (
	// ErrEmptyQuery is returned for an empty or whitespace-only query.
	ErrEmptyQuery = errors.NewKind("Please enter an SQL query.")

	// ErrNotSelect is returned for any statement that does not start with SELECT.
	ErrNotSelect = errors.NewKind("Only SELECT queries are executable here.")

	// ErrQueryTooLong is returned when the query exceeds the configured length.
	ErrQueryTooLong = errors.NewKind("query too long: %d bytes (max %d)")

	// ErrTooManyTokens is returned when the query has more than MaxTokens tokens.
	ErrTooManyTokens = errors.NewKind("too many tokens in query: %d (max %d)")
)

// Syntax errors.
var (
	ErrInvalidSelect     = errors.NewKind("Invalid SELECT syntax: %s")
	ErrInvalidSelectItem = errors.NewKind("Invalid column expression in SELECT: %s")
	ErrInvalidJoin       = errors.NewKind("Invalid JOIN syntax: %s")
	ErrInvalidCondition  = errors.NewKind("Invalid condition: %s")
	ErrEmptyGroupBy      = errors.NewKind("GROUP BY requires at least one column")
	ErrInvalidGroupBy    = errors.NewKind("Invalid GROUP BY clause: %s")
	ErrInvalidOrderBy    = errors.NewKind("Invalid ORDER BY clause: %s")
	ErrInvalidLimit      = errors.NewKind("Invalid LIMIT clause: %s")
)

// Semantic errors.
var (
	ErrUnsupportedTable  = errors.NewKind("unsupported table '%s': only 'users' and 'orders' are available")
	ErrUnsupportedJoin   = errors.NewKind("only JOIN with 'orders' is supported, got '%s'")
	ErrJoinAliasMismatch = errors.NewKind("ON clause must reference the provided table aliases (%s, %s)")
	ErrUnknownColumn     = errors.NewKind("Unknown column '%s'")
	ErrUnknownSortColumn = errors.NewKind("Unknown column '%s' in ORDER BY")
	ErrNonAggregated     = errors.NewKind("Non-aggregated column '%s' must appear in GROUP BY")
	ErrAggregateInWhere  = errors.NewKind("aggregate %s is not allowed outside HAVING")
)
