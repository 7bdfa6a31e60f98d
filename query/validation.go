package query

// Validation limits applied before a query is parsed
const (
	// MaxQueryLength is the default maximum query string length (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxTokens is the maximum number of tokens in a query
	MaxTokens = 1000
)

// ValidateQuery checks the raw query length. A non-positive limit falls
// back to MaxQueryLength.
func ValidateQuery(query string, limit int) error {
	if limit <= 0 {
		limit = MaxQueryLength
	}
	if len(query) > limit {
		return ErrQueryTooLong.New(len(query), limit)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return ErrTooManyTokens.New(len(tokens), MaxTokens)
	}
	return nil
}
