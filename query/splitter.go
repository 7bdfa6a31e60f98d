package query

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	trailingSemi   = regexp.MustCompile(`;\s*$`)
	clauseKeywords = regexp.MustCompile(`\b(where|group by|having|order by|limit)\b`)
)

// Clauses holds the raw text of each top-level clause of a normalized query.
// An empty string means the clause is absent.
type Clauses struct {
	Base    string
	Where   string
	GroupBy string
	Having  string
	OrderBy string
	Limit   string
}

// Normalize trims the query, drops one trailing semicolon, lowercases it and
// collapses whitespace runs to a single space.
func Normalize(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = trailingSemi.ReplaceAllString(sql, "")
	sql = strings.ToLower(sql)
	sql = whitespaceRun.ReplaceAllString(sql, " ")
	return strings.TrimSpace(sql)
}

// SplitClauses partitions a normalized query on the word-bounded clause
// keywords. When quoteAware is false keywords inside string literals are
// delimiters too; with quoteAware set they are left alone. When a keyword
// repeats, the last occurrence wins.
func SplitClauses(sql string, quoteAware bool) Clauses {
	matches := clauseKeywords.FindAllStringSubmatchIndex(sql, -1)
	if quoteAware {
		matches = outsideQuotes(sql, matches)
	}

	var c Clauses
	if len(matches) == 0 {
		c.Base = strings.TrimSpace(sql)
		return c
	}

	c.Base = strings.TrimSpace(sql[:matches[0][0]])
	for i, m := range matches {
		end := len(sql)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		keyword := sql[m[2]:m[3]]
		text := strings.TrimSpace(sql[m[1]:end])

		switch keyword {
		case "where":
			c.Where = text
		case "group by":
			c.GroupBy = text
		case "having":
			c.Having = text
		case "order by":
			c.OrderBy = text
		case "limit":
			c.Limit = text
		}
	}
	return c
}

// outsideQuotes drops the matches that start inside a quoted literal.
func outsideQuotes(sql string, matches [][]int) [][]int {
	inside := make([]bool, len(sql))
	var quote byte
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			inside[i] = true
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inside[i] = true
		}
	}

	kept := matches[:0:0]
	for _, m := range matches {
		if !inside[m[0]] {
			kept = append(kept, m)
		}
	}
	return kept
}
