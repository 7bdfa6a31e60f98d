// Package query evaluates a small dialect of SQL SELECT against the users
// and orders relations.
//
// A query is normalized (trimmed, lowercased, whitespace collapsed), split
// into its clauses, and each clause is tokenized and parsed on its own:
//
//	select [distinct] <list> from <table> [<alias> [inner|left|right|full] join orders [<alias>] on <key> = <key>]
//	  [where <cond>] [group by <cols>] [having <cond>] [order by <col> [asc|desc]] [limit <n>]
//
// Conditions are AND-terms joined by OR with no parentheses. A predicate is
// one of =, !=, <>, <, >, <=, >=, [NOT] LIKE, [NOT] IN, [NOT] BETWEEN or
// IS [NOT] NULL. HAVING may also compare an aggregate to a number.
//
// # Basic Usage
//
//	records, err := query.Evaluate("select name from users where age > 25 order by name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Engine.Run never fails: errors and empty results come back as a single
// diagnostic record, which is what interactive front ends display.
//
//	engine := query.NewEngine(query.DefaultOptions(), nil)
//	for _, rec := range engine.Run("select * from users u left join orders o on u.id = o.user_id") {
//	    fmt.Println(rec)
//	}
//
// # Column Resolution
//
// On a joined row a qualified reference (u.name) reads that side; a bare
// reference reads the first side that has the column. The unmatched side of
// an outer join reads as null. A reference to a column no side has fails
// the whole query.
package query
