package query

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegasq/sqlplay/relation"
)

func TestEvaluate_SelectStar(t *testing.T) {
	got, err := Evaluate("SELECT * FROM users")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, relation.Users().Schema.Names(), rec.Names())
		assert.Equal(t, relation.Users().Records[i], rec)
	}
}

func TestEvaluate_Where(t *testing.T) {
	got, err := Evaluate("SELECT * FROM users WHERE country = 'USA'")
	require.NoError(t, err)
	assert.Equal(t, []relation.Record{relation.Users().Records[0], relation.Users().Records[1]}, got)
}

func TestEvaluate_InnerAndLeftJoin(t *testing.T) {
	inner, err := Evaluate("SELECT u.name, o.amount FROM users u INNER JOIN orders o ON u.id = o.user_id")
	require.NoError(t, err)
	assert.Equal(t, []relation.Record{
		relation.NewRecord("name", "Alice", "amount", float64(120)),
		relation.NewRecord("name", "Alice", "amount", float64(80)),
		relation.NewRecord("name", "Bob", "amount", float64(200)),
	}, inner)

	left, err := Evaluate("SELECT u.name, o.amount FROM users u LEFT JOIN orders o ON u.id = o.user_id")
	require.NoError(t, err)
	require.Len(t, left, 4)
	assert.Equal(t, relation.NewRecord("name", "Charlie", "amount", nil), left[3])
}

func TestEvaluate_Distinct(t *testing.T) {
	got, err := Evaluate("SELECT DISTINCT country FROM users")
	require.NoError(t, err)
	assert.Equal(t, []relation.Record{
		relation.NewRecord("country", "USA"),
		relation.NewRecord("country", "India"),
	}, got)
}

func TestEvaluate_Idempotent(t *testing.T) {
	queries := []string{
		"select * from users u full join orders o on u.id = o.user_id order by u_name",
		"select country, count(*), avg(salary) from users group by country",
		"select distinct country from users order by country desc",
		"select max(amount) from orders where amount > 1000",
	}

	engine := NewEngine(DefaultOptions(), nil)
	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			first, err := json.Marshal(engine.Run(query))
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				again, err := json.Marshal(engine.Run(query))
				require.NoError(t, err)
				assert.Equal(t, string(first), string(again))
			}
		})
	}
}

func TestRun_Diagnostics(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)

	tests := []struct {
		name  string
		query string
		key   string
		msg   string
	}{
		{"empty", "  \n ", relation.DiagnosticError, "Please enter an SQL query."},
		{"not select", "update users set age = 1", relation.DiagnosticError, "Only SELECT queries are executable here."},
		{"no rows", "select * from users where age > 100", relation.DiagnosticMessage, relation.NoRowsMessage},
		{"unknown select column", "select nickname from users", relation.DiagnosticError, "Unknown column 'nickname'"},
		{"unknown where column", "select * from users where nickname = 'x'", relation.DiagnosticError, "Unknown column 'nickname'"},
		{"non-ascii column", "select NAMÉ from users", relation.DiagnosticError, "Unknown column 'namé'"},
		{"unknown group column", "select count(*) from users group by nickname", relation.DiagnosticError, "Unknown column 'nickname'"},
		{"unknown order column", "select * from users order by nickname", relation.DiagnosticError, "Unknown column 'nickname' in ORDER BY"},
		{"unknown column behind or", "select * from users where id > 0 or nickname = 'x'", relation.DiagnosticError, "Unknown column 'nickname'"},
		{"unsupported table", "select * from products", relation.DiagnosticError, "unsupported table 'products': only 'users' and 'orders' are available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Run(tt.query)
			require.Len(t, got, 1)
			assert.True(t, relation.IsDiagnostic(got))
			assert.Equal(t, relation.NewRecord(tt.key, tt.msg), got[0])
		})
	}
}

func TestRun_Results(t *testing.T) {
	got := NewEngine(DefaultOptions(), nil).Run("select name from users where id = 1")
	assert.Equal(t, []relation.Record{relation.NewRecord("name", "Alice")}, got)
	assert.False(t, relation.IsDiagnostic(got))
}

func TestEngine_QuoteAwareClauses(t *testing.T) {
	query := "select name from users where name like '%order by%'"

	// keywords inside the literal split the query
	got := NewEngine(DefaultOptions(), nil).Run(query)
	require.Len(t, got, 1)
	_, isErr := got[0].Get(relation.DiagnosticError)
	assert.True(t, isErr)

	opts := DefaultOptions()
	opts.QuoteAwareClauses = true
	got = NewEngine(opts, nil).Run(query)
	assert.Equal(t, []relation.Record{relation.MessageRecord(relation.NoRowsMessage)}, got)
}

func TestEngine_MaxQueryLength(t *testing.T) {
	engine := NewEngine(Options{MaxQueryLength: 20}, nil)

	_, err := engine.Evaluate("select * from users where id = 1")
	require.Error(t, err)
	assert.True(t, ErrQueryTooLong.Is(err))

	_, err = engine.Evaluate("select * from users")
	require.NoError(t, err)
}

func TestEngine_Logging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	engine := NewEngine(DefaultOptions(), logrus.NewEntry(logger))

	_, err := engine.Evaluate("select * from users u join orders o on u.id = o.user_id")
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "query evaluated", entry.Message)
	assert.Equal(t, "users", entry.Data["table"])
	assert.Equal(t, "inner", entry.Data["join"])
	assert.Equal(t, ModeProjection, entry.Data["mode"])
	assert.Equal(t, 3, entry.Data["rows"])
	assert.NotEmpty(t, entry.Data["query_id"])

	hook.Reset()
	_, err = engine.Evaluate("select nope from users")
	require.Error(t, err)
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "query failed", entry.Message)
	assert.Equal(t, err, entry.Data[logrus.ErrorKey])
}

func TestEngine_ConcurrentUse(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	want := engine.Run("select country, count(*) from users group by country order by country")

	var wg sync.WaitGroup
	results := make([][]relation.Record, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Run("select country, count(*) from users group by country order by country")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
