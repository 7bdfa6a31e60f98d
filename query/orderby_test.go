package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegasq/sqlplay/relation"
)

func column(t *testing.T, records []relation.Record, name string) []interface{} {
	t.Helper()
	out := make([]interface{}, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get(name)
		require.True(t, ok, "record has no field %q", name)
		out = append(out, v)
	}
	return out
}

func TestApplyOrderBy(t *testing.T) {
	records := []relation.Record{
		relation.NewRecord("name", "charlie", "age", int64(25)),
		relation.NewRecord("name", "Alice", "age", int64(30)),
		relation.NewRecord("name", "bob", "age", int64(20)),
		relation.NewRecord("name", "dave", "age", int64(25)),
	}

	tests := []struct {
		name    string
		orderBy *OrderByItem
		want    []interface{}
	}{
		{"age ascending keeps ties stable", &OrderByItem{Column: "age"}, []interface{}{"bob", "charlie", "dave", "Alice"}},
		{"age descending keeps ties stable", &OrderByItem{Column: "age", Desc: true}, []interface{}{"Alice", "charlie", "dave", "bob"}},
		{"name collates case-insensitively", &OrderByItem{Column: "name"}, []interface{}{"Alice", "bob", "charlie", "dave"}},
		{"name descending", &OrderByItem{Column: "name", Desc: true}, []interface{}{"dave", "charlie", "bob", "Alice"}},
		{"no order", nil, []interface{}{"charlie", "Alice", "bob", "dave"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyOrderBy(records, tt.orderBy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(t, got, "name"))
		})
	}
}

func TestApplyOrderBy_DoesNotModifyInput(t *testing.T) {
	records := []relation.Record{
		relation.NewRecord("n", int64(2)),
		relation.NewRecord("n", int64(1)),
	}
	_, err := ApplyOrderBy(records, &OrderByItem{Column: "n"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), int64(1)}, column(t, records, "n"))
}

func TestApplyOrderBy_UnknownColumn(t *testing.T) {
	records := []relation.Record{relation.NewRecord("name", "a")}
	_, err := ApplyOrderBy(records, &OrderByItem{Column: "age"})
	require.Error(t, err)
	assert.True(t, ErrUnknownSortColumn.Is(err))

	// nothing to sort, nothing to check
	got, err := ApplyOrderBy(nil, &OrderByItem{Column: "age"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyDistinct(t *testing.T) {
	records := []relation.Record{
		relation.NewRecord("country", "USA"),
		relation.NewRecord("country", "USA"),
		relation.NewRecord("country", "India"),
		relation.NewRecord("country", nil),
		relation.NewRecord("country", nil),
	}

	got, err := ApplyDistinct(records)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"USA", "India", nil}, column(t, got, "country"))
}

func TestApplyDistinct_HashCollision(t *testing.T) {
	collideHashes(t)

	records := []relation.Record{
		relation.NewRecord("country", "USA"),
		relation.NewRecord("country", "India"),
		relation.NewRecord("country", "USA"),
		relation.NewRecord("nation", "USA"),
	}

	got, err := ApplyDistinct(records)
	require.NoError(t, err)
	assert.Equal(t, []relation.Record{records[0], records[1], records[3]}, got)
}

func TestApplyLimit(t *testing.T) {
	records := []relation.Record{
		relation.NewRecord("n", int64(1)),
		relation.NewRecord("n", int64(2)),
		relation.NewRecord("n", int64(3)),
	}
	limit := func(n int) *int { return &n }

	assert.Len(t, ApplyLimit(records, nil), 3)
	assert.Len(t, ApplyLimit(records, limit(0)), 0)
	assert.Len(t, ApplyLimit(records, limit(2)), 2)
	assert.Len(t, ApplyLimit(records, limit(10)), 3)
}

func TestOrderAndLimitQueries(t *testing.T) {
	tests := []struct {
		query string
		want  []interface{}
	}{
		{"SELECT * FROM users ORDER BY salary DESC LIMIT 1", []interface{}{"Bob"}},
		{"select name, age from users order by age", []interface{}{"Alice", "Charlie", "Bob"}},
		{"select name from users order by name desc limit 2", []interface{}{"Charlie", "Bob"}},
		{"select name as who from users order by who", []interface{}{"Alice", "Bob", "Charlie"}},
		{"select name from users limit 0", []interface{}{}},
		{"select name from users limit 99999999999999999999", []interface{}{"Alice", "Bob", "Charlie"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := Evaluate(tt.query)
			require.NoError(t, err)
			field := "name"
			if len(got) > 0 && got[0].Has("who") {
				field = "who"
			}
			assert.Equal(t, tt.want, column(t, got, field))
		})
	}
}

func TestOrderBy_ColumnMustBeProjected(t *testing.T) {
	_, err := Evaluate("select name, salary from users order by salary")
	require.NoError(t, err)

	_, err = Evaluate("select name from users order by salary")
	require.Error(t, err)
	assert.Equal(t, "Unknown column 'salary' in ORDER BY", err.Error())

	got, err := Evaluate("select name from users where age > 100 order by salary")
	require.NoError(t, err)
	assert.Empty(t, got)
}
