package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegasq/sqlplay/relation"
)

func TestProjection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []relation.Record
	}{
		{
			name:  "columns in select order",
			query: "select salary, name from users where id = 2",
			want:  []relation.Record{relation.NewRecord("salary", float64(60000), "name", "Bob")},
		},
		{
			name:  "alias",
			query: "select name as employee from users where id = 1",
			want:  []relation.Record{relation.NewRecord("employee", "Alice")},
		},
		{
			name:  "qualified columns use the bare name",
			query: "select u.name, o.amount from users u join orders o on u.id = o.user_id where o.id = 103",
			want:  []relation.Record{relation.NewRecord("name", "Bob", "amount", float64(200))},
		},
		{
			name:  "repeated output name keeps the last value",
			query: "select u.id, o.id from users u join orders o on u.id = o.user_id where o.id = 101",
			want:  []relation.Record{relation.NewRecord("id", int64(101))},
		},
		{
			name:  "star on a join flattens both sides",
			query: "select * from users u left join orders o on u.id = o.user_id where u.id = 3",
			want: []relation.Record{relation.NewRecord(
				"u_id", int64(3), "u_name", "Charlie", "u_age", int64(28), "u_country", "India", "u_salary", float64(50000),
				"o_id", nil, "o_user_id", nil, "o_amount", nil,
			)},
		},
		{
			name:  "star on a right join keeps left fields first",
			query: "select * from users u right join orders o on u.id = o.id where o.id = 101",
			want: []relation.Record{relation.NewRecord(
				"u_id", nil, "u_name", nil, "u_age", nil, "u_country", nil, "u_salary", nil,
				"o_id", int64(101), "o_user_id", int64(1), "o_amount", float64(120),
			)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjection_JoinKeySetIsUniform(t *testing.T) {
	got, err := Evaluate("select * from users u full join orders o on u.id = o.user_id")
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, rec := range got {
		assert.Equal(t, got[0].Names(), rec.Names())
	}
}

func TestProjection_UnknownColumn(t *testing.T) {
	for _, query := range []string{
		"select nickname from users",
		"select u.name from users",
		"select x.name from users u join orders o on u.id = o.user_id",
	} {
		t.Run(query, func(t *testing.T) {
			_, err := Evaluate(query)
			require.Error(t, err)
			assert.True(t, ErrUnknownColumn.Is(err))
		})
	}
}
