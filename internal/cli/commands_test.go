package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand(t *testing.T) {
	tests := []struct {
		name   string
		golden string
		args   []string
	}{
		{
			name:   "join as json lines",
			golden: "query_json_join",
			args:   []string{"query", "-f", "json", "select u.name, o.amount from users u join orders o on u.id = o.user_id"},
		},
		{
			name:   "grouped as csv",
			golden: "query_csv_grouped",
			args:   []string{"query", "--format", "csv", "select country, count(*), avg(salary) from users group by country order by country"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			require.NoError(t, res.err)
			newGoldie(t).Assert(t, tt.golden, []byte(res.stdout))
		})
	}
}

func TestQueryCommand_JoinsArguments(t *testing.T) {
	res := execute(t, "", "query", "-f", "json", "select", "name", "from", "users", "where", "id", "=", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "{\"name\":\"Bob\"}\n", res.stdout)
}

func TestQueryCommand_Table(t *testing.T) {
	res := execute(t, "", "query", "select name, age from users where country = 'india'")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "name")
	assert.Contains(t, res.stdout, "Charlie")
	assert.Contains(t, res.stdout, "28")
	assert.NotContains(t, res.stdout, "Alice")
}

func TestQueryCommand_ErrorDiagnostic(t *testing.T) {
	// diagnostics are rendered as JSON whatever the format
	res := execute(t, "", "query", "-f", "csv", "select nickname from users")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Equal(t, "Unknown column 'nickname'", res.err.Error())
	newGoldie(t).Assert(t, "query_error", []byte(res.stdout))
}

func TestQueryCommand_NoRowsIsNotFailure(t *testing.T) {
	res := execute(t, "", "query", "select * from users where age > 100")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"message": "No rows found"`)
}

func TestQueryCommand_ColumnsNamedLikeDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"error", "select name as error from users where id = 1", "{\"error\":\"Alice\"}\n"},
		{"message", "select name as message from users where id = 2", "{\"message\":\"Bob\"}\n"},
		{"note", "select country as note from users where id = 3", "{\"note\":\"India\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", "query", "-f", "json", tt.sql)
			require.NoError(t, res.err)
			assert.Equal(t, ExitSuccess, GetExitCode(res.err))
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestReplCommand_ColumnNamedError(t *testing.T) {
	res := execute(t, "select name as error from users where id = 1\n", "repl", "--prompt", "", "-f", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "error\nAlice\n", res.stdout)
}

func TestQueryCommand_RequiresArgument(t *testing.T) {
	res := execute(t, "", "query")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestTablesCommand(t *testing.T) {
	t.Run("one table", func(t *testing.T) {
		res := execute(t, "", "tables", "ORDERS", "-f", "json")
		require.NoError(t, res.err)
		newGoldie(t).Assert(t, "tables_orders_json", []byte(res.stdout))
	})

	t.Run("schema of all tables", func(t *testing.T) {
		res := execute(t, "", "tables", "--schema", "-f", "csv")
		require.NoError(t, res.err)
		newGoldie(t).Assert(t, "tables_schema_csv", []byte(res.stdout))
	})

	t.Run("unknown table", func(t *testing.T) {
		res := execute(t, "", "tables", "products")
		require.Error(t, res.err)
		assert.Equal(t, ExitCommandError, GetExitCode(res.err))
		assert.Contains(t, res.err.Error(), `unknown table "products"`)
	})

	t.Run("default table format", func(t *testing.T) {
		res := execute(t, "", "tables")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "# users")
		assert.Contains(t, res.stdout, "# orders")
		assert.Contains(t, res.stdout, "user_id")
	})
}

func TestReplCommand(t *testing.T) {
	input := strings.Join([]string{
		"select name from users where id = 1",
		"",
		"select * from users where age > 100",
		"quit",
		"select * from orders",
	}, "\n")

	res := execute(t, input, "repl", "--prompt", "", "-f", "json")
	require.NoError(t, res.err)
	newGoldie(t).Assert(t, "repl_json", []byte(res.stdout))
	assert.Empty(t, res.stderr)
}

func TestReplCommand_ErrorsDoNotStopSession(t *testing.T) {
	input := "select bogus from users\nselect count(*) from orders\n"

	res := execute(t, input, "repl", "-f", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"error": "Unknown column 'bogus'"`)
	assert.Contains(t, res.stdout, `{"count":3}`)
	assert.Equal(t, 3, strings.Count(res.stderr, "sqlplay> "))
}

func TestExportAndInspect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	res := execute(t, "", "export", "--dir", dir, "-f", "csv")
	require.NoError(t, res.err)
	usersPath := filepath.Join(dir, "users.parquet")
	ordersPath := filepath.Join(dir, "orders.parquet")
	assert.Equal(t, "file,rows\n"+usersPath+",3\n"+ordersPath+",3\n", res.stdout)
	assert.FileExists(t, usersPath)
	assert.FileExists(t, ordersPath)

	t.Run("rows", func(t *testing.T) {
		res := execute(t, "", "inspect", usersPath, "-f", "json")
		require.NoError(t, res.err)
		want, err := os.ReadFile(filepath.Join("..", "..", "output", "testdata", "golden", "json_users.golden"))
		require.NoError(t, err)
		assert.Equal(t, string(want), res.stdout)
	})

	t.Run("limit", func(t *testing.T) {
		res := execute(t, "", "inspect", ordersPath, "--limit", "1", "-f", "json")
		require.NoError(t, res.err)
		assert.Equal(t, "{\"id\":101,\"user_id\":1,\"amount\":120}\n", res.stdout)
	})

	t.Run("glob", func(t *testing.T) {
		res := execute(t, "", "inspect", filepath.Join(dir, "*.parquet"), "-f", "csv")
		require.NoError(t, res.err)
		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		require.Len(t, lines, 7)
		assert.Equal(t, "id,user_id,amount,_file", lines[0])
		assert.True(t, strings.HasSuffix(lines[6], ","+usersPath))
	})

	t.Run("schema", func(t *testing.T) {
		res := execute(t, "", "inspect", "--schema", filepath.Join(dir, "*.parquet"), "-f", "csv")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "name,type,physical_type,logical_type,required,repeated\n")
		assert.Contains(t, res.stdout, "amount,number,DOUBLE,")
		assert.Contains(t, res.stderr, "# Showing schema from: "+ordersPath+" (2 files matched)")
	})
}

func TestInspectCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"inspect", filepath.Join(dir, "nope.parquet")}, "not found"},
		{"no glob match", []string{"inspect", filepath.Join(dir, "*.parquet")}, "no files match pattern"},
		{"negative limit", []string{"inspect", "x.parquet", "--limit", "-1"}, "--limit must be non-negative"},
		{"schema with limit", []string{"inspect", "x.parquet", "--schema", "--limit", "2"}, "cannot be used together"},
		{"no argument", []string{"inspect"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, ExitCommandError, GetExitCode(res.err))
			assert.Contains(t, res.err.Error(), tt.wantErr)
		})
	}
}
