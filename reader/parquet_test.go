package reader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegasq/sqlplay/relation"
)

func writeRelation(t *testing.T, dir string, rel *relation.Relation) string {
	t.Helper()
	path := filepath.Join(dir, rel.Name+".parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, relation.WriteParquet(f, rel))
	require.NoError(t, f.Close())
	return path
}

func TestReadAll_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, rel := range relation.All() {
		t.Run(rel.Name, func(t *testing.T) {
			r, err := NewReader(writeRelation(t, dir, rel))
			require.NoError(t, err)
			defer func() { _ = r.Close() }()

			assert.Equal(t, int64(rel.Len()), r.NumRows())

			got, err := r.ReadAll()
			require.NoError(t, err)
			assert.Equal(t, rel.Records, got)
		})
	}
}

func TestReadAll_FieldOrderFollowsSchema(t *testing.T) {
	path := writeRelation(t, t.TempDir(), relation.Users())

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, rec := range got {
		assert.Equal(t, relation.Users().Schema.Names(), rec.Names())
	}
}

func TestNewReader_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewReader(filepath.Join(dir, "missing.parquet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bogus := filepath.Join(dir, "bogus.parquet")
	require.NoError(t, os.WriteFile(bogus, []byte("not parquet"), 0o644))
	_, err = NewReader(bogus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open parquet file")
}

func TestClose_Twice(t *testing.T) {
	r, err := NewReader(writeRelation(t, t.TempDir(), relation.Orders()))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestReadMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	usersPath := writeRelation(t, dir, relation.Users())
	ordersPath := writeRelation(t, dir, relation.Orders())

	t.Run("single file has no _file column", func(t *testing.T) {
		got, err := ReadMultipleFiles(usersPath)
		require.NoError(t, err)
		require.Len(t, got, relation.Users().Len())
		assert.False(t, got[0].Has(FileColumn))
	})

	t.Run("glob tags every record", func(t *testing.T) {
		got, err := ReadMultipleFiles(filepath.Join(dir, "*.parquet"))
		require.NoError(t, err)
		require.Len(t, got, relation.Users().Len()+relation.Orders().Len())

		// lexical order: orders.parquet before users.parquet
		first, _ := got[0].Get(FileColumn)
		last, _ := got[len(got)-1].Get(FileColumn)
		assert.Equal(t, ordersPath, first)
		assert.Equal(t, usersPath, last)
		assert.Equal(t, FileColumn, got[0].Names()[len(got[0])-1])
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ReadMultipleFiles(filepath.Join(dir, "*.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match pattern")
	})
}

func TestIsGlob(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"users.parquet", false},
		{"data/*.parquet", true},
		{"data/user?.parquet", true},
		{"data/[ab].parquet", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGlob(tt.pattern))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"int32", int32(7), int64(7)},
		{"uint8", uint8(3), int64(3)},
		{"float32", float32(1.5), float64(1.5)},
		{"bytes", []byte("abc"), "abc"},
		{"true", true, int64(1)},
		{"false", false, int64(0)},
		{"string", "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}
