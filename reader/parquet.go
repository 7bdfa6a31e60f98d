package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cast"
	"github.com/vegasq/sqlplay/relation"
)

// FileColumn is the column added to every record read through a glob
// pattern, naming the file the record came from.
const FileColumn = "_file"

// maxFiles caps how many files a single glob may expand to.
const maxFiles = 1000

// Reader reads a parquet file into records.
//
// It keeps the OS file handle next to the parquet handle so Close can
// release it.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens path and validates it as a parquet file.
//
//	r, err := reader.NewReader("users.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads every row into memory. Record fields follow the top-level
// column order of the file schema, and values are normalized to the
// scalar types a relation.Record carries.
func (r *Reader) ReadAll() ([]relation.Record, error) {
	columns := make([]string, 0, len(r.Schema().Fields()))
	for _, field := range r.Schema().Fields() {
		columns = append(columns, field.Name())
	}

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	records := make([]relation.Record, 0, r.pqFile.NumRows())
	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rec := make(relation.Record, 0, len(columns))
		for _, name := range columns {
			rec = append(rec, relation.Field{Name: name, Value: normalize(row[name])})
		}
		records = append(records, rec)
	}

	return records, nil
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows returns the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Close releases the file handle. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadFile opens path, reads every record and closes the file.
func ReadFile(path string) ([]relation.Record, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}

	records, readErr := r.ReadAll()
	closeErr := r.Close()
	if readErr != nil {
		return nil, readErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return records, nil
}

// ReadMultipleFiles reads all records from the files matching pattern.
//
// A pattern without wildcards reads one file and leaves its records as they
// are. A glob reads every match in lexical order and appends a _file column
// naming the source of each record. No match is an error.
func ReadMultipleFiles(pattern string) ([]relation.Record, error) {
	if !IsGlob(pattern) {
		return ReadFile(pattern)
	}

	matches, err := Glob(pattern)
	if err != nil {
		return nil, err
	}

	var all []relation.Record
	for _, path := range matches {
		records, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for _, rec := range records {
			all = append(all, rec.With(FileColumn, path))
		}
	}
	return all, nil
}

// IsGlob reports whether pattern contains glob wildcards.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// Glob expands pattern and enforces the file count limit.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}
	return matches, nil
}

// normalize maps a decoded parquet value onto nil, int64, float64 or
// string. Anything else (lists, groups, timestamps) is rendered as text.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		return cast.ToInt64(x)
	case float32, float64:
		return cast.ToFloat64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case []byte:
		return string(x)
	case string:
		return x
	default:
		s, err := cast.ToStringE(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return s
	}
}
