// Package reader loads parquet files back into relation records.
//
// It is the inverse of relation.WriteParquet: the export command writes the
// playground relations as parquet, and the inspect command reads any
// parquet file (or glob of files) and renders it with the same formatters
// used for query results.
//
//	r, err := reader.NewReader("users.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	records, err := r.ReadAll()
//
// Record fields follow the file's top-level column order. Values are
// normalized to nil, int64, float64 or string.
//
// ReadMultipleFiles accepts a glob such as "out/*.parquet"; records read
// through a glob carry an extra _file column naming their source file.
// ReadSchema lists leaf columns with their parquet physical and logical
// types, nested columns in dot notation.
package reader
