package relation

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cast"
)

type userRow struct {
	ID      int64   `parquet:"id"`
	Name    string  `parquet:"name"`
	Age     int64   `parquet:"age"`
	Country string  `parquet:"country"`
	Salary  float64 `parquet:"salary"`
}

type orderRow struct {
	ID     int64   `parquet:"id"`
	UserID int64   `parquet:"user_id"`
	Amount float64 `parquet:"amount"`
}

// WriteParquet writes every record of rel to w as a parquet file.
func WriteParquet(w io.Writer, rel *Relation) error {
	switch rel.Name {
	case users.Name:
		rows := make([]userRow, 0, rel.Len())
		for _, rec := range rel.Records {
			rows = append(rows, userRow{
				ID:      int64Field(rec, "id"),
				Name:    stringField(rec, "name"),
				Age:     int64Field(rec, "age"),
				Country: stringField(rec, "country"),
				Salary:  float64Field(rec, "salary"),
			})
		}
		return writeRows(w, rows)
	case orders.Name:
		rows := make([]orderRow, 0, rel.Len())
		for _, rec := range rel.Records {
			rows = append(rows, orderRow{
				ID:     int64Field(rec, "id"),
				UserID: int64Field(rec, "user_id"),
				Amount: float64Field(rec, "amount"),
			})
		}
		return writeRows(w, rows)
	default:
		return fmt.Errorf("no parquet layout for relation %q", rel.Name)
	}
}

func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func int64Field(rec Record, name string) int64 {
	v, _ := rec.Get(name)
	return cast.ToInt64(v)
}

func float64Field(rec Record, name string) float64 {
	v, _ := rec.Get(name)
	return cast.ToFloat64(v)
}

func stringField(rec Record, name string) string {
	v, _ := rec.Get(name)
	return cast.ToString(v)
}
