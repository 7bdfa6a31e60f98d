package relation

// Keys of the single-field records used in place of a result set.
const (
	DiagnosticError   = "error"
	DiagnosticMessage = "message"
	DiagnosticNote    = "note"
)

// NoRowsMessage is reported when a query succeeds with an empty result.
const NoRowsMessage = "No rows found"

// ErrorRecord wraps a failure message as a diagnostic record.
func ErrorRecord(msg string) Record {
	return NewRecord(DiagnosticError, msg)
}

// MessageRecord wraps an informational message as a diagnostic record.
func MessageRecord(msg string) Record {
	return NewRecord(DiagnosticMessage, msg)
}

// IsDiagnostic reports whether records is a lone diagnostic record rather
// than query output.
func IsDiagnostic(records []Record) bool {
	if len(records) != 1 || len(records[0]) != 1 {
		return false
	}
	switch records[0][0].Name {
	case DiagnosticError, DiagnosticMessage, DiagnosticNote:
		_, ok := records[0][0].Value.(string)
		return ok
	}
	return false
}
