package reconcile

import "errors"

var (
	// ErrConfig marks a missing or malformed catalog or SQL resource.
	ErrConfig = errors.New("configuration error")
	// ErrSourceExecution marks a failure while executing or streaming a query.
	ErrSourceExecution = errors.New("source execution error")
	// ErrTableNotFound marks a remote table id that does not resolve.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnMismatch marks a batch column absent from the remote table schema.
	ErrColumnMismatch = errors.New("column mismatch")
)

// ErrorKind classifies a failure for run reports.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindConfig          ErrorKind = "config"
	KindSourceExecution ErrorKind = "source_execution"
	KindTableNotFound   ErrorKind = "table_not_found"
	KindColumnMismatch  ErrorKind = "column_mismatch"
	KindUnexpected      ErrorKind = "unexpected"
)

// KindOf returns the kind of err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrSourceExecution):
		return KindSourceExecution
	case errors.Is(err, ErrTableNotFound):
		return KindTableNotFound
	case errors.Is(err, ErrColumnMismatch):
		return KindColumnMismatch
	default:
		return KindUnexpected
	}
}
