package table

import "fmt"

// ErrColumnNotFound reports that a row or index operation named a column
// the table does not have.
type ErrColumnNotFound struct {
	ColumnName string
	TableName  string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %s not found in table %s", e.ColumnName, e.TableName)
}

// NewErrColumnNotFound creates a column-not-found error.
func NewErrColumnNotFound(tableName, columnName string) *ErrColumnNotFound {
	return &ErrColumnNotFound{TableName: tableName, ColumnName: columnName}
}

// ErrIndexCreationFailed wraps an underlying tableindex error with the
// table and columns the caller asked to index.
type ErrIndexCreationFailed struct {
	TableName string
	Columns   []string
	Reason    string
}

func (e *ErrIndexCreationFailed) Error() string {
	return fmt.Sprintf("failed to create index on %s(%v): %s", e.TableName, e.Columns, e.Reason)
}

// NewErrIndexCreationFailed creates an index-creation-failed error.
func NewErrIndexCreationFailed(tableName string, columns []string, reason string) *ErrIndexCreationFailed {
	return &ErrIndexCreationFailed{TableName: tableName, Columns: columns, Reason: reason}
}

// ErrRowOutOfRange reports an access past the end of the table.
type ErrRowOutOfRange struct {
	TableName string
	Row       int
	Len       int
}

func (e *ErrRowOutOfRange) Error() string {
	return fmt.Sprintf("row %d out of range for table %s with %d rows", e.Row, e.TableName, e.Len)
}

// NewErrRowOutOfRange creates a row-out-of-range error.
func NewErrRowOutOfRange(tableName string, row, length int) *ErrRowOutOfRange {
	return &ErrRowOutOfRange{TableName: tableName, Row: row, Len: length}
}

// ErrColumnCountMismatch reports that NewTable was given columns of
// different lengths; a table's rows are only well-defined when every
// column has the same length.
type ErrColumnCountMismatch struct {
	TableName  string
	ColumnName string
	Expected   int
	Actual     int
}

func (e *ErrColumnCountMismatch) Error() string {
	return fmt.Sprintf("table %s: column %s has %d rows, expected %d", e.TableName, e.ColumnName, e.Actual, e.Expected)
}

// NewErrColumnCountMismatch creates a column-count-mismatch error.
func NewErrColumnCountMismatch(tableName, columnName string, expected, actual int) *ErrColumnCountMismatch {
	return &ErrColumnCountMismatch{TableName: tableName, ColumnName: columnName, Expected: expected, Actual: actual}
}

// ErrUnknownMode reports that IndexMode was called with a mode name that is
// not one of freeze, discard_on_copy, or copy_on_getitem.
type ErrUnknownMode struct {
	Mode string
}

func (e *ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown index mode %q", e.Mode)
}

// NewErrUnknownMode creates an unknown-mode error.
func NewErrUnknownMode(mode string) *ErrUnknownMode {
	return &ErrUnknownMode{Mode: mode}
}
