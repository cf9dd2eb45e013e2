package tableindex

import "fmt"

// ErrInvariantViolation reports corruption: an operation discovered that the
// engine no longer matches what the table says it should contain. The
// caller must not attempt to repair it; the operation aborts.
type ErrInvariantViolation struct {
	Op      string
	Key     Key
	Row     int
	Message string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("tableindex: invariant violation during %s (key=%v row=%d): %s", e.Op, e.Key, e.Row, e.Message)
}

// NewErrCouldNotRemove reports that remove_row located no entry for the
// current column values at row r — the engine disagrees with the table.
func NewErrCouldNotRemove(row int, key Key) error {
	return &ErrInvariantViolation{Op: "remove_row", Key: key, Row: row, Message: "could not remove row from index"}
}

// NewErrRowNotInKey reports that a (key, row) removal found the key but not
// the row in its row list.
func NewErrRowNotInKey(key Key, row int) error {
	return &ErrInvariantViolation{Op: "remove", Key: key, Row: row, Message: "row does not belong to this key"}
}

// ErrColumnNotIndexed reports that col_position was called with a column the
// index does not reference.
type ErrColumnNotIndexed struct {
	Column string
}

func (e *ErrColumnNotIndexed) Error() string {
	return fmt.Sprintf("tableindex: column %q does not belong to this index", e.Column)
}

// ErrInvalidArgument reports a caller-shape error: an unknown engine kind,
// an unsupported remove_rows argument, or an index created with no
// columns.
type ErrInvalidArgument struct {
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return "tableindex: " + e.Message
}

func newErrInvalidArgument(format string, args ...any) error {
	return &ErrInvalidArgument{Message: fmt.Sprintf(format, args...)}
}
