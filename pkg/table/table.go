// Package table is a minimal in-memory host table: just enough column
// storage, row-count tracking, and mutation surface to exercise every
// integration hook tableindex.Index expects a host table to call. It is
// deliberately thin — the general table container (dtypes, I/O, printing)
// is an explicit external collaborator, not something this package
// reimplements.
package table

import (
	"log"

	"github.com/google/uuid"

	"github.com/kasuganosora/tabindex/pkg/tableindex"
)

// Table is a columnar, row-numbered store that keeps a set of
// tableindex.Index instances coherent across every structural mutation,
// grounded on the teacher's table/index-manager pairing
// (pkg/resource/memory/table_manager.go, index_manager.go) but rebuilt
// around the ordered-map contract this package's indices actually need.
type Table struct {
	ID      uuid.UUID
	Name    string
	columns []*Column
	byName  map[string]*Column
	indices []*tableindex.Index
	flags   tableindex.ModeFlags
}

// NewTable creates a table from a set of equal-length columns.
func NewTable(name string, columns ...*Column) (*Table, error) {
	n := -1
	for _, c := range columns {
		if n == -1 {
			n = c.Len()
		} else if c.Len() != n {
			return nil, NewErrColumnCountMismatch(name, c.Name(), n, c.Len())
		}
	}
	t := &Table{ID: uuid.New(), Name: name, byName: make(map[string]*Column, len(columns))}
	for _, c := range columns {
		t.columns = append(t.columns, c)
		t.byName[c.Name()] = c
	}
	return t, nil
}

// NumRows returns the table's current (dense) row count.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// Columns returns the table's columns in declared order.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, NewErrColumnNotFound(t.Name, name)
	}
	return c, nil
}

func (t *Table) indexColumns(names []string) ([]tableindex.Column, error) {
	cols := make([]tableindex.Column, len(names))
	for i, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

// AddIndex creates and attaches a new Index over columnNames, bulk-loaded
// from the table's current contents.
func (t *Table) AddIndex(columnNames []string, kind tableindex.EngineKind, opts ...tableindex.IndexOption) (*tableindex.Index, error) {
	cols, err := t.indexColumns(columnNames)
	if err != nil {
		return nil, NewErrIndexCreationFailed(t.Name, columnNames, err.Error())
	}
	idx, err := tableindex.NewIndex(cols, kind, opts...)
	if err != nil {
		return nil, NewErrIndexCreationFailed(t.Name, columnNames, err.Error())
	}
	t.indices = append(t.indices, idx)
	return idx, nil
}

// RemoveIndices detaches every index that references column.
func (t *Table) RemoveIndices(column string) {
	kept := t.indices[:0]
	for _, idx := range t.indices {
		referenced := false
		for _, c := range idx.Columns() {
			if c.Name() == column {
				referenced = true
				break
			}
		}
		if !referenced {
			kept = append(kept, idx)
		}
	}
	t.indices = kept
}

// Indices returns a read-only view over the table's attached indices.
func (t *Table) Indices() []*tableindex.Index {
	return append([]*tableindex.Index(nil), t.indices...)
}

// IndexModeName discriminates the three legal IndexMode scopes.
type IndexModeName string

const (
	ModeFreeze        IndexModeName = "freeze"
	ModeDiscardOnCopy IndexModeName = "discard_on_copy"
	ModeCopyOnGetItem IndexModeName = "copy_on_getitem"
)

// IndexMode obtains a scoped mode context; an unknown mode name is a caller
// error, not a silent no-op.
func (t *Table) IndexMode(mode IndexModeName) (*tableindex.Mode, error) {
	next := t.flags
	switch mode {
	case ModeFreeze:
		next.Freeze = true
	case ModeDiscardOnCopy:
		next.DiscardOnCopy = true
	case ModeCopyOnGetItem:
		next.CopyOnGetItem = true
	default:
		return nil, NewErrUnknownMode(string(mode))
	}
	return tableindex.EnterMode(&t.flags, next, t.indices), nil
}

func rowToCells(values map[string]tableindex.Cell, cols []*Column) []tableindex.Cell {
	out := make([]tableindex.Cell, len(cols))
	for i, c := range cols {
		out[i] = values[c.Name()]
	}
	return out
}

// AppendRow adds values as a new last row (host-table hook for row append →
// Index.AddRow).
func (t *Table) AppendRow(values map[string]tableindex.Cell) error {
	return t.InsertRow(t.NumRows(), values)
}

// InsertRow inserts values at pos, shifting rows [pos, N) right by one
// (host-table hook for row insert → Index.AddRow). An error here (e.g. a
// unique-index violation) is an invariant violation: the operation aborts
// without attempting repair, so the table and its indices may disagree and
// must not be used further.
func (t *Table) InsertRow(pos int, values map[string]tableindex.Cell) error {
	cells := rowToCells(values, t.columns)
	for i, c := range t.columns {
		c.insertAt(pos, cells[i])
	}
	for _, idx := range t.indices {
		if err := idx.AddRow(pos, values); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRow deletes row r, shifting later rows left by one (host-table hook
// for row delete → Index.RemoveRow).
func (t *Table) RemoveRow(r int) error {
	if r < 0 || r >= t.NumRows() {
		return NewErrRowOutOfRange(t.Name, r, t.NumRows())
	}
	for _, idx := range t.indices {
		if err := idx.RemoveRow(r, true); err != nil {
			return err
		}
	}
	for _, c := range t.columns {
		c.removeAt(r)
	}
	return nil
}

// RemoveRows deletes the set of rows named by spec (a single row, an
// explicit list, or a stride), mirroring Index.RemoveRows' mandatory
// two-pass discipline: every index has shift_left deferred until every row
// is gone, so this removes its own column cells in descending row order too
// (host-table hook for row delete → Index.RemoveRows).
func (t *Table) RemoveRows(spec tableindex.RowSpec) error {
	for _, idx := range t.indices {
		if err := idx.RemoveRows(spec); err != nil {
			return err
		}
	}
	rows := append([]int(nil), spec.Rows()...)
	sortDesc(rows)
	for _, r := range rows {
		for _, c := range t.columns {
			c.removeAt(r)
		}
	}
	return nil
}

func sortDesc(rows []int) {
	for i := 1; i < len(rows); i++ {
		v := rows[i]
		j := i - 1
		for j >= 0 && rows[j] < v {
			rows[j+1] = rows[j]
			j--
		}
		rows[j+1] = v
	}
}

// SetCell edits the cell at (row, colName) in place (host-table hook for
// column cell assign → Index.Replace).
func (t *Table) SetCell(row int, colName string, val tableindex.Cell) error {
	col, err := t.Column(colName)
	if err != nil {
		return err
	}
	if row < 0 || row >= t.NumRows() {
		return NewErrRowOutOfRange(t.Name, row, t.NumRows())
	}
	for _, idx := range t.indices {
		referenced := false
		for _, c := range idx.Columns() {
			if c.Name() == colName {
				referenced = true
				break
			}
		}
		if !referenced {
			continue
		}
		if err := idx.Replace(row, col, val); err != nil {
			return err
		}
	}
	col.Set(row, val)
	return nil
}

// Reorder applies a positional row permutation to every column and index:
// perm[i] is the old row number now occupying new row i (host-table hook
// for column reordering / fancy-index row selection → Index.ReplaceRows).
func (t *Table) Reorder(perm []int) error {
	for _, idx := range t.indices {
		if err := idx.ReplaceRows(perm); err != nil {
			return err
		}
	}
	for _, c := range t.columns {
		c.reorder(perm)
	}
	return nil
}

// Resort rebuilds every attached index from the table's current column
// contents (host-table hook for a table sort → Index.Reload).
// Use this rather than Reorder when the sort itself was performed by
// rewriting column storage directly instead of computing an explicit
// permutation.
func (t *Table) Resort() error {
	n := t.NumRows()
	for _, idx := range t.indices {
		if err := idx.Reload(); err != nil {
			return err
		}
		warnOnRebuildMismatch(t.Name, idx, n)
	}
	return nil
}

// DeepCopy duplicates the table: columns are cloned (new backing storage,
// same cell values), and each index is deep-copied and rebound to the new
// table's columns of the same name — unless DiscardOnCopy is set, in which
// case the copy carries no indices at all.
func (t *Table) DeepCopy() (*Table, error) {
	newCols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		newCols[i] = NewColumn(c.Name(), c.data)
	}
	cp, err := NewTable(t.Name, newCols...)
	if err != nil {
		return nil, err
	}
	if t.flags.DiscardOnCopy {
		return cp, nil
	}
	for _, idx := range t.indices {
		nidx, err := idx.DeepCopy()
		if err != nil {
			return nil, err
		}
		if err := nidx.Refresh(columnsOf(newCols)); err != nil {
			return nil, err
		}
		cp.indices = append(cp.indices, nidx)
	}
	return cp, nil
}

func columnsOf(cols []*Column) []tableindex.Column {
	out := make([]tableindex.Column, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

// RebindColumns replaces the table's column identities by name — e.g. after
// a wholesale column rebuild elsewhere — and refreshes every index's column
// references to match (host-table hook for column identity change →
// Index.Refresh).
func (t *Table) RebindColumns(columns []*Column) error {
	byName := make(map[string]*Column, len(columns))
	for _, c := range columns {
		byName[c.Name()] = c
	}
	for i, c := range t.columns {
		nc, ok := byName[c.Name()]
		if !ok {
			return NewErrColumnNotFound(t.Name, c.Name())
		}
		t.columns[i] = nc
	}
	t.byName = byName
	for _, idx := range t.indices {
		if err := idx.Refresh(columnsOf(t.columns)); err != nil {
			return err
		}
	}
	return nil
}

// warnOnRebuildMismatch logs when Resort/Reload produced a different row
// count than expected — a sign the caller mutated columns directly while an
// index was frozen in a way that broke density, which Reload cannot detect
// on its own: freezing is not transactional, and reads during a freeze see
// stale state. Mirrors the teacher's sparing [WARN] logging
// (pkg/resource/memory/paged_rows.go).
func warnOnRebuildMismatch(tableName string, idx *tableindex.Index, expected int) {
	if got := idx.Length(); got != expected {
		log.Printf("[WARN] table %s: index rebuild holds %d entries, table has %d rows", tableName, got, expected)
	}
}
