package tableindex

import (
	"sort"

	"github.com/google/uuid"
)

// Column is the read-only abstraction a host table provides for one of its
// columns: indexed random read, length, and a stable name used to locate
// the column among a possibly-reordered list. The host table is an
// external collaborator — this package never mutates a Column.
type Column interface {
	Name() string
	At(row int) Cell
	Len() int
}

// Row is a row's values keyed by column name, the shape a host table's
// add_row hook supplies new data in.
type Row = map[string]Cell

// RowSpecKind discriminates the three legal shapes of a remove_rows
// argument.
type RowSpecKind int

const (
	// RowSpecSingle removes exactly one row.
	RowSpecSingle RowSpecKind = iota
	// RowSpecList removes an explicit set of rows.
	RowSpecList
	// RowSpecStride removes a start/stop/step range of rows.
	RowSpecStride
)

// Stride is a half-open, possibly negative-step row range, mirroring
// Python's slice.indices(n) triple.
type Stride struct {
	Start, Stop, Step int
}

// RowSpec is the materialised form of remove_rows' polymorphic argument: an
// int, a list of ints, or a stride triple. Any other shape is a caller
// error.
type RowSpec struct {
	Kind   RowSpecKind
	Row    int
	Rows   []int
	Stride Stride
}

// RowSpecOf builds a RowSpec removing a single row.
func RowSpecOf(row int) RowSpec { return RowSpec{Kind: RowSpecSingle, Row: row} }

// RowSpecOfList builds a RowSpec removing an explicit set of rows.
func RowSpecOfList(rows []int) RowSpec { return RowSpec{Kind: RowSpecList, Rows: rows} }

// RowSpecOfStride builds a RowSpec removing a start/stop/step range.
func RowSpecOfStride(start, stop, step int) RowSpec {
	return RowSpec{Kind: RowSpecStride, Stride: Stride{Start: start, Stop: stop, Step: step}}
}

func strideRows(s Stride) []int {
	var out []int
	switch {
	case s.Step > 0:
		for i := s.Start; i < s.Stop; i += s.Step {
			out = append(out, i)
		}
	case s.Step < 0:
		for i := s.Start; i > s.Stop; i += s.Step {
			out = append(out, i)
		}
	}
	return out
}

// Rows materialises a RowSpec into the explicit set of row numbers it
// names, regardless of which of the three shapes it was built with. Host
// tables use this to know which of their own rows to delete alongside
// calling Index.RemoveRows, which performs the matching two-pass index-side
// removal itself.
func (s RowSpec) Rows() []int {
	switch s.Kind {
	case RowSpecSingle:
		return []int{s.Row}
	case RowSpecList:
		return append([]int(nil), s.Rows...)
	case RowSpecStride:
		return strideRows(s.Stride)
	default:
		return nil
	}
}

// whereKind discriminates an equality query from a range query within a
// Where column map.
type whereKind int

const (
	whereEquals whereKind = iota
	whereRange
)

// WhereValue is one column's constraint in a Where query: either an exact
// value or a bounded range. Range constraints are only legal on the last
// queried column (index.py: where).
type WhereValue struct {
	kind         whereKind
	value        Cell
	lower, upper Cell
	bounds       Bounds
}

// WhereEquals constrains a column to an exact value.
func WhereEquals(v Cell) WhereValue { return WhereValue{kind: whereEquals, value: v} }

// WhereRange constrains a column to [lower, upper] per bounds. Only legal
// as the last column of a Where query.
func WhereRange(lower, upper Cell, bounds Bounds) WhereValue {
	return WhereValue{kind: whereRange, lower: lower, upper: upper, bounds: bounds}
}

// Index binds an ordered column tuple to an engine and translates
// row-based table mutations into key/row-pair updates.
type Index struct {
	ID      uuid.UUID
	columns []Column
	kind    EngineKind
	unique  bool
	frozen  bool
	engine  Engine
}

// IndexOption configures NewIndex.
type IndexOption func(*Index)

// WithUnique declares that the index's engine must not contain two entries
// with the same key; without it, keys need not be unique.
func WithUnique() IndexOption {
	return func(idx *Index) { idx.unique = true }
}

// NewIndex creates an Index over columns using the named engine kind,
// bulk-loading it from the columns' current contents.
func NewIndex(columns []Column, kind EngineKind, opts ...IndexOption) (*Index, error) {
	if len(columns) == 0 {
		return nil, newErrInvalidArgument("cannot create index without at least one column")
	}
	idx := &Index{ID: uuid.New(), columns: columns, kind: kind}
	for _, opt := range opts {
		opt(idx)
	}
	eng, err := NewEngine(kind, idx.unique, idx.buildEntries())
	if err != nil {
		return nil, err
	}
	idx.engine = eng
	return idx, nil
}

// Columns returns the index's column tuple, in declared order.
func (idx *Index) Columns() []Column { return idx.columns }

// Kind returns the engine kind this index was created with.
func (idx *Index) Kind() EngineKind { return idx.kind }

// Unique reports whether this index was created with WithUnique.
func (idx *Index) Unique() bool { return idx.unique }

// Frozen reports whether writes are currently being suppressed.
func (idx *Index) Frozen() bool { return idx.frozen }

// SetFrozen is called by the Mode context on entry/exit of a freeze scope;
// callers should use EnterMode rather than calling this directly.
func (idx *Index) SetFrozen(frozen bool) { idx.frozen = frozen }

func (idx *Index) keyAt(row int) Key {
	key := make(Key, len(idx.columns))
	for i, c := range idx.columns {
		key[i] = c.At(row)
	}
	return key
}

func (idx *Index) buildKeyFromRow(values Row) Key {
	key := make(Key, len(idx.columns))
	for i, c := range idx.columns {
		if v, ok := values[c.Name()]; ok {
			key[i] = v
		}
	}
	return key
}

func (idx *Index) buildEntries() []Entry {
	if len(idx.columns) == 0 {
		return nil
	}
	n := idx.columns[0].Len()
	entries := make([]Entry, n)
	for r := 0; r < n; r++ {
		entries[r] = Entry{Key: idx.keyAt(r), Row: r}
	}
	return entries
}

// AddRow is called after the host table inserts a new row at pos, shifting
// rows [pos, N) right by one.
func (idx *Index) AddRow(pos int, values Row) error {
	if idx.frozen {
		return nil
	}
	key := idx.buildKeyFromRow(values)
	if idx.unique {
		if rows := idx.engine.Find(key); len(rows) > 0 {
			return &ErrInvariantViolation{Op: "add_row", Key: key, Row: pos, Message: "duplicate key violates unique index"}
		}
	}
	idx.engine.ShiftRight(pos)
	idx.engine.Add(key, pos)
	return nil
}

// RemoveRow is called when the host removes row r. When reorder is true
// (the common case), every stored row number greater than r is decremented
// to keep row numbers dense.
func (idx *Index) RemoveRow(r int, reorder bool) error {
	if idx.frozen {
		return nil
	}
	key := idx.keyAt(r)
	ok, err := idx.engine.Remove(key, r)
	if err != nil {
		return err
	}
	if !ok {
		return NewErrCouldNotRemove(r, key)
	}
	if reorder {
		idx.engine.ShiftLeft(r)
	}
	return nil
}

// RemoveRows removes a set of rows specified as a single row, a list, or a
// stride. It is a strict two-pass operation: every row is
// removed with reorder=false first, then shift_left is applied once per
// removed row in descending order of original row number, because applying
// shift_left between removals would change the meaning of subsequent row
// numbers.
func (idx *Index) RemoveRows(spec RowSpec) error {
	if idx.frozen {
		return nil
	}
	if spec.Kind == RowSpecSingle {
		return idx.RemoveRow(spec.Row, true)
	}

	if spec.Kind != RowSpecList && spec.Kind != RowSpecStride {
		return newErrInvalidArgument("unsupported remove_rows argument kind %d", spec.Kind)
	}
	rows := spec.Rows()

	for _, r := range rows {
		if err := idx.RemoveRow(r, false); err != nil {
			return err
		}
	}
	ordered := append([]int(nil), rows...)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))
	for _, r := range ordered {
		idx.engine.ShiftLeft(r)
	}
	return nil
}

// Replace is an in-place cell edit at row r, column col, to val. The old
// entry is removed (no reorder), the key is rebuilt with the new value, and
// the row is re-inserted with the same row number — callers never observe
// the engine with the entry missing, since both steps happen before
// Replace returns.
func (idx *Index) Replace(r int, col Column, val Cell) error {
	if idx.frozen {
		return nil
	}
	oldKey := idx.keyAt(r)
	ok, err := idx.engine.Remove(oldKey, r)
	if err != nil {
		return err
	}
	if !ok {
		return NewErrCouldNotRemove(r, oldKey)
	}
	pos, err := idx.ColPosition(col)
	if err != nil {
		idx.engine.Add(oldKey, r) // restore: col isn't ours, nothing to change
		return err
	}
	newKey := append(Key{}, oldKey...)
	newKey[pos] = val
	idx.engine.Add(newKey, r)
	return nil
}

// ReplaceRows applies a positional row reordering: perm[i] is the old row
// number now occupying new row i. Entries whose old row is absent from
// perm are dropped.
func (idx *Index) ReplaceRows(perm []int) error {
	if idx.frozen {
		return nil
	}
	inverse := make(map[int]int, len(perm))
	for newRow, oldRow := range perm {
		inverse[oldRow] = newRow
	}
	idx.engine.ReplaceRows(inverse)
	return nil
}

func sortRows(rows []int) []int {
	out := append([]int(nil), rows...)
	sort.Ints(out)
	return out
}

// Find returns all rows whose key equals key, sorted ascending.
func (idx *Index) Find(key Key) []int {
	return sortRows(idx.engine.Find(key))
}

// Range returns all rows whose key lies in the interval bounded by lo and
// hi per bounds, sorted ascending.
func (idx *Index) Range(lo, hi Key, bounds Bounds) []int {
	return sortRows(idx.engine.Range(lo, hi, bounds))
}

// SamePrefix returns all rows whose key has prefix as an element-wise
// prefix, sorted ascending. Equivalent to
// Range(prefix++[MIN...], prefix++[MAX...], ClosedBounds).
func (idx *Index) SamePrefix(prefix Key) []int {
	return sortRows(idx.engine.SamePrefix(prefix))
}

// Where answers a query over a map of column name to WhereValue. The
// queried columns must form a left prefix of the index's declared columns;
// a range constraint is only legal on the last queried column. For a range
// constraint over fewer than all columns, the columns not present in colMap
// are synthesized with MIN/MAX sentinels so the query reuses the full-key
// range machinery (index.py: where, same_prefix_range); an equality-only
// partial key is answered by SamePrefix.
func (idx *Index) Where(colMap map[string]WhereValue) ([]int, error) {
	k := len(colMap)
	if k == 0 || k > len(idx.columns) {
		return nil, newErrInvalidArgument("where: expected 1..%d constrained columns, got %d", len(idx.columns), k)
	}
	names := make([]string, len(idx.columns))
	for i, c := range idx.columns {
		names[i] = c.Name()
	}
	prefixNames := names[:k]
	prefixSet := make(map[string]bool, k)
	for _, n := range prefixNames {
		prefixSet[n] = true
	}
	for n := range colMap {
		if !prefixSet[n] {
			return nil, newErrInvalidArgument("where: query columns must form a left prefix of index columns")
		}
	}
	for _, n := range prefixNames[:k-1] {
		if colMap[n].kind == whereRange {
			return nil, newErrInvalidArgument("where: range queries are only valid on the last queried column")
		}
	}

	base := make(Key, 0, k-1)
	for _, n := range prefixNames[:k-1] {
		base = append(base, colMap[n].value)
	}
	last := colMap[prefixNames[k-1]]

	if last.kind == whereRange {
		lower := append(append(Key{}, base...), last.lower)
		upper := append(append(Key{}, base...), last.upper)
		if len(lower) == len(idx.columns) {
			return idx.Range(lower, upper, last.bounds), nil
		}
		return idx.samePrefixRange(lower, upper, last.bounds), nil
	}

	key := append(append(Key{}, base...), last.value)
	if len(key) == len(idx.columns) {
		return idx.Find(key), nil
	}
	return idx.SamePrefix(key), nil
}

// samePrefixRange pads lower/upper with MIN/MAX sentinels out to the full
// column count and delegates to Range (index.py: same_prefix_range).
func (idx *Index) samePrefixRange(lower, upper Key, bounds Bounds) []int {
	ncols := len(idx.columns)
	padLow := Cell(MIN)
	if !bounds.LeftClosed {
		padLow = MAX
	}
	padHigh := Cell(MAX)
	if !bounds.RightClosed {
		padHigh = MIN
	}
	loFull := append(Key{}, lower...)
	hiFull := append(Key{}, upper...)
	for len(loFull) < ncols {
		loFull = append(loFull, padLow)
	}
	for len(hiFull) < ncols {
		hiFull = append(hiFull, padHigh)
	}
	return idx.Range(loFull, hiFull, bounds)
}

// Reload recomputes the engine from current column contents; used to
// resynchronise a frozen index at unfreeze time, or after a bulk edit that
// bypassed the hooks.
func (idx *Index) Reload() error {
	eng, err := NewEngine(idx.kind, idx.unique, idx.buildEntries())
	if err != nil {
		return err
	}
	idx.engine = eng
	return nil
}

// Refresh rebinds this index's column references by name, used after a
// shallow table copy re-identifies columns.
func (idx *Index) Refresh(columns []Column) error {
	byName := make(map[string]Column, len(columns))
	for _, c := range columns {
		byName[c.Name()] = c
	}
	rebound := make([]Column, len(idx.columns))
	for i, c := range idx.columns {
		nc, ok := byName[c.Name()]
		if !ok {
			return &ErrColumnNotIndexed{Column: c.Name()}
		}
		rebound[i] = nc
	}
	idx.columns = rebound
	return nil
}

// ColPosition locates an indexed column by name among this index's
// columns.
func (idx *Index) ColPosition(col Column) (int, error) {
	for i, c := range idx.columns {
		if c.Name() == col.Name() {
			return i, nil
		}
	}
	return 0, &ErrColumnNotIndexed{Column: col.Name()}
}

// SortedData returns the argsort of the table by this index's key tuple.
func (idx *Index) SortedData() []int {
	return append([]int(nil), idx.engine.Sort()...)
}

// Length returns the number of (key, row) entries currently indexed.
func (idx *Index) Length() int {
	return idx.engine.Len()
}

// Items returns the engine's key-grouped entries in key order.
func (idx *Index) Items() []KeyRows {
	return idx.engine.Items()
}

// Slice returns a read-mostly SlicedIndex view over [start, stop, step) of
// this index's row coordinates. Never materialises.
func (idx *Index) Slice(start, stop, step int) *SlicedIndex {
	return newSlicedIndex(idx, start, stop, step)
}

// cloneEngine rebuilds a fresh engine of the same kind from e's current
// logical content, used for deep copy: the copy is content-equivalent but
// shares no mutable state with the original.
func cloneEngine(kind EngineKind, unique bool, e Engine) (Engine, error) {
	var entries []Entry
	for _, kr := range e.Items() {
		for _, r := range kr.Rows {
			entries = append(entries, Entry{Key: kr.Key, Row: r})
		}
	}
	return NewEngine(kind, unique, entries)
}

// DeepCopy duplicates the engine contents but shares column references by
// identity: shallow on columns, deep on index data.
func (idx *Index) DeepCopy() (*Index, error) {
	eng, err := cloneEngine(idx.kind, idx.unique, idx.engine)
	if err != nil {
		return nil, err
	}
	return &Index{
		ID:      uuid.New(),
		columns: idx.columns,
		kind:    idx.kind,
		unique:  idx.unique,
		frozen:  idx.frozen,
		engine:  eng,
	}, nil
}
