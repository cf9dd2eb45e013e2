package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/tabindex/pkg/tableindex"
)

func newDemoTable(t *testing.T) *Table {
	t.Helper()
	a := NewColumn("a", []tableindex.Cell{1, 2, 3, 4, 5})
	b := NewColumn("b", []tableindex.Cell{4.0, 5.1, 6.2, 7.0, 1.1})
	c := NewColumn("c", []tableindex.Cell{"7", "8", "9", "10", "11"})
	tbl, err := NewTable("demo", a, b, c)
	require.NoError(t, err)
	return tbl
}

func TestNewTableRejectsMismatchedColumnLengths(t *testing.T) {
	a := NewColumn("a", []tableindex.Cell{1, 2, 3})
	b := NewColumn("b", []tableindex.Cell{1, 2})
	_, err := NewTable("bad", a, b)
	assert.Error(t, err)
	var mismatch *ErrColumnCountMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestAddIndexAndIndices(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, idx.Find(tableindex.Key{2}))
	assert.Len(t, tbl.Indices(), 1)

	_, err = tbl.AddIndex([]string{"nope"}, tableindex.BST)
	assert.Error(t, err)
}

func TestRemoveIndicesDropsOnlyReferencingIndices(t *testing.T) {
	tbl := newDemoTable(t)
	_, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)
	_, err = tbl.AddIndex([]string{"b"}, tableindex.BST)
	require.NoError(t, err)
	require.Len(t, tbl.Indices(), 2)

	tbl.RemoveIndices("a")
	assert.Len(t, tbl.Indices(), 1)
	assert.Equal(t, "b", tbl.Indices()[0].Columns()[0].Name())
}

// TestSetCellOnlyNotifiesIndicesCoveringTheEditedColumn checks that editing
// a column not covered by a given index leaves that index untouched and
// does not error, even though the table has other indices over other
// column sets.
func TestSetCellOnlyNotifiesIndicesCoveringTheEditedColumn(t *testing.T) {
	tbl := newDemoTable(t)
	idxA, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)
	idxB, err := tbl.AddIndex([]string{"b"}, tableindex.BST)
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, "a", 100))

	assert.Equal(t, []int{0}, idxA.Find(tableindex.Key{100}))
	assert.Equal(t, []int{0}, idxB.Find(tableindex.Key{4.0})) // b untouched by the "a" edit
}

func TestIndexModeUnknownNameIsAnError(t *testing.T) {
	tbl := newDemoTable(t)
	_, err := tbl.IndexMode(IndexModeName("bogus"))
	assert.Error(t, err)
	var unknown *ErrUnknownMode
	assert.ErrorAs(t, err, &unknown)
}

// TestTableMutationSequenceKeepsIndexCoherent drives a single-column index
// on "a" through a realistic sequence of cell edits, two appends, and a
// removal, then checks the index's Items() and the edited cells of "a".
func TestTableMutationSequenceKeepsIndexCoherent(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.SortedArray)
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, "a", 4))
	require.NoError(t, tbl.AppendRow(map[string]tableindex.Cell{"a": 6, "b": 6.0, "c": "7"}))
	require.NoError(t, tbl.SetCell(3, "a", 10))
	require.NoError(t, tbl.RemoveRow(2))
	require.NoError(t, tbl.AppendRow(map[string]tableindex.Cell{"a": 4, "b": 5.0, "c": "9"}))

	want := []tableindex.KeyRows{
		{Key: tableindex.Key{2}, Rows: []int{1}},
		{Key: tableindex.Key{4}, Rows: []int{0, 5}},
		{Key: tableindex.Key{5}, Rows: []int{3}},
		{Key: tableindex.Key{6}, Rows: []int{4}},
		{Key: tableindex.Key{10}, Rows: []int{2}},
	}
	assert.Equal(t, want, idx.Items())

	col, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, tableindex.Cell(4), col.At(0))
	assert.Equal(t, tableindex.Cell(10), col.At(2))
}

func TestRemoveRowsTwoPassMatchesColumnsAndIndex(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	require.NoError(t, tbl.RemoveRows(tableindex.RowSpecOfList([]int{0, 2, 4})))

	col, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, 2, col.Len())
	assert.Equal(t, tableindex.Cell(2), col.At(0))
	assert.Equal(t, tableindex.Cell(4), col.At(1))
	assert.Equal(t, []int{0, 1}, idx.SortedData())
}

func TestInsertRowAtPositionShiftsLaterRows(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	require.NoError(t, tbl.InsertRow(2, map[string]tableindex.Cell{"a": 100, "b": 0.0, "c": "x"}))
	col, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, tableindex.Cell(100), col.At(2))
	assert.Equal(t, tableindex.Cell(3), col.At(3)) // old row 2 shifted right
	assert.Equal(t, []int{2}, idx.Find(tableindex.Key{100}))
}

func TestReorderAppliesPermutationToColumnsAndIndex(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	// new row i holds what used to be at perm[i]
	require.NoError(t, tbl.Reorder([]int{4, 3, 2, 1, 0}))
	col, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, tableindex.Cell(5), col.At(0))
	assert.Equal(t, tableindex.Cell(1), col.At(4))
	assert.Equal(t, []int{0}, idx.Find(tableindex.Key{5}))
}

func TestResortRebuildsIndexFromColumns(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	col, err := tbl.Column("a")
	require.NoError(t, err)
	col.Set(0, 999) // bypasses the index hook entirely

	require.NoError(t, tbl.Resort())
	assert.Equal(t, []int{0}, idx.Find(tableindex.Key{999}))
}

func TestDeepCopyClonesColumnsAndDuplicatesIndexData(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	cp, err := tbl.DeepCopy()
	require.NoError(t, err)
	require.Len(t, cp.Indices(), 1)

	require.NoError(t, cp.SetCell(0, "a", 42))
	assert.Equal(t, []int{0}, cp.Indices()[0].Find(tableindex.Key{42}))
	assert.Empty(t, idx.Find(tableindex.Key{42})) // original index untouched

	origCol, err := tbl.Column("a")
	require.NoError(t, err)
	cpCol, err := cp.Column("a")
	require.NoError(t, err)
	assert.NotSame(t, origCol, cpCol) // columns are cloned, not shared
}

func TestDeepCopyDiscardsIndicesWhenFlagSet(t *testing.T) {
	tbl := newDemoTable(t)
	_, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	mode, err := tbl.IndexMode(ModeDiscardOnCopy)
	require.NoError(t, err)
	defer mode.Close()

	cp, err := tbl.DeepCopy()
	require.NoError(t, err)
	assert.Empty(t, cp.Indices())
}

func TestRebindColumnsRefreshesIndices(t *testing.T) {
	tbl := newDemoTable(t)
	idx, err := tbl.AddIndex([]string{"a"}, tableindex.BST)
	require.NoError(t, err)

	newA := NewColumn("a", []tableindex.Cell{1, 2, 3, 4, 5})
	require.NoError(t, tbl.RebindColumns([]*Column{newA, tbl.Columns()[1], tbl.Columns()[2]}))
	assert.Same(t, newA, idx.Columns()[0])
}
