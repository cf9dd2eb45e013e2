package table

import "github.com/kasuganosora/tabindex/pkg/tableindex"

// Column is an in-memory, named sequence of cell values backing one field
// of a Table. It satisfies tableindex.Column directly, so every Index
// built over a Table's columns reads cells without a translation layer
// (grounded on domain.Row's map[string]interface{} row shape, adapted to a
// columnar rather than row-oriented store since indices key off columns).
type Column struct {
	name string
	data []tableindex.Cell
}

// NewColumn creates a column from its initial contents.
func NewColumn(name string, data []tableindex.Cell) *Column {
	return &Column{name: name, data: append([]tableindex.Cell(nil), data...)}
}

// Name returns the column's name.
func (c *Column) Name() string { return c.name }

// At returns the cell at row.
func (c *Column) At(row int) tableindex.Cell { return c.data[row] }

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.data) }

// Set overwrites the cell at row.
func (c *Column) Set(row int, val tableindex.Cell) { c.data[row] = val }

// insertAt inserts val at pos, shifting later cells right by one.
func (c *Column) insertAt(pos int, val tableindex.Cell) {
	c.data = append(c.data, nil)
	copy(c.data[pos+1:], c.data[pos:])
	c.data[pos] = val
}

// removeAt deletes the cell at row, shifting later cells left by one.
func (c *Column) removeAt(row int) {
	c.data = append(c.data[:row], c.data[row+1:]...)
}

// reorder rewrites the column's storage so new row i holds the value that
// used to live at perm[i] (table.go: Reorder).
func (c *Column) reorder(perm []int) {
	next := make([]tableindex.Cell, len(perm))
	for i, old := range perm {
		next[i] = c.data[old]
	}
	c.data = next
}
