package tableindex

import "sort"

// sourceIndex is the subset of Index's behaviour a SlicedIndex composes
// over. Both *Index and *SlicedIndex satisfy it, so slicing a slice just
// works without the view needing to know whether its parent is a root
// index or another view (index.py: SlicedIndex wraps either).
type sourceIndex interface {
	Find(key Key) []int
	Range(lo, hi Key, bounds Bounds) []int
	SamePrefix(prefix Key) []int
	SortedData() []int
	Replace(r int, col Column, val Cell) error
	ColPosition(col Column) (int, error)
	Columns() []Column
	Length() int
}

// SlicedIndex is a coordinate-translating, non-materialising view over a
// strided (start, stop, step) subset of a parent index's row space. It never copies
// engine state: every query is answered by querying the parent in its own
// coordinate space and translating the result.
type SlicedIndex struct {
	parent            sourceIndex
	start, stop, step int
	length            int
}

func strideLength(start, stop, step int) int {
	switch {
	case step > 0:
		if stop <= start {
			return 0
		}
		return (stop - start + step - 1) / step
	case step < 0:
		if stop >= start {
			return 0
		}
		return (start - stop - step - 1) / (-step)
	default:
		return 0
	}
}

func newSlicedIndex(parent sourceIndex, start, stop, step int) *SlicedIndex {
	return &SlicedIndex{
		parent: parent,
		start:  start,
		stop:   stop,
		step:   step,
		length: strideLength(start, stop, step),
	}
}

// Length returns the number of rows visible through this view.
func (si *SlicedIndex) Length() int { return si.length }

// Start, Stop, and Step expose the view's affine parameters, in the
// parent's coordinate space.
func (si *SlicedIndex) Start() int { return si.start }
func (si *SlicedIndex) Stop() int  { return si.stop }
func (si *SlicedIndex) Step() int  { return si.step }

// Columns forwards to the parent's column tuple.
func (si *SlicedIndex) Columns() []Column { return si.parent.Columns() }

// origCoord maps a row position within this view to the parent's
// coordinate space (index.py: SlicedIndex.orig_coords, singular form).
func (si *SlicedIndex) origCoord(sliceRow int) int {
	return si.start + sliceRow*si.step
}

// slicedCoord maps a row in the parent's coordinate space to this view's
// row space, reporting ok=false when the row falls outside the view or
// does not land on one of its strided positions (index.py:
// SlicedIndex.sliced_coords, singular form).
func (si *SlicedIndex) slicedCoord(origRow int) (int, bool) {
	if si.step == 0 {
		return 0, false
	}
	diff := origRow - si.start
	if diff%si.step != 0 {
		return 0, false
	}
	idx := diff / si.step
	if idx < 0 || idx >= si.length {
		return 0, false
	}
	return idx, true
}

// translate maps a set of parent-space rows into this view's row space,
// dropping rows outside the view and re-sorting ascending (ascending
// parent order need not imply ascending view order when step is
// negative).
func (si *SlicedIndex) translate(origRows []int) []int {
	var out []int
	for _, r := range origRows {
		if sr, ok := si.slicedCoord(r); ok {
			out = append(out, sr)
		}
	}
	sort.Ints(out)
	return out
}

// filterMap is translate without the final sort, for call sites (SortedData)
// where the parent's ordering must be preserved rather than re-sorted by
// row number.
func (si *SlicedIndex) filterMap(origRows []int) []int {
	var out []int
	for _, r := range origRows {
		if sr, ok := si.slicedCoord(r); ok {
			out = append(out, sr)
		}
	}
	return out
}

// Find returns all view-space rows whose key equals key.
func (si *SlicedIndex) Find(key Key) []int {
	if si.length <= 0 {
		return nil
	}
	return si.translate(si.parent.Find(key))
}

// Range returns all view-space rows whose key lies within [lo, hi] per
// bounds.
func (si *SlicedIndex) Range(lo, hi Key, bounds Bounds) []int {
	if si.length <= 0 {
		return nil
	}
	return si.translate(si.parent.Range(lo, hi, bounds))
}

// SamePrefix returns all view-space rows whose key has prefix as an
// element-wise prefix.
func (si *SlicedIndex) SamePrefix(prefix Key) []int {
	if si.length <= 0 {
		return nil
	}
	return si.translate(si.parent.SamePrefix(prefix))
}

// SortedData returns the argsort of the view by key, in view-space row
// numbers, preserving the parent's key ordering.
func (si *SlicedIndex) SortedData() []int {
	if si.length <= 0 {
		return nil
	}
	return si.filterMap(si.parent.SortedData())
}

// Replace edits the cell at view-space row r, translating to the parent's
// coordinate space before delegating.
func (si *SlicedIndex) Replace(r int, col Column, val Cell) error {
	if r < 0 || r >= si.length {
		return newErrInvalidArgument("replace: row %d out of bounds for a view of length %d", r, si.length)
	}
	return si.parent.Replace(si.origCoord(r), col, val)
}

// ColPosition forwards to the parent index.
func (si *SlicedIndex) ColPosition(col Column) (int, error) {
	return si.parent.ColPosition(col)
}

// Slice composes a nested view: the new view's affine parameters are
// expressed directly in the root's coordinate space, so an arbitrarily
// deep chain of slices never adds a layer of indirection to a query.
func (si *SlicedIndex) Slice(start, stop, step int) *SlicedIndex {
	return newSlicedIndex(si.parent, si.origCoord(start), si.origCoord(stop), si.step*step)
}
