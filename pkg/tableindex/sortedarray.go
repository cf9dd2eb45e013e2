package tableindex

import "sort"

// sortedArrayEngine stores entries as two parallel, ascending-ordered
// slices: keys[i] is the key of the i-th entry, rows[i] its row number.
// Ties among equal keys are broken by ascending row number, so entries are
// ordered by (key, row) as a single composite.
//
// Mutation is linear per operation; bulk construction sorts once and reads
// binary-search — fastest of the three engines for read-mostly, bulk-loaded
// indices, at the cost of linear-time writes.
type sortedArrayEngine struct {
	keys   []Key
	rows   []int
	unique bool
}

func newSortedArrayEngine(entries []Entry, unique bool) *sortedArrayEngine {
	e := &sortedArrayEngine{unique: unique}
	e.keys = make([]Key, len(entries))
	e.rows = make([]int, len(entries))
	for i, ent := range entries {
		e.keys[i] = ent.Key
		e.rows[i] = ent.Row
	}
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return e.less(order[i], order[j])
	})
	sortedKeys := make([]Key, len(entries))
	sortedRows := make([]int, len(entries))
	for i, idx := range order {
		sortedKeys[i] = e.keys[idx]
		sortedRows[i] = e.rows[idx]
	}
	e.keys = sortedKeys
	e.rows = sortedRows
	return e
}

// less compares the composite (key, row) order of entry i against entry j,
// by original-array index; used only during the initial bulk sort.
func (e *sortedArrayEngine) less(i, j int) bool {
	c, ok := compareKeys(e.keys[i], e.keys[j])
	if !ok || c != 0 {
		return ok && c < 0
	}
	return e.rows[i] < e.rows[j]
}

// lowerBound returns the index of the first entry whose key is >= key.
func (e *sortedArrayEngine) lowerBound(key Key) int {
	return sort.Search(len(e.keys), func(i int) bool {
		c, ok := compareKeys(e.keys[i], key)
		return !ok || c >= 0
	})
}

// upperBound returns the index of the first entry whose key is > key.
func (e *sortedArrayEngine) upperBound(key Key) int {
	return sort.Search(len(e.keys), func(i int) bool {
		c, ok := compareKeys(e.keys[i], key)
		return !ok || c > 0
	})
}

// Add inserts one (key, row) entry, maintaining (key, row) order.
func (e *sortedArrayEngine) Add(key Key, row int) {
	lo := e.lowerBound(key)
	hi := lo
	for hi < len(e.keys) {
		c, ok := compareKeys(e.keys[hi], key)
		if ok && c == 0 {
			hi++
			continue
		}
		break
	}
	pos := lo
	for pos < hi && e.rows[pos] < row {
		pos++
	}
	e.keys = append(e.keys, nil)
	copy(e.keys[pos+1:], e.keys[pos:])
	e.keys[pos] = key
	e.rows = append(e.rows, 0)
	copy(e.rows[pos+1:], e.rows[pos:])
	e.rows[pos] = row
}

// Find returns all rows whose key equals key, sorted ascending (they are
// already contiguous and row-ordered in the backing arrays).
func (e *sortedArrayEngine) Find(key Key) []int {
	lo := e.lowerBound(key)
	if lo >= len(e.keys) {
		return nil
	}
	if c, ok := compareKeys(e.keys[lo], key); !ok || c != 0 {
		return nil
	}
	hi := e.upperBound(key)
	out := make([]int, hi-lo)
	copy(out, e.rows[lo:hi])
	return out
}

// Range returns all rows whose key lies within [lo, hi] per bounds.
func (e *sortedArrayEngine) Range(lo, hi Key, bounds Bounds) []int {
	var start int
	if bounds.LeftClosed {
		start = e.lowerBound(lo)
	} else {
		start = e.upperBound(lo)
	}
	var end int
	if bounds.RightClosed {
		end = e.upperBound(hi)
	} else {
		end = e.lowerBound(hi)
	}
	if start >= end {
		return nil
	}
	out := make([]int, end-start)
	copy(out, e.rows[start:end])
	return out
}

// SamePrefix returns all rows whose key has prefix as an element-wise
// prefix, located via binary search on the truncated comparison.
func (e *sortedArrayEngine) SamePrefix(prefix Key) []int {
	truncate := func(k Key) Key {
		if len(k) > len(prefix) {
			return k[:len(prefix)]
		}
		return k
	}
	start := sort.Search(len(e.keys), func(i int) bool {
		c, ok := compareKeys(truncate(e.keys[i]), prefix)
		return !ok || c >= 0
	})
	end := sort.Search(len(e.keys), func(i int) bool {
		c, ok := compareKeys(truncate(e.keys[i]), prefix)
		return !ok || c > 0
	})
	if start >= end {
		return nil
	}
	out := make([]int, end-start)
	copy(out, e.rows[start:end])
	return out
}

// Remove deletes the single (key, row) entry.
func (e *sortedArrayEngine) Remove(key Key, row int) (bool, error) {
	lo := e.lowerBound(key)
	hi := e.upperBound(key)
	if lo >= hi {
		return false, nil
	}
	for i := lo; i < hi; i++ {
		if e.rows[i] == row {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return true, nil
		}
	}
	return false, NewErrRowNotInKey(key, row)
}

// RemoveKey deletes every entry with key.
func (e *sortedArrayEngine) RemoveKey(key Key) bool {
	lo := e.lowerBound(key)
	hi := e.upperBound(key)
	if lo >= hi {
		return false
	}
	e.keys = append(e.keys[:lo], e.keys[hi:]...)
	e.rows = append(e.rows[:lo], e.rows[hi:]...)
	return true
}

// ShiftLeft and ShiftRight are vectorised column-wise rewrites over the
// rows array.
func (e *sortedArrayEngine) ShiftLeft(row int) {
	for i, r := range e.rows {
		if r > row {
			e.rows[i] = r - 1
		}
	}
}

func (e *sortedArrayEngine) ShiftRight(row int) {
	for i, r := range e.rows {
		if r >= row {
			e.rows[i] = r + 1
		}
	}
}

// ReplaceRows renumbers rows per rowMap, dropping entries absent from it,
// then restores (key, row) order since renumbering can break the tie-break
// invariant within an equal-key run.
func (e *sortedArrayEngine) ReplaceRows(rowMap map[int]int) {
	newKeys := e.keys[:0]
	newRows := e.rows[:0]
	for i, r := range e.rows {
		if nr, ok := rowMap[r]; ok {
			newKeys = append(newKeys, e.keys[i])
			newRows = append(newRows, nr)
		}
	}
	e.keys = newKeys
	e.rows = newRows

	order := make([]int, len(e.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return e.less(order[i], order[j])
	})
	sortedKeys := make([]Key, len(e.rows))
	sortedRows := make([]int, len(e.rows))
	for i, idx := range order {
		sortedKeys[i] = e.keys[idx]
		sortedRows[i] = e.rows[idx]
	}
	e.keys = sortedKeys
	e.rows = sortedRows
}

// Sort returns the argsort: all rows in ascending key order (already the
// engine's own storage order).
func (e *sortedArrayEngine) Sort() []int {
	out := make([]int, len(e.rows))
	copy(out, e.rows)
	return out
}

// Items groups consecutive equal keys (the arrays are already sorted by
// key) into key-rows pairs.
func (e *sortedArrayEngine) Items() []KeyRows {
	var out []KeyRows
	i := 0
	for i < len(e.keys) {
		j := i + 1
		for j < len(e.keys) {
			c, ok := compareKeys(e.keys[j], e.keys[i])
			if !(ok && c == 0) {
				break
			}
			j++
		}
		rows := make([]int, j-i)
		copy(rows, e.rows[i:j])
		out = append(out, KeyRows{Key: e.keys[i], Rows: rows})
		i = j
	}
	return out
}

func (e *sortedArrayEngine) Len() int { return len(e.rows) }
