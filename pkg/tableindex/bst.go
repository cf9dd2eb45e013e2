package tableindex

// bstNode is one node of the tree engine: a key, the sorted list of rows
// sharing that key, parent/child links, and a colour used only when the
// owning engine is balanced (bst.py: Node).
type bstNode struct {
	key          Key
	rows         []int
	left, right, parent *bstNode
	red          bool
}

// bstEngine is the unbalanced BST engine. Setting balanced turns it into
// the red-black variant: insertion and deletion perform the standard
// recolour-and-rotate fix-ups that the unbalanced variant skips. The two
// variants share every other operation, since the red-black tree is simply
// a balance-maintaining variant of the same underlying engine, so there is
// one struct rather than a duplicated implementation.
//
// Leaves and the parent of the root point at a shared sentinel (nilNode)
// rather than Go's nil, so that delete fix-up — which needs a parent
// pointer even for the node that physically replaces a deleted leaf — never
// has to special-case a missing child (the classical CLRS T.nil trick).
type bstEngine struct {
	root    *bstNode
	nilNode *bstNode
	size    int
	unique  bool
	balanced bool
}

func newBSTEngine(entries []Entry, unique, balanced bool) *bstEngine {
	nilN := &bstNode{}
	e := &bstEngine{nilNode: nilN, unique: unique, balanced: balanced}
	e.root = nilN
	for _, ent := range entries {
		e.Add(ent.Key, ent.Row)
	}
	return e
}

func (e *bstEngine) isNil(n *bstNode) bool { return n == nil || n == e.nilNode }

func insertSortedInt(rows []int, row int) []int {
	i := 0
	for i < len(rows) && rows[i] < row {
		i++
	}
	rows = append(rows, 0)
	copy(rows[i+1:], rows[i:])
	rows[i] = row
	return rows
}

func removeIntAt(rows []int, idx int) []int {
	return append(rows[:idx], rows[idx+1:]...)
}

func indexOfInt(rows []int, row int) int {
	for i, r := range rows {
		if r == row {
			return i
		}
	}
	return -1
}

// Add inserts one (key, row) entry. Insertion comparisons
// are between keys of the same declared shape, so an incomparable pair here
// would indicate a caller bug rather than a query-shape soft failure; Add
// does not special-case it.
func (e *bstEngine) Add(key Key, row int) {
	e.size++
	node := &bstNode{key: key, rows: []int{row}, left: e.nilNode, right: e.nilNode, parent: e.nilNode}
	if e.isNil(e.root) {
		e.root = node
		node.red = false
		return
	}
	cur := e.root
	for {
		c, _ := compareKeys(node.key, cur.key)
		switch {
		case c < 0:
			if e.isNil(cur.left) {
				cur.left = node
				node.parent = cur
				goto inserted
			}
			cur = cur.left
		case c > 0:
			if e.isNil(cur.right) {
				cur.right = node
				node.parent = cur
				goto inserted
			}
			cur = cur.right
		default:
			cur.rows = insertSortedInt(cur.rows, row)
			return
		}
	}
inserted:
	if e.balanced {
		node.red = true
		e.insertFixup(node)
	}
}

func (e *bstEngine) leftRotate(x *bstNode) {
	y := x.right
	x.right = y.left
	if !e.isNil(y.left) {
		y.left.parent = x
	}
	y.parent = x.parent
	if e.isNil(x.parent) {
		e.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (e *bstEngine) rightRotate(x *bstNode) {
	y := x.left
	x.left = y.right
	if !e.isNil(y.right) {
		y.right.parent = x
	}
	y.parent = x.parent
	if e.isNil(x.parent) {
		e.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (e *bstEngine) insertFixup(z *bstNode) {
	for z.parent.red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.red {
				z.parent.red = false
				y.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					e.leftRotate(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				e.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.red {
				z.parent.red = false
				y.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					e.rightRotate(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				e.leftRotate(z.parent.parent)
			}
		}
	}
	e.root.red = false
}

func (e *bstEngine) findNode(key Key) *bstNode {
	cur := e.root
	for !e.isNil(cur) {
		c, ok := compareKeys(key, cur.key)
		if !ok {
			return nil
		}
		switch {
		case c == 0:
			return cur
		case c < 0:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

// Find returns all rows for key, sorted ascending, or nil if key is absent
// or incomparable to stored keys.
func (e *bstEngine) Find(key Key) []int {
	n := e.findNode(key)
	if n == nil {
		return nil
	}
	out := make([]int, len(n.rows))
	copy(out, n.rows)
	return out
}

func (e *bstEngine) transplant(u, v *bstNode) {
	if e.isNil(u.parent) {
		e.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (e *bstEngine) maximum(n *bstNode) *bstNode {
	for !e.isNil(n.right) {
		n = n.right
	}
	return n
}

// deleteNode splices a node out of the tree. A node with
// two children is replaced by its in-order predecessor (the rightmost
// descendant of its left subtree): the predecessor node is unlinked from its
// own (at-most-one-child) position and relinked in the deleted node's place,
// taking over its colour; for the balanced variant, fix-up starts from the
// predecessor's old position.
func (e *bstEngine) deleteNode(z *bstNode) {
	y := z
	yWasRed := y.red
	var x *bstNode

	if e.isNil(z.left) {
		x = z.right
		e.transplant(z, z.right)
	} else if e.isNil(z.right) {
		x = z.left
		e.transplant(z, z.left)
	} else {
		pred := e.maximum(z.left)
		y = pred
		yWasRed = y.red
		x = y.left
		if y.parent == z {
			x.parent = y
		} else {
			e.transplant(y, y.left)
			y.left = z.left
			y.left.parent = y
		}
		e.transplant(z, y)
		y.right = z.right
		y.right.parent = y
		y.red = z.red
		z.key = pred.key
		z.rows = pred.rows
		// z is no longer linked into the tree; y, the predecessor node with
		// its own key/rows, now occupies z's old position, and x sits in y's
		// original slot.
	}

	if e.balanced && !yWasRed {
		e.deleteFixup(x)
	}
}

func (e *bstEngine) deleteFixup(x *bstNode) {
	for x != e.root && !x.red {
		if x == x.parent.left {
			w := x.parent.right
			if w.red {
				w.red = false
				x.parent.red = true
				e.leftRotate(x.parent)
				w = x.parent.right
			}
			if !w.left.red && !w.right.red {
				w.red = true
				x = x.parent
			} else {
				if !w.right.red {
					w.left.red = false
					w.red = true
					e.rightRotate(w)
					w = x.parent.right
				}
				w.red = x.parent.red
				x.parent.red = false
				w.right.red = false
				e.leftRotate(x.parent)
				x = e.root
			}
		} else {
			w := x.parent.left
			if w.red {
				w.red = false
				x.parent.red = true
				e.rightRotate(x.parent)
				w = x.parent.left
			}
			if !w.right.red && !w.left.red {
				w.red = true
				x = x.parent
			} else {
				if !w.left.red {
					w.right.red = false
					w.red = true
					e.leftRotate(w)
					w = x.parent.left
				}
				w.red = x.parent.red
				x.parent.red = false
				w.left.red = false
				e.rightRotate(x.parent)
				x = e.root
			}
		}
	}
	x.red = false
}

// Remove deletes the single (key, row) entry.
func (e *bstEngine) Remove(key Key, row int) (bool, error) {
	n := e.findNode(key)
	if n == nil {
		return false, nil
	}
	if len(n.rows) > 1 {
		idx := indexOfInt(n.rows, row)
		if idx < 0 {
			return false, NewErrRowNotInKey(key, row)
		}
		n.rows = removeIntAt(n.rows, idx)
		e.size--
		return true, nil
	}
	if n.rows[0] != row {
		return false, NewErrRowNotInKey(key, row)
	}
	e.deleteNode(n)
	e.size--
	return true, nil
}

// RemoveKey deletes every entry with key.
func (e *bstEngine) RemoveKey(key Key) bool {
	n := e.findNode(key)
	if n == nil {
		return false
	}
	e.size -= len(n.rows)
	e.deleteNode(n)
	return true
}

// ShiftLeft and ShiftRight rewrite row numbers in a full traversal; they
// never restructure the tree because row numbers are not keys.
func (e *bstEngine) ShiftLeft(row int) {
	e.eachNode(func(n *bstNode) {
		for i, r := range n.rows {
			if r > row {
				n.rows[i] = r - 1
			}
		}
	})
}

func (e *bstEngine) ShiftRight(row int) {
	e.eachNode(func(n *bstNode) {
		for i, r := range n.rows {
			if r >= row {
				n.rows[i] = r + 1
			}
		}
	})
}

func (e *bstEngine) eachNode(f func(*bstNode)) {
	e.inorder(e.root, f)
}

func (e *bstEngine) inorder(n *bstNode, f func(*bstNode)) {
	if e.isNil(n) {
		return
	}
	e.inorder(n.left, f)
	f(n)
	e.inorder(n.right, f)
}

// ReplaceRows applies a positional row renumbering: every entry whose row
// is a key of rowMap is renumbered, every other entry is dropped.
func (e *bstEngine) ReplaceRows(rowMap map[int]int) {
	newSize := 0
	var empties []*bstNode
	e.eachNode(func(n *bstNode) {
		kept := n.rows[:0]
		for _, r := range n.rows {
			if nr, ok := rowMap[r]; ok {
				kept = append(kept, nr)
			}
		}
		sortInts(kept)
		n.rows = kept
		if len(kept) == 0 {
			empties = append(empties, n)
		} else {
			newSize += len(kept)
		}
	})
	for _, n := range empties {
		e.deleteNode(n)
	}
	e.size = newSize
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

// Sort returns the argsort: all rows in in-order key sequence.
func (e *bstEngine) Sort() []int {
	var out []int
	e.eachNode(func(n *bstNode) {
		out = append(out, n.rows...)
	})
	return out
}

// Items returns key-grouped entries in in-order key sequence.
func (e *bstEngine) Items() []KeyRows {
	var out []KeyRows
	e.eachNode(func(n *bstNode) {
		rows := make([]int, len(n.rows))
		copy(rows, n.rows)
		out = append(out, KeyRows{Key: n.key, Rows: rows})
	})
	return out
}

func (e *bstEngine) Len() int { return e.size }

// Range returns all rows whose key lies in [lo, hi] (or a less-inclusive
// variant per bounds), using a pruned recursion: descend left only if the
// current key could still be above lo, right only if it could still be
// below hi.
func (e *bstEngine) Range(lo, hi Key, bounds Bounds) []int {
	var out []int
	e.rangeRecurse(e.root, lo, hi, bounds, &out)
	return out
}

func (e *bstEngine) rangeRecurse(n *bstNode, lo, hi Key, bounds Bounds, out *[]int) {
	if e.isNil(n) {
		return
	}
	cLo, okLo := compareKeys(lo, n.key)
	cHi, okHi := compareKeys(n.key, hi)
	if okLo && okHi {
		loOK := cLo < 0 || (bounds.LeftClosed && cLo == 0)
		hiOK := cHi < 0 || (bounds.RightClosed && cHi == 0)
		if loOK && hiOK {
			*out = append(*out, n.rows...)
		}
	}
	if cHi, ok := compareKeys(n.key, hi); !ok || cHi < 0 {
		e.rangeRecurse(n.right, lo, hi, bounds, out)
	}
	if cLo, ok := compareKeys(n.key, lo); !ok || cLo > 0 {
		e.rangeRecurse(n.left, lo, hi, bounds, out)
	}
}

// SamePrefix returns all rows whose key has prefix as an element-wise
// prefix, using the same pruned-recursion shape as Range but comparing
// only the first len(prefix) elements of each key.
func (e *bstEngine) SamePrefix(prefix Key) []int {
	var out []int
	e.samePrefixRecurse(e.root, prefix, &out)
	return out
}

func (e *bstEngine) samePrefixRecurse(n *bstNode, prefix Key, out *[]int) {
	if e.isNil(n) {
		return
	}
	truncated := n.key
	if len(truncated) > len(prefix) {
		truncated = truncated[:len(prefix)]
	}
	c, ok := compareKeys(truncated, prefix)
	if ok && c == 0 {
		*out = append(*out, n.rows...)
	}
	if !ok || c <= 0 {
		e.samePrefixRecurse(n.right, prefix, out)
	}
	if !ok || c >= 0 {
		e.samePrefixRecurse(n.left, prefix, out)
	}
}

// IsValid recursively confirms the in-order property holds; a testing aid
// (bst.py: BST.is_valid), exported because it is useful beyond this
// package's own tests for anyone embedding a tree engine directly.
func (e *bstEngine) IsValid() bool {
	return e.isValid(e.root)
}

func (e *bstEngine) isValid(n *bstNode) bool {
	if e.isNil(n) {
		return true
	}
	if !e.isNil(n.left) {
		if c, ok := compareKeys(n.left.key, n.key); ok && c > 0 {
			return false
		}
	}
	if !e.isNil(n.right) {
		if c, ok := compareKeys(n.right.key, n.key); ok && c < 0 {
			return false
		}
	}
	return e.isValid(n.left) && e.isValid(n.right)
}
