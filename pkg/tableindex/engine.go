package tableindex

// EngineKind identifies which ordered-map backing structure an Index uses.
// Unknown kinds fail at index creation time rather than silently falling
// back to another engine.
type EngineKind string

const (
	// BST is the unbalanced binary search tree engine.
	BST EngineKind = "BST"
	// RBT is the red-black tree variant of the BST engine.
	RBT EngineKind = "RBT"
	// SortedArray is the array-backed, binary-search engine.
	SortedArray EngineKind = "SortedArray"
)

// Bounds gives the inclusivity of a Range query's two endpoints: the first
// element is whether the lower bound is closed (<=), the second whether the
// upper bound is closed (<=). (false, false) makes both bounds exclusive.
type Bounds struct {
	LeftClosed  bool
	RightClosed bool
}

// ClosedBounds is the default, fully-inclusive [lo, hi] range.
var ClosedBounds = Bounds{LeftClosed: true, RightClosed: true}

// Entry is one (key, row) pair, used to bulk-load an engine.
type Entry struct {
	Key Key
	Row int
}

// KeyRows is one distinct key and the (ascending) rows that share it, as
// returned by Engine.Items in key order.
type KeyRows struct {
	Key  Key
	Rows []int
}

// Engine is the contract every ordered-map backing structure satisfies, so
// Index can be engine-agnostic. Add, Find and Remove cost time proportional
// to the tree height in the tree engines (O(log N) for RBT); ShiftLeft,
// ShiftRight, ReplaceRows, Sort and Items visit every entry in every engine.
// The sorted-array engine trades O(N) writes for faster bulk construction
// and reads.
type Engine interface {
	// Add inserts one (key, row) entry. Must not invalidate outstanding
	// row numbers held elsewhere in the engine.
	Add(key Key, row int)

	// Find returns all rows whose key equals key, sorted ascending. It
	// returns an empty slice (never an error) both when the key is absent
	// and when key is not comparable to stored keys.
	Find(key Key) []int

	// Range returns all rows whose key lies between lo and hi with the
	// given inclusivity. The result is unordered; callers sort if needed.
	Range(lo, hi Key, bounds Bounds) []int

	// SamePrefix returns all rows whose key has prefix as an element-wise
	// prefix.
	SamePrefix(prefix Key) []int

	// Remove deletes the single (key, row) entry. It returns false only
	// when key is absent entirely; if key is present but row is not one of
	// its rows, it returns an ErrInvariantViolation.
	Remove(key Key, row int) (bool, error)

	// RemoveKey deletes every entry with the given key, returning false
	// if the key is absent.
	RemoveKey(key Key) bool

	// ShiftLeft subtracts 1 from every stored row number strictly greater
	// than row.
	ShiftLeft(row int)

	// ShiftRight adds 1 to every stored row number greater than or equal
	// to row.
	ShiftRight(row int)

	// ReplaceRows sets every stored row r to rowMap[r] when present, and
	// drops entries whose row is absent from rowMap.
	ReplaceRows(rowMap map[int]int)

	// Sort returns all rows in in-order key sequence (the argsort).
	Sort() []int

	// Items returns key-grouped entries in in-order key sequence.
	Items() []KeyRows

	// Len returns the number of (key, row) entries, not the number of
	// distinct keys.
	Len() int
}

// NewEngine bulk-loads a fresh engine of the given kind from entries. It is
// the single dispatch point new engine kinds must be added to; an unknown
// kind is a caller error, not a silent downgrade.
func NewEngine(kind EngineKind, unique bool, entries []Entry) (Engine, error) {
	switch kind {
	case BST:
		return newBSTEngine(entries, unique, false), nil
	case RBT:
		return newBSTEngine(entries, unique, true), nil
	case SortedArray:
		return newSortedArrayEngine(entries, unique), nil
	default:
		return nil, newErrInvalidArgument("unknown engine kind %q", kind)
	}
}
