package tableindex

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// stringCollator orders string cells the way a real table's text column
// would under its default locale, rather than by raw byte value. A single
// package-level collator is safe to share: collate.Collator.Compare takes
// no mutable state across calls other than internal scratch buffers that
// are reset per call.
var stringCollator = collate.New(language.Und)

// compareRaw orders two non-sentinel cells. It returns ok=false when the
// values are not of comparable kinds; callers treat !ok as "no match"
// rather than panicking.
func compareRaw(a, b Cell) (int, bool) {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return stringCollator.CompareString(av, bv), true
		}
		return 0, false
	case bool:
		if bv, ok := b.(bool); ok {
			if av == bv {
				return 0, true
			}
			if !av && bv {
				return -1, true
			}
			return 1, true
		}
		return 0, false
	}
	return 0, false
}

// asFloat extracts a float64 view of any of the numeric kinds a column cell
// may hold, so that e.g. an int column compares correctly against an int64
// or float64 literal supplied in a query key.
func asFloat(c Cell) (float64, bool) {
	switch v := c.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// compareCells orders one key element, resolving the sentinel rules in
// sentinel.go before falling back to compareRaw for plain values.
func compareCells(a, b Cell) (int, bool) {
	aRank, aIsEdge := sentinelRank(a)
	bRank, bIsEdge := sentinelRank(b)
	if aIsEdge || bIsEdge {
		if aIsEdge && bIsEdge {
			switch {
			case aRank < bRank:
				return -1, true
			case aRank > bRank:
				return 1, true
			default:
				return 0, true
			}
		}
		if aIsEdge {
			if aRank < 0 {
				return -1, true
			}
			return 1, true
		}
		if bRank < 0 {
			return 1, true
		}
		return -1, true
	}

	aEps, aIsEps := a.(epsilonValue)
	bEps, bIsEps := b.(epsilonValue)
	switch {
	case aIsEps && bIsEps:
		c, ok := compareRaw(aEps.val, bEps.val)
		if !ok {
			return 0, false
		}
		if c == 0 {
			// Epsilon is never equal to anything, including another Epsilon;
			// break the tie arbitrarily but consistently.
			return 1, true
		}
		return c, true
	case aIsEps:
		c, ok := compareRaw(aEps.val, b)
		if !ok {
			return 0, false
		}
		if c == 0 {
			return 1, true
		}
		return c, true
	case bIsEps:
		c, ok := compareRaw(a, bEps.val)
		if !ok {
			return 0, false
		}
		if c == 0 {
			return -1, true
		}
		return c, true
	}

	return compareRaw(a, b)
}

// compareKeys orders two key tuples lexicographically. ok is false if an
// element pair reached before the first differing element is incomparable,
// in which case the caller (engine find/range) must treat the query as a
// soft failure rather than raising.
func compareKeys(a, b Key) (int, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		c, ok := compareCells(a[i], b[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	switch {
	case len(a) < len(b):
		return -1, true
	case len(a) > len(b):
		return 1, true
	default:
		return 0, true
	}
}

// keysEqual reports whether two keys compare equal, treating any
// incomparable element pair as "not equal" (the soft-failure rule applied
// to equality rather than ordering).
func keysEqual(a, b Key) bool {
	c, ok := compareKeys(a, b)
	return ok && c == 0
}
