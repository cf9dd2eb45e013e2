package tableindex

// ModeFlags bundles the three index policy toggles a host table holds for
// the duration of a scope:
//
//   - Freeze suppresses every index hook (AddRow/RemoveRow/Replace/...)
//     become no-ops while set, so a caller can perform a batch of column
//     edits without paying per-edit index maintenance, then resynchronise
//     once at the end via Close.
//   - DiscardOnCopy tells a host table's DeepCopy path to omit indices
//     from the copy entirely, rather than deep-copying them.
//   - CopyOnGetItem tells a host table's row/column accessor to return an
//     independent copy instead of a view sharing index state.
//
// This package only implements Freeze's effect on indices directly;
// DiscardOnCopy and CopyOnGetItem are left to the host table, which owns
// copy and accessor semantics. pkg/table reads DiscardOnCopy in DeepCopy;
// it has no row or column slicing accessor and does not read
// CopyOnGetItem.
type ModeFlags struct {
	Freeze        bool
	DiscardOnCopy bool
	CopyOnGetItem bool
}

// Mode is a scoped override of a table's index policy flags. Entering a
// Mode is cooperative and single-threaded, like the rest of this package
// (doc.go): nothing here guards against concurrent use by more than one
// goroutine.
type Mode struct {
	target   *ModeFlags
	previous ModeFlags
	indices  []*Index
}

// EnterMode overrides target's flags with next for the lifetime of the
// returned Mode. Callers must call Close exactly once, typically via
// defer, to guarantee restoration on every exit path including a panic
// unwinding past the call site:
//
//	mode := tableindex.EnterMode(&tbl.flags, tableindex.ModeFlags{Freeze: true}, tbl.Indices())
//	defer mode.Close()
//
// Entering with Freeze true additionally freezes every index in indices;
// Close unfreezes and reloads them, so edits made to the underlying
// columns while frozen become visible in the index again. Nested
// EnterMode calls compose correctly: each Mode remembers and restores only
// the flags in effect when it was entered.
func EnterMode(target *ModeFlags, next ModeFlags, indices []*Index) *Mode {
	m := &Mode{target: target, previous: *target, indices: indices}
	*target = next
	if next.Freeze && !m.previous.Freeze {
		for _, idx := range indices {
			idx.SetFrozen(true)
		}
	}
	return m
}

// Close restores the flags in effect before EnterMode. If doing so turns
// freezing off, every index passed to EnterMode is unfrozen and reloaded
// from current column contents.
func (m *Mode) Close() error {
	wasFrozen := m.target.Freeze
	*m.target = m.previous
	if wasFrozen && !m.target.Freeze {
		for _, idx := range m.indices {
			idx.SetFrozen(false)
			if err := idx.Reload(); err != nil {
				return err
			}
		}
	}
	return nil
}
