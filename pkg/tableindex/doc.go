// Package tableindex implements a secondary-index subsystem for in-memory
// tabular data: ordered indices over a table's columns that answer
// equality, range, and prefix lookups in logarithmic time and support
// sorted iteration without re-sorting.
//
// The package is engine-agnostic: an Index binds a column tuple to one of
// three interchangeable ordered-map engines (EngineKind BST, RBT, or
// SortedArray) and keeps the engine coherent as the host table's rows
// are inserted, removed, edited, reordered, or sliced.
//
// The subsystem is single-threaded and cooperative: no Index method
// suspends, and concurrent writers must be serialized by the caller.
package tableindex
