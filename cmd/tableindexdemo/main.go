// Command tableindexdemo builds a small in-memory table, attaches a
// composite secondary index, and walks it through a sequence of cell edits,
// two appends, and a removal to show the index staying coherent end to end.
package main

import (
	"fmt"
	"log"

	"github.com/kasuganosora/tabindex/pkg/table"
	"github.com/kasuganosora/tabindex/pkg/tableindex"
)

func main() {
	a := table.NewColumn("a", []tableindex.Cell{1, 2, 3, 4, 5})
	b := table.NewColumn("b", []tableindex.Cell{4.0, 5.1, 6.2, 7.0, 1.1})
	c := table.NewColumn("c", []tableindex.Cell{"7", "8", "9", "10", "11"})

	tbl, err := table.NewTable("demo", a, b, c)
	if err != nil {
		log.Fatalf("new table: %v", err)
	}

	idx, err := tbl.AddIndex([]string{"a", "b"}, tableindex.SortedArray)
	if err != nil {
		log.Fatalf("add index: %v", err)
	}

	mustSet(tbl, 0, "a", 4)
	mustAppend(tbl, map[string]tableindex.Cell{"a": 6, "b": 6.0, "c": "7"})
	mustSet(tbl, 3, "a", 10)
	mustRemove(tbl, 2)
	mustAppend(tbl, map[string]tableindex.Cell{"a": 4, "b": 5.0, "c": "9"})

	fmt.Println("items (key -> rows), in index order:")
	for _, kr := range idx.Items() {
		fmt.Printf("  %v -> %v\n", kr.Key, kr.Rows)
	}
}

func mustSet(t *table.Table, row int, col string, val tableindex.Cell) {
	if err := t.SetCell(row, col, val); err != nil {
		log.Fatalf("set cell: %v", err)
	}
}

func mustAppend(t *table.Table, row map[string]tableindex.Cell) {
	if err := t.AppendRow(row); err != nil {
		log.Fatalf("append row: %v", err)
	}
}

func mustRemove(t *table.Table, row int) {
	if err := t.RemoveRow(row); err != nil {
		log.Fatalf("remove row: %v", err)
	}
}
