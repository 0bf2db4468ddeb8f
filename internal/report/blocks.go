package report

import (
	"strings"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

type span struct {
	from, to int
}

func (s span) write(book *Book, sheet string, row int, text string, p Profile) {
	book.WriteText(sheet, row, s.from, text, p)
	book.Merge(sheet, row, row, s.from, s.to)
}

// indexGrid places the index block's fields on the sheet's columns.
type indexGrid struct {
	no       span
	name     span
	column   span
	ordering span
	memo     span
}

func (g indexGrid) last() int {
	return g.memo.to
}

// writeSpacer writes one blank bordered row across the grid.
func (g indexGrid) writeSpacer(book *Book, sheet string, row int) {
	for col := 0; col <= g.last(); col++ {
		book.WriteText(sheet, row, col, "", ProfileCenter)
	}
}

// writeIndexes renders the index block starting at row and returns the row
// after it: title, header, one row per index column, and the closing spacer.
func (g indexGrid) writeIndexes(book *Book, sheet string, row int, indexes []catalog.IndexDefinition) int {
	full := span{0, g.last()}
	full.write(book, sheet, row, "Definition of indexes", ProfileBold)
	row++

	g.no.write(book, sheet, row, "NO", ProfileBold)
	g.name.write(book, sheet, row, "Index Name", ProfileBold)
	g.column.write(book, sheet, row, "Column ID", ProfileBold)
	g.ordering.write(book, sheet, row, "Ordering", ProfileBold)
	g.memo.write(book, sheet, row, "Memo", ProfileBold)
	row++

	var indexNo int64 = 1
	for _, index := range indexes {
		first := row
		for i, col := range index.Columns {
			if i == 0 {
				book.WriteNumber(sheet, row, g.no.from, indexNo, ProfileCenter)
				book.WriteText(sheet, row, g.name.from, index.Name, ProfileLeft)
				indexNo++
			} else {
				book.WriteText(sheet, row, g.no.from, "", ProfileCenter)
				book.WriteText(sheet, row, g.name.from, "", ProfileLeft)
			}
			g.column.write(book, sheet, row, col.ColumnName, ProfileLeft)
			book.WriteNumber(sheet, row, g.ordering.from, int64(col.Ordinal), ProfileCenter)
			book.Merge(sheet, row, row, g.ordering.from, g.ordering.to)
			g.memo.write(book, sheet, row, "", ProfileCenter)
			row++
		}
		if row == first {
			continue
		}

		last := row - 1
		if len(index.Columns) > 1 {
			book.Merge(sheet, first, last, g.no.from, g.no.to)
		}
		book.Merge(sheet, first, last, g.name.from, g.name.to)
	}

	g.writeSpacer(book, sheet, row)
	book.Merge(sheet, row, row, g.name.from, g.name.to)
	book.Merge(sheet, row, row, g.column.from, g.column.to)
	book.Merge(sheet, row, row, g.memo.from, g.memo.to)
	return row + 1
}

// writeDDL renders the DDL title and text rows, sizing the text row to the
// number of lines in ddl.
func (g indexGrid) writeDDL(book *Book, sheet string, row int, ddl string) int {
	full := span{0, g.last()}
	full.write(book, sheet, row, "DDL", ProfileBold)
	row++

	full.write(book, sheet, row, ddl, ProfileLeft)
	book.SetRowHeightLines(sheet, row, len(strings.Split(ddl, "\n")))
	return row + 1
}
