package report

import (
	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

var (
	simpleSummaryWidths = []float64{25, 28, 15, 18, 15, 20}
	simpleDetailWidths  = []float64{18, 20, 13, 9, 9, 9, 10, 29}
	simpleColumnHeaders = []string{"Column Name", "Data Type", "Size", "NULL", "PK", "FK", "Default", "Description"}

	simpleIndexGrid = indexGrid{
		no:       span{0, 0},
		name:     span{1, 2},
		column:   span{3, 4},
		ordering: span{5, 5},
		memo:     span{6, 7},
	}
)

// simpleLayout is the reference report: an eight column detail sheet per
// table and a two column table list.
type simpleLayout struct {
	header Header
}

func (l *simpleLayout) RenderSummarySheet(book *Book, tables []catalog.Table) {
	sheet := book.AddSheet(summarySheet)
	book.SetSheetDimensions(sheet, simpleSummaryWidths...)

	span{0, 5}.write(book, sheet, 0, "Table List", ProfileBold)

	book.WriteText(sheet, 1, 0, "Project", ProfileBold)
	book.WriteText(sheet, 1, 1, "", ProfileCenter)
	book.WriteText(sheet, 1, 2, "Date", ProfileBold)
	book.WriteText(sheet, 1, 3, l.header.Date, ProfileCenter)
	book.WriteText(sheet, 1, 4, "Author", ProfileBold)
	book.WriteText(sheet, 1, 5, "", ProfileCenter)

	book.WriteText(sheet, 2, 0, "Table Name", ProfileBold)
	span{1, 5}.write(book, sheet, 2, "Table Description", ProfileBold)

	row := 3
	for _, table := range tables {
		book.WriteText(sheet, row, 0, table.QualifiedName(), ProfileLeft)
		span{1, 5}.write(book, sheet, row, table.Description, ProfileLeft)
		row++
	}
}

func (l *simpleLayout) RenderDetailSheet(book *Book, def *TableDefinition) {
	sheet := book.AddSheet(def.Table.QualifiedName())
	book.SetSheetDimensions(sheet, simpleDetailWidths...)

	span{0, 7}.write(book, sheet, 0, "Table Definitions", ProfileBold)

	book.WriteText(sheet, 1, 0, "System", ProfileBold)
	book.WriteText(sheet, 1, 1, l.header.SystemName, ProfileCenter)
	book.WriteText(sheet, 1, 2, "Date", ProfileBold)
	book.WriteText(sheet, 1, 3, l.header.Date, ProfileCenter)
	book.WriteText(sheet, 1, 5, "Author", ProfileBold)
	book.WriteText(sheet, 1, 7, "", ProfileCenter)
	book.Merge(sheet, 1, 1, 3, 4)
	book.Merge(sheet, 1, 1, 5, 6)

	book.WriteText(sheet, 2, 0, "Table Name", ProfileBold)
	span{1, 7}.write(book, sheet, 2, def.Table.QualifiedName(), ProfileLeft)

	book.WriteText(sheet, 3, 0, "Table Description", ProfileBold)
	span{1, 7}.write(book, sheet, 3, def.Table.Description, ProfileLeft)

	for col, title := range simpleColumnHeaders {
		book.WriteText(sheet, 4, col, title, ProfileBold)
	}

	row := 5
	for _, column := range def.Columns {
		book.WriteText(sheet, row, 0, column.Name, ProfileLeft)
		book.WriteText(sheet, row, 1, column.TypeName, ProfileLeft)
		book.WriteNumber(sheet, row, 2, column.MaxLength, ProfileRight)
		book.WriteText(sheet, row, 3, yes(!column.Required), ProfileCenter)
		book.WriteText(sheet, row, 4, yes(def.IsPrimaryKey(column.Name)), ProfileCenter)
		book.WriteText(sheet, row, 5, yes(column.ForeignKey), ProfileCenter)
		book.WriteText(sheet, row, 6, column.DefaultValue, ProfileCenter)
		book.WriteText(sheet, row, 7, column.Description, ProfileLeft)
		row++
	}

	simpleIndexGrid.writeSpacer(book, sheet, row)
	row++

	row = simpleIndexGrid.writeIndexes(book, sheet, row, def.Indexes)
	simpleIndexGrid.writeDDL(book, sheet, row, def.DDL)
}
