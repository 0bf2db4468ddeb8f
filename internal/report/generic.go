package report

import (
	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

var (
	genericSummaryWidths = []float64{6, 18, 28, 15, 18, 20}
	genericDetailWidths  = []float64{6, 18, 20, 13, 9, 9, 9, 10, 29}
	genericColumnHeaders = []string{"NO", "Column Name", "Data Type", "Size", "NULL", "PK", "FK", "Default", "Description"}

	genericIndexGrid = indexGrid{
		no:       span{0, 0},
		name:     span{1, 2},
		column:   span{3, 4},
		ordering: span{5, 5},
		memo:     span{6, 8},
	}
)

// genericLayout numbers every row and lists schema and table separately in
// the table list.
type genericLayout struct {
	header Header
}

func (l *genericLayout) RenderSummarySheet(book *Book, tables []catalog.Table) {
	sheet := book.AddSheet(summarySheet)
	book.SetSheetDimensions(sheet, genericSummaryWidths...)

	span{0, 5}.write(book, sheet, 0, "Table List", ProfileBold)

	book.WriteText(sheet, 1, 0, "Project", ProfileBold)
	book.WriteText(sheet, 1, 1, "", ProfileCenter)
	book.WriteText(sheet, 1, 2, "Date", ProfileBold)
	book.WriteText(sheet, 1, 3, l.header.Date, ProfileCenter)
	book.WriteText(sheet, 1, 4, "Author", ProfileBold)
	book.WriteText(sheet, 1, 5, "", ProfileCenter)

	book.WriteText(sheet, 2, 0, "NO", ProfileBold)
	book.WriteText(sheet, 2, 1, "Schema", ProfileBold)
	book.WriteText(sheet, 2, 2, "Table Name", ProfileBold)
	span{3, 5}.write(book, sheet, 2, "Table Description", ProfileBold)

	row := 3
	for i, table := range tables {
		book.WriteNumber(sheet, row, 0, int64(i+1), ProfileCenter)
		book.WriteText(sheet, row, 1, table.Schema, ProfileLeft)
		book.WriteText(sheet, row, 2, table.Name, ProfileLeft)
		span{3, 5}.write(book, sheet, row, table.Description, ProfileLeft)
		row++
	}
}

func (l *genericLayout) RenderDetailSheet(book *Book, def *TableDefinition) {
	sheet := book.AddSheet(def.Table.QualifiedName())
	book.SetSheetDimensions(sheet, genericDetailWidths...)

	span{0, 8}.write(book, sheet, 0, "Table Definitions", ProfileBold)

	span{0, 1}.write(book, sheet, 1, "System", ProfileBold)
	span{2, 3}.write(book, sheet, 1, l.header.SystemName, ProfileCenter)
	book.WriteText(sheet, 1, 4, "Date", ProfileBold)
	book.WriteText(sheet, 1, 5, l.header.Date, ProfileCenter)
	book.WriteText(sheet, 1, 6, "Author", ProfileBold)
	span{7, 8}.write(book, sheet, 1, "", ProfileCenter)

	span{0, 1}.write(book, sheet, 2, "Table Name", ProfileBold)
	span{2, 8}.write(book, sheet, 2, def.Table.QualifiedName(), ProfileLeft)

	span{0, 1}.write(book, sheet, 3, "Table Description", ProfileBold)
	span{2, 8}.write(book, sheet, 3, def.Table.Description, ProfileLeft)

	for col, title := range genericColumnHeaders {
		book.WriteText(sheet, 4, col, title, ProfileBold)
	}

	row := 5
	for i, column := range def.Columns {
		book.WriteNumber(sheet, row, 0, int64(i+1), ProfileCenter)
		book.WriteText(sheet, row, 1, column.Name, ProfileLeft)
		book.WriteText(sheet, row, 2, column.TypeName, ProfileLeft)
		book.WriteNumber(sheet, row, 3, column.MaxLength, ProfileRight)
		book.WriteText(sheet, row, 4, yes(!column.Required), ProfileCenter)
		book.WriteText(sheet, row, 5, yes(def.IsPrimaryKey(column.Name)), ProfileCenter)
		book.WriteText(sheet, row, 6, yes(column.ForeignKey), ProfileCenter)
		book.WriteText(sheet, row, 7, column.DefaultValue, ProfileCenter)
		book.WriteText(sheet, row, 8, column.Description, ProfileLeft)
		row++
	}

	genericIndexGrid.writeSpacer(book, sheet, row)
	row++

	row = genericIndexGrid.writeIndexes(book, sheet, row, def.Indexes)
	genericIndexGrid.writeDDL(book, sheet, row, def.DDL)
}
