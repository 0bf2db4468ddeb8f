package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Profile selects one of the four cell styles of a Book.
type Profile int

const (
	ProfileCenter Profile = iota
	ProfileLeft
	ProfileRight
	ProfileBold
	profileCount
)

const (
	headerRowHeight  = 24.0
	defaultRowHeight = 15.0
	maxSheetName     = 31
)

var invalidSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// Book is the workbook being rendered together with its style profiles.
// The first failure is kept and every later call becomes a no-op; callers
// check Err (or SaveAs) once at the end.
type Book struct {
	file     *excelize.File
	styles   [profileCount]int
	bordered map[int]int
	names    map[string]struct{}
	sheets   []string
	err      error
}

func NewBook() (*Book, error) {
	b := &Book{
		file:     excelize.NewFile(),
		bordered: make(map[int]int),
		names:    make(map[string]struct{}),
	}

	for p := Profile(0); p < profileCount; p++ {
		id, err := b.file.NewStyle(profileStyle(p))
		if err != nil {
			b.file.Close()
			return nil, fmt.Errorf("report: create style: %w", err)
		}
		b.styles[p] = id
		b.bordered[id] = id
	}

	return b, nil
}

func profileStyle(p Profile) *excelize.Style {
	style := &excelize.Style{
		Border: thinBorders(),
		Font:   &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	}

	switch p {
	case ProfileLeft:
		style.Alignment.Horizontal = "left"
	case ProfileRight:
		style.Alignment.Horizontal = "right"
	case ProfileBold:
		style.Font.Bold = true
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C0C0C0"}}
	}

	return style
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "000000", Style: 1}
	}
	return borders
}

func (b *Book) Err() error {
	return b.err
}

func (b *Book) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Sheets returns the sheet names in insertion order.
func (b *Book) Sheets() []string {
	return append([]string(nil), b.sheets...)
}

// AddSheet creates a sheet and returns the name it was stored under, which
// differs from name when name is not a valid or unique sheet name.
func (b *Book) AddSheet(name string) string {
	name = b.uniqueName(sanitizeSheetName(name))
	if b.err != nil {
		return name
	}

	if len(b.sheets) == 0 {
		// the first sheet takes over the workbook's default sheet
		b.fail(b.file.SetSheetName(b.file.GetSheetName(0), name))
	} else {
		_, err := b.file.NewSheet(name)
		b.fail(err)
	}

	b.names[strings.ToLower(name)] = struct{}{}
	b.sheets = append(b.sheets, name)
	return name
}

func sanitizeSheetName(name string) string {
	name = strings.Trim(truncateRunes(invalidSheetChars.Replace(name), maxSheetName), "'")
	if strings.TrimSpace(name) == "" {
		return "Sheet"
	}
	return name
}

func (b *Book) uniqueName(name string) string {
	if _, taken := b.names[strings.ToLower(name)]; !taken {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncateRunes(name, maxSheetName-len(suffix)) + suffix
		if _, taken := b.names[strings.ToLower(candidate)]; !taken {
			return candidate
		}
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// SetSheetDimensions fixes the height of the first row and sets the column
// widths, in characters, from column A onward.
func (b *Book) SetSheetDimensions(sheet string, widths ...float64) {
	if b.err != nil {
		return
	}

	b.fail(b.file.SetRowHeight(sheet, 1, headerRowHeight))
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			b.fail(err)
			return
		}
		b.fail(b.file.SetColWidth(sheet, col, col, width))
	}
}

func (b *Book) WriteText(sheet string, row, col int, text string, p Profile) {
	b.write(sheet, row, col, text, p)
}

// WriteNumber writes value, leaving the cell blank when it is zero.
func (b *Book) WriteNumber(sheet string, row, col int, value int64, p Profile) {
	if value == 0 {
		b.write(sheet, row, col, nil, p)
		return
	}
	b.write(sheet, row, col, value, p)
}

func (b *Book) write(sheet string, row, col int, value any, p Profile) {
	if b.err != nil {
		return
	}

	cell, err := cellName(row, col)
	if err != nil {
		b.fail(err)
		return
	}

	b.fail(b.file.SetCellValue(sheet, cell, value))
	b.fail(b.file.SetCellStyle(sheet, cell, cell, b.styles[p]))
}

// Merge merges the inclusive 0-based region and then draws a thin border on
// every cell of its perimeter. Single cells are left alone.
func (b *Book) Merge(sheet string, rowStart, rowEnd, colStart, colEnd int) {
	if b.err != nil || (rowStart == rowEnd && colStart == colEnd) {
		return
	}

	top, err := cellName(rowStart, colStart)
	if err != nil {
		b.fail(err)
		return
	}
	bottom, err := cellName(rowEnd, colEnd)
	if err != nil {
		b.fail(err)
		return
	}
	b.fail(b.file.MergeCell(sheet, top, bottom))

	for row := rowStart; row <= rowEnd; row++ {
		for col := colStart; col <= colEnd; col++ {
			if row != rowStart && row != rowEnd && col != colStart && col != colEnd {
				continue
			}
			b.border(sheet, row, col)
		}
	}
}

func (b *Book) border(sheet string, row, col int) {
	if b.err != nil {
		return
	}

	cell, err := cellName(row, col)
	if err != nil {
		b.fail(err)
		return
	}

	current, err := b.file.GetCellStyle(sheet, cell)
	if err != nil {
		b.fail(err)
		return
	}

	id, ok := b.bordered[current]
	if !ok {
		style, err := b.file.GetStyle(current)
		if err != nil {
			b.fail(err)
			return
		}
		style.Border = thinBorders()
		if id, err = b.file.NewStyle(style); err != nil {
			b.fail(err)
			return
		}
		b.bordered[current] = id
	}

	b.fail(b.file.SetCellStyle(sheet, cell, cell, id))
}

// SetRowHeightLines sizes row for the given number of text lines plus one,
// up to the tallest row the format allows.
func (b *Book) SetRowHeightLines(sheet string, row, lines int) {
	if b.err != nil {
		return
	}

	height := float64(lines+1) * defaultRowHeight
	if height > excelize.MaxRowHeight {
		height = excelize.MaxRowHeight
	}
	b.fail(b.file.SetRowHeight(sheet, row+1, height))
}

// SaveAs serializes the workbook next to path and renames it into place, so
// path either keeps its previous content or receives the complete workbook.
func (b *Book) SaveAs(path string) (err error) {
	if b.err != nil {
		return fmt.Errorf("report: render workbook: %w", b.err)
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("report: save workbook %s: %w", path, err)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tabledef-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = b.file.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func (b *Book) Close() error {
	return b.file.Close()
}

func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}
