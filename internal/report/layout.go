package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

var ErrUnknownStyle = errors.New("unknown report style")

// DateLayout is the format of the generation date printed in sheet headers.
const DateLayout = "2006.01.02"

const summarySheet = "Tables"

type Style int

const (
	StyleSimple Style = iota
	StyleGeneric
)

func (s Style) String() string {
	switch s {
	case StyleSimple:
		return "simple"
	case StyleGeneric:
		return "generic"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Styles lists the selectable styles in display order.
func Styles() []Style {
	return []Style{StyleSimple, StyleGeneric}
}

func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return StyleSimple, nil
	case "generic":
		return StyleGeneric, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
}

// Header carries the values printed in every sheet's metadata row.
type Header struct {
	SystemName string
	Date       string
}

// TableDefinition is everything a detail sheet shows about one table.
// Unavailable parts are left empty.
type TableDefinition struct {
	Table       catalog.Table
	Columns     []catalog.Column
	Constraints []catalog.Constraint
	Indexes     []catalog.IndexDefinition
	DDL         string
}

func (d *TableDefinition) IsPrimaryKey(column string) bool {
	return catalog.IsPrimaryKey(d.Constraints, column)
}

// Layout renders the sheets of one report style.
type Layout interface {
	RenderSummarySheet(book *Book, tables []catalog.Table)
	RenderDetailSheet(book *Book, def *TableDefinition)
}

func NewLayout(style Style, header Header) (Layout, error) {
	switch style {
	case StyleSimple:
		return &simpleLayout{header: header}, nil
	case StyleGeneric:
		return &genericLayout{header: header}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
}

func yes(v bool) string {
	if v {
		return "Y"
	}
	return ""
}
