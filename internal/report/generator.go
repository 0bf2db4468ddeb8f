package report

import (
	"context"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

// Stats summarizes one generated workbook.
type Stats struct {
	Tables  int
	Columns int
	Indexes int
	// Unavailable counts the catalog reads that failed and were rendered
	// as empty content.
	Unavailable int
	Sheets      []string
}

type Generator struct {
	path       string
	source     catalog.Source
	style      Style
	logger     *logger.Logger
	now        func() time.Time
	systemName string
}

type Option func(*Generator)

func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock replaces the source of the date printed in sheet headers.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func WithSystemName(name string) Option {
	return func(g *Generator) {
		g.systemName = name
	}
}

func NewGenerator(path string, source catalog.Source, style Style, opts ...Option) *Generator {
	g := &Generator{
		path:   path,
		source: source,
		style:  style,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate reads the catalog and writes the workbook to the generator's path.
// Catalog read failures leave gaps in the report; only layout and save
// failures are returned.
func (g *Generator) Generate(ctx context.Context) (*Stats, error) {
	layout, err := NewLayout(g.style, Header{
		SystemName: g.systemName,
		Date:       g.now().Format(DateLayout),
	})
	if err != nil {
		return nil, err
	}

	book, err := NewBook()
	if err != nil {
		return nil, err
	}
	defer book.Close()

	fetcher := catalog.NewFetcher(g.source, g.logger)
	stats := &Stats{}

	tables := fetcher.ListTables(ctx)
	if !tables.Available() {
		stats.Unavailable++
	}

	layout.RenderSummarySheet(book, tables.Value)

	for _, table := range tables.Value {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g.logger.Debugf("Rendering %s", table.QualifiedName())
		def := g.define(ctx, fetcher, table, stats)
		layout.RenderDetailSheet(book, def)

		stats.Tables++
		stats.Columns += len(def.Columns)
		stats.Indexes += len(def.Indexes)
	}

	if err := book.SaveAs(g.path); err != nil {
		return nil, err
	}

	stats.Sheets = book.Sheets()
	g.logger.Infof("%d tables written to %s", stats.Tables, g.path)
	return stats, nil
}

func (g *Generator) define(ctx context.Context, fetcher *catalog.Fetcher, table catalog.Table, stats *Stats) *TableDefinition {
	columns := fetcher.ListColumns(ctx, table)
	constraints := fetcher.ListConstraints(ctx, table)
	indexes := fetcher.ListIndexes(ctx, table)
	ddl := fetcher.DDL(ctx, table)

	for _, ok := range []bool{columns.Available(), constraints.Available(), indexes.Available(), ddl.Available()} {
		if !ok {
			stats.Unavailable++
		}
	}

	return &TableDefinition{
		Table:       table,
		Columns:     columns.Value,
		Constraints: constraints.Value,
		Indexes:     indexes.Value,
		DDL:         ddl.Value,
	}
}
