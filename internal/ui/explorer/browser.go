package explorer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

const mainPage = "main"

var columnHeaders = []string{"NO", "Column", "Type", "Size", "NULL", "PK", "FK", "Default", "Description"}

type browser struct {
	app     *tview.Application
	opts    Options
	fetcher *catalog.Fetcher

	mu     sync.Mutex
	tables []catalog.Table
	// generation numbers table loads; only the latest one may paint.
	generation uint64

	list    *tview.List
	columns *tview.Table
	ddl     *tview.TextView
	meta    *tview.TextView
	preview *tview.Pages
	pages   *tview.Pages
}

func newBrowser(app *tview.Application, opts Options) *browser {
	b := &browser{
		app:     app,
		opts:    opts,
		fetcher: catalog.NewFetcher(opts.Source, opts.Logger),
		list:    tview.NewList().ShowSecondaryText(false),
		columns: tview.NewTable().SetFixed(1, 0).SetSelectable(true, false),
		ddl:     tview.NewTextView().SetWrap(false),
		meta:    tview.NewTextView().SetDynamicColors(true),
		preview: tview.NewPages(),
		pages:   tview.NewPages(),
	}

	title := "Tables"
	if opts.Title != "" {
		title = "Tables - " + opts.Title
	}

	b.list.AddItem("Loading tables…", "", 0, nil)
	b.meta.SetText("Reading catalog…")

	b.preview.AddPage("columns", b.columns, true, true)
	b.preview.AddPage("ddl", b.ddl, true, false)
	b.preview.SetBorder(true).SetTitle("Columns")

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.list.SetBorder(true).SetTitle(title), 36, 1, true).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(b.preview, 0, 3, false).
			AddItem(b.meta.SetBorder(true).SetTitle("Details"), 7, 1, false),
			0, 3, false)
	b.pages.AddPage(mainPage, layout, true, true)

	return b
}

// start loads the table list once the first frame is drawn. The list reports
// its first item as changed when it is added, which fills the preview.
func (b *browser) start(ctx context.Context) {
	var once sync.Once
	b.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		once.Do(func() { go b.loadTables(ctx) })
		return false
	})

	b.list.SetChangedFunc(func(index int, main, secondary string, shortcut rune) {
		if table, ok := b.tableAt(index); ok {
			go b.showTable(ctx, table)
		}
	})
}

func (b *browser) loadTables(ctx context.Context) {
	result := b.fetcher.ListTables(ctx)
	if !result.Available() {
		queueUpdate(b.app, func() {
			b.list.Clear()
			b.list.AddItem("Failed to load tables", "", 0, nil)
			b.meta.SetText(fmt.Sprintf("[red]%v", result.Err))
		})
		return
	}

	tables := result.Value
	b.mu.Lock()
	b.tables = tables
	b.mu.Unlock()

	queueUpdate(b.app, func() {
		b.list.Clear()
		if len(tables) == 0 {
			b.list.AddItem("No tables found", "", 0, nil)
			b.meta.SetText("The catalog has no visible tables.\n" + keyHelp)
			return
		}
		for _, table := range tables {
			b.list.AddItem(table.QualifiedName(), "", 0, nil)
		}
	})
}

func (b *browser) tableAt(index int) (catalog.Table, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.tables) {
		return catalog.Table{}, false
	}
	return b.tables[index], true
}

func (b *browser) current() (catalog.Table, bool) {
	return b.tableAt(b.list.GetCurrentItem())
}

// tableView is everything the preview shows about one table.
type tableView struct {
	table       catalog.Table
	columns     catalog.Result[[]catalog.Column]
	constraints catalog.Result[[]catalog.Constraint]
	indexes     catalog.Result[[]catalog.IndexDefinition]
	ddl         catalog.Result[string]
}

func (b *browser) showTable(ctx context.Context, table catalog.Table) {
	gen := b.beginLoad()
	queueUpdate(b.app, func() {
		if b.isLatest(gen) {
			b.meta.SetText(fmt.Sprintf("Loading %s …", table.QualifiedName()))
		}
	})

	view := tableView{
		table:       table,
		columns:     b.fetcher.ListColumns(ctx, table),
		constraints: b.fetcher.ListConstraints(ctx, table),
		indexes:     b.fetcher.ListIndexes(ctx, table),
		ddl:         b.fetcher.DDL(ctx, table),
	}

	queueUpdate(b.app, func() {
		b.apply(gen, view)
	})
}

func (b *browser) beginLoad() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	return b.generation
}

func (b *browser) isLatest(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gen == b.generation
}

// apply paints view unless a later load has started since gen. It must run
// on the UI goroutine.
func (b *browser) apply(gen uint64, view tableView) bool {
	if !b.isLatest(gen) {
		return false
	}
	fillTable(b.columns, columnRows(view.columns.Value, view.constraints.Value))
	b.ddl.SetText(view.ddl.Value).ScrollToBeginning()
	b.meta.SetText(describeTable(view.table, view.columns, view.indexes))
	return true
}

func (b *browser) capture(event *tcell.EventKey) *tcell.EventKey {
	if name, _ := b.pages.GetFrontPage(); name != mainPage {
		return event
	}
	if event.Key() != tcell.KeyRune {
		return event
	}

	switch event.Rune() {
	case 'q', 'Q':
		b.app.Stop()
		return nil
	case 'r', 'R':
		if table, ok := b.current(); ok {
			go b.showTable(context.Background(), table)
		}
		return nil
	case 'd', 'D':
		b.togglePreview()
		return nil
	case 'x', 'X':
		b.showExportForm(context.Background())
		return nil
	}
	return event
}

func (b *browser) togglePreview() {
	if name, _ := b.preview.GetFrontPage(); name == "columns" {
		b.preview.SwitchToPage("ddl")
		b.preview.SetTitle("DDL")
		return
	}
	b.preview.SwitchToPage("columns")
	b.preview.SetTitle("Columns")
}

const keyHelp = "'d' columns/DDL • 'x' export • 'r' refresh • 'q' exit"

func describeTable(table catalog.Table, columns catalog.Result[[]catalog.Column], indexes catalog.Result[[]catalog.IndexDefinition]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]", table.QualifiedName())
	if table.Description != "" {
		fmt.Fprintf(&b, "  %s", tview.Escape(table.Description))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Columns: %s  Indexes: %s\n", count(len(columns.Value), columns.Err), count(len(indexes.Value), indexes.Err))
	b.WriteString(keyHelp)
	return b.String()
}

func count(n int, err error) string {
	if err != nil {
		return "[red]unavailable[-]"
	}
	return strconv.Itoa(n)
}

// columnRows renders the column grid shown in the preview, header first.
func columnRows(columns []catalog.Column, constraints []catalog.Constraint) [][]string {
	rows := [][]string{columnHeaders}
	for i, col := range columns {
		size := ""
		if col.MaxLength > 0 {
			size = strconv.FormatInt(col.MaxLength, 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			col.Name,
			col.TypeName,
			size,
			mark(!col.Required),
			mark(catalog.IsPrimaryKey(constraints, col.Name)),
			mark(col.ForeignKey),
			col.DefaultValue,
			col.Description,
		})
	}
	return rows
}

func mark(v bool) string {
	if v {
		return "Y"
	}
	return ""
}

func fillTable(view *tview.Table, rows [][]string) {
	view.Clear()
	for r, row := range rows {
		for c, val := range row {
			cell := tview.NewTableCell(tview.Escape(val))
			if r == 0 {
				cell.SetSelectable(false).SetAlign(tview.AlignCenter).SetAttributes(tcell.AttrBold)
			} else {
				cell.SetExpansion(1)
			}
			view.SetCell(r, c, cell)
		}
	}
	view.ScrollToBeginning()
}

// queueUpdate runs fn on the UI goroutine, or inline when there is no running
// application to hand it to.
func queueUpdate(app *tview.Application, fn func()) {
	if app == nil {
		fn()
		return
	}
	app.QueueUpdateDraw(fn)
}
