package explorer

import (
	"context"
	"fmt"

	"github.com/rivo/tview"

	"github.com/kadirbelkuyu/tabledef/internal/export"
	"github.com/kadirbelkuyu/tabledef/internal/report"
)

const exportPage = "export"

func (b *browser) showExportForm(ctx context.Context) {
	if b.opts.Export == nil {
		b.meta.SetText("[red]Export is not available for this session.")
		return
	}

	defaults := b.opts.Defaults
	styles := styleOptions()

	directory := tview.NewInputField().SetLabel("Directory ").SetText(defaults.Directory).SetFieldWidth(60)
	fileName := tview.NewInputField().SetLabel("File name ").SetText(defaults.FileName).SetFieldWidth(40)
	style := tview.NewDropDown().SetLabel("Style ").SetOptions(styles, nil).SetCurrentOption(styleIndex(defaults.Style))
	status := tview.NewTextView().SetDynamicColors(true)

	closeForm := func() {
		b.pages.RemovePage(exportPage)
		b.app.SetFocus(b.list)
	}

	form := tview.NewForm().
		AddFormItem(directory).
		AddFormItem(fileName).
		AddFormItem(style).
		AddButton("Export", func() {
			_, selected := style.GetCurrentOption()
			req := export.Request{
				Directory: directory.GetText(),
				FileName:  fileName.GetText(),
				Style:     selected,
			}
			if err := req.Validate(); err != nil {
				status.SetText("[red]" + tview.Escape(export.UserMessage(err)))
				return
			}
			closeForm()
			b.runExport(ctx, req)
		}).
		AddButton("Cancel", closeForm)
	form.SetBorder(true).SetTitle("Export table definitions")

	wrapper := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(status, 1, 0, false)

	b.pages.AddPage(exportPage, centered(wrapper, 80, 13), true, true)
	b.app.SetFocus(directory)
}

// runExport generates the report in the background; the result is
// delivered back on the UI goroutine.
func (b *browser) runExport(ctx context.Context, req export.Request) {
	b.meta.SetText(fmt.Sprintf("Exporting to %s …", tview.Escape(req.OutputPath())))
	go func() {
		result, err := b.opts.Export(ctx, req)
		queueUpdate(b.app, func() {
			b.meta.SetText(exportOutcome(result, err))
		})
	}()
}

func exportOutcome(result *export.Result, err error) string {
	if err != nil {
		return "[red]" + tview.Escape(export.UserMessage(err)) + "[-]\n" + keyHelp
	}
	text := fmt.Sprintf("[green]Exported %d tables.[-]\n%s\n", result.Tables, tview.Escape(result.Path))
	if result.Unavailable > 0 {
		text += fmt.Sprintf("[yellow]%d catalog reads failed, see the log.[-]\n", result.Unavailable)
	}
	return text + keyHelp
}

func styleOptions() []string {
	var names []string
	for _, style := range report.Styles() {
		names = append(names, style.String())
	}
	return names
}

func styleIndex(name string) int {
	style, err := report.ParseStyle(name)
	if err != nil {
		return 0
	}
	for i, s := range report.Styles() {
		if s == style {
			return i
		}
	}
	return 0
}

// centered places content in a fixed-size cell in the middle of the screen.
func centered(content tview.Primitive, width, height int) tview.Primitive {
	return tview.NewGrid().
		SetRows(0, height, 0).
		SetColumns(0, width, 0).
		AddItem(content, 1, 1, 1, 1, 0, 0, true)
}
