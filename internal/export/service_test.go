package export_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/internal/catalog/catalogtest"
	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/export"
	"github.com/kadirbelkuyu/tabledef/internal/report"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

func sampleSource() *catalogtest.Source {
	table := catalog.Table{Schema: "public", Name: "orders"}
	source := catalogtest.New().AddTable(table, catalog.Column{Name: "id", TypeName: "integer", Required: true})
	source.SetDefinition(table, "1\n2\n3\n4\nCREATE TABLE orders (id integer);")
	return source
}

type panickingSource struct {
	*catalogtest.Source
}

func (panickingSource) ListSchemas(ctx context.Context) ([]catalog.Schema, error) {
	panic("catalog handle is nil")
}

func TestRequestValidate(t *testing.T) {
	require.ErrorIs(t, export.Request{FileName: "out"}.Validate(), export.ErrMissingDirectory)
	require.ErrorIs(t, export.Request{Directory: "  ", FileName: "out"}.Validate(), export.ErrMissingDirectory)
	require.ErrorIs(t, export.Request{Directory: "out"}.Validate(), export.ErrMissingFileName)
	require.ErrorIs(t, export.Request{Directory: "out", FileName: "x", Style: "fancy"}.Validate(), report.ErrUnknownStyle)
	require.NoError(t, export.Request{Directory: "out", FileName: "x"}.Validate())
}

func TestRequestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "tables.xlsx"), export.Request{Directory: "docs", FileName: "tables"}.OutputPath())
	assert.Equal(t, filepath.Join("docs", "tables.XLSX"), export.Request{Directory: "docs", FileName: "tables.XLSX"}.OutputPath())
	assert.Equal(t, filepath.Join("docs", "v1.2.xlsx"), export.Request{Directory: " docs ", FileName: " v1.2 "}.OutputPath())
}

func TestNewRequestFromConfig(t *testing.T) {
	req := export.NewRequest(config.ExportConfig{Directory: "out", FileName: "defs", Style: "generic"})
	assert.Equal(t, export.Request{Directory: "out", FileName: "defs", Style: "generic"}, req)
}

func TestRequestMerge(t *testing.T) {
	base := export.Request{Directory: "out", FileName: "defs", Style: "simple"}
	assert.Equal(t, base, base.Merge(export.Request{Directory: " "}))
	assert.Equal(t,
		export.Request{Directory: "out", FileName: "erp", Style: "generic"},
		base.Merge(export.Request{FileName: "erp", Style: "generic"}))
}

func TestExportWritesWorkbook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	started := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	service := export.NewService(logger.Discard(),
		export.WithClock(func() time.Time { return started }),
		export.WithSystemName("Orders"),
	)
	result, err := service.Export(context.Background(), sampleSource(), export.Request{
		Directory: dir,
		FileName:  "definitions",
		Style:     "generic",
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(result.Path))
	assert.Equal(t, filepath.Join(dir, "definitions.xlsx"), result.Path)
	assert.Equal(t, report.StyleGeneric, result.Style)
	assert.Equal(t, 1, result.Tables)
	assert.Equal(t, 1, result.Columns)
	assert.Equal(t, started, result.StartedAt)
	assert.Equal(t, started, result.CompletedAt)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.Checksum)
	assert.Equal(t, int64(len(data)), result.Size)

	f, err := excelize.OpenFile(result.Path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Tables", "public.orders"}, f.GetSheetList())

	system, err := f.GetCellValue("public.orders", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Orders", system)
	date, err := f.GetCellValue("public.orders", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2024.01.02", date)
}

func TestExportRejectsInvalidRequestBeforeWork(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	service := export.NewService(logger.Discard())

	_, err := service.Export(context.Background(), sampleSource(), export.Request{Directory: dir})
	require.ErrorIs(t, err, export.ErrMissingFileName)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportRecoversPanics(t *testing.T) {
	base, hook := test.NewNullLogger()
	service := export.NewService(logger.Wrap(base))

	_, err := service.Export(context.Background(), panickingSource{sampleSource()}, export.Request{
		Directory: t.TempDir(),
		FileName:  "out",
	})

	require.ErrorIs(t, err, export.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "catalog handle is nil")
	assert.Equal(t, export.FailureMessage, export.UserMessage(err))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
}

func TestExportOverwritesPreviousReport(t *testing.T) {
	dir := t.TempDir()
	service := export.NewService(logger.Discard())
	req := export.Request{Directory: dir, FileName: "out"}

	first, err := service.Export(context.Background(), sampleSource(), req)
	require.NoError(t, err)
	second, err := service.Export(context.Background(), sampleSource(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", export.UserMessage(nil))
	assert.Equal(t, export.ErrMissingDirectory.Error(), export.UserMessage(export.ErrMissingDirectory))
	assert.Equal(t, export.ErrMissingFileName.Error(), export.UserMessage(fmt.Errorf("dialog: %w", export.ErrMissingFileName)))
	assert.Equal(t, report.ErrUnknownStyle.Error(), export.UserMessage(export.Request{Directory: "d", FileName: "f", Style: "fancy"}.Validate()))
	assert.Equal(t, export.FailureMessage, export.UserMessage(errors.New("disk full")))
}
