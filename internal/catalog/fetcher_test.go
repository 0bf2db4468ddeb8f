package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/internal/catalog/catalogtest"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

var (
	orders    = catalog.Table{Schema: "public", Name: "orders", Description: "Orders"}
	customers = catalog.Table{Schema: "public", Name: "customers"}
	audit     = catalog.Table{Schema: "audit", Name: "events"}
)

func newFetcher(source catalog.Source) (*catalog.Fetcher, *test.Hook) {
	base, hook := test.NewNullLogger()
	return catalog.NewFetcher(source, logger.Wrap(base)), hook
}

func TestFetcherListTablesAcrossSchemas(t *testing.T) {
	source := catalogtest.New().
		AddTable(orders).
		AddTable(customers).
		AddTable(audit)

	fetcher, hook := newFetcher(source)
	result := fetcher.ListTables(context.Background())

	require.True(t, result.Available())
	require.Equal(t, []catalog.Table{orders, customers, audit}, result.Value)
	require.Empty(t, hook.AllEntries())
}

func TestFetcherListTablesSkipsFailingSchema(t *testing.T) {
	source := catalogtest.New().
		AddTable(orders).
		AddTable(audit).
		Fail(catalogtest.OpListTables, "public", errors.New("permission denied"))

	fetcher, hook := newFetcher(source)
	result := fetcher.ListTables(context.Background())

	require.True(t, result.Available())
	require.Equal(t, []catalog.Table{audit}, result.Value)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "public", entry.Data["schema"])
	require.Equal(t, "list tables", entry.Data["operation"])
}

func TestFetcherListTablesSchemaFailure(t *testing.T) {
	source := catalogtest.New().
		AddTable(orders).
		Fail(catalogtest.OpListSchemas, "", errors.New("connection reset"))

	fetcher, hook := newFetcher(source)
	result := fetcher.ListTables(context.Background())

	require.False(t, result.Available())
	require.Empty(t, result.Value)
	require.Len(t, hook.AllEntries(), 1)
}

func TestFetcherColumnsAndConstraints(t *testing.T) {
	columns := []catalog.Column{
		{Name: "id", TypeName: "integer", Required: true},
		{Name: "customer_id", TypeName: "integer", ForeignKey: true},
	}
	source := catalogtest.New().AddTable(orders, columns...)
	source.SetConstraints(orders, catalog.Constraint{
		Name: "orders_pkey", Kind: catalog.ConstraintPrimaryKey, Columns: []string{"id"},
	})

	fetcher, _ := newFetcher(source)
	ctx := context.Background()

	cols := fetcher.ListColumns(ctx, orders)
	require.True(t, cols.Available())
	require.Equal(t, columns, cols.Value)

	require.True(t, fetcher.IsPrimaryKey(ctx, orders, columns[0]))
	require.False(t, fetcher.IsPrimaryKey(ctx, orders, columns[1]))
}

func TestFetcherUnavailableResultsAreLogged(t *testing.T) {
	boom := errors.New("boom")
	source := catalogtest.New().AddTable(orders).
		Fail(catalogtest.OpListAttributes, orders.QualifiedName(), boom).
		Fail(catalogtest.OpListConstraints, orders.QualifiedName(), boom).
		Fail(catalogtest.OpDefinition, orders.QualifiedName(), boom)

	fetcher, hook := newFetcher(source)
	ctx := context.Background()

	cols := fetcher.ListColumns(ctx, orders)
	require.False(t, cols.Available())
	require.ErrorIs(t, cols.Err, boom)
	require.Nil(t, cols.Value)

	require.False(t, fetcher.ListConstraints(ctx, orders).Available())
	require.False(t, fetcher.IsPrimaryKey(ctx, orders, catalog.Column{Name: "id"}))

	ddl := fetcher.DDL(ctx, orders)
	require.False(t, ddl.Available())
	require.Empty(t, ddl.Value)

	for _, entry := range hook.AllEntries() {
		require.Equal(t, logrus.WarnLevel, entry.Level)
		require.Equal(t, "orders", entry.Data["table"])
		require.Equal(t, "public", entry.Data["schema"])
	}
	require.Len(t, hook.AllEntries(), 4)
}

func TestFetcherListIndexes(t *testing.T) {
	source := catalogtest.New().AddTable(orders).AddTable(catalog.Table{Schema: "audit", Name: "orders"})
	source.SetIndexKeys(orders,
		catalog.IndexKeyRow{IndexName: "orders_pkey", ColumnName: "id", KeyOrder: 0},
		catalog.IndexKeyRow{IndexName: "ix_orders_customer", ColumnName: "customer_id", KeyOrder: 0},
		catalog.IndexKeyRow{IndexName: "ix_orders_customer", ColumnName: "created_at", KeyOrder: 1},
	)
	source.SetIndexKeys(catalog.Table{Schema: "audit", Name: "orders"},
		catalog.IndexKeyRow{IndexName: "audit_orders_pkey", ColumnName: "id", KeyOrder: 0},
	)

	fetcher, _ := newFetcher(source)
	result := fetcher.ListIndexes(context.Background(), orders)

	require.True(t, result.Available())
	require.Len(t, result.Value, 2)
	require.Equal(t, "orders_pkey", result.Value[0].Name)
	require.Equal(t, []catalog.IndexColumnRef{
		{ColumnName: "customer_id", Ordinal: 1},
		{ColumnName: "created_at", Ordinal: 2},
	}, result.Value[1].Columns)

	opened, closed := source.Sessions()
	require.Equal(t, 1, opened)
	require.Equal(t, 1, closed)

	queries := source.Queries()
	require.Len(t, queries, 1)
	require.Equal(t, []any{"orders", "public"}, queries[0].Args)
}

func TestFetcherListIndexesSingleSchema(t *testing.T) {
	source := catalogtest.New().AddTable(orders)
	source.MultiSchema = false
	source.Flavor = catalog.DialectCubrid

	fetcher, _ := newFetcher(source)
	result := fetcher.ListIndexes(context.Background(), orders)

	require.True(t, result.Available())
	require.Empty(t, result.Value)

	queries := source.Queries()
	require.Len(t, queries, 1)
	require.Equal(t, []any{"orders"}, queries[0].Args)
	require.Contains(t, queries[0].SQL, "db_index_key")
}

func TestFetcherListIndexesClosesSessionOnFailure(t *testing.T) {
	source := catalogtest.New().AddTable(orders).
		Fail(catalogtest.OpIndexQuery, orders.QualifiedName(), errors.New("syntax error"))

	fetcher, hook := newFetcher(source)
	result := fetcher.ListIndexes(context.Background(), orders)

	require.False(t, result.Available())
	opened, closed := source.Sessions()
	require.Equal(t, opened, closed)
	require.Equal(t, "list indexes", hook.LastEntry().Data["operation"])
}

func TestFetcherListIndexesSessionFailure(t *testing.T) {
	source := catalogtest.New().AddTable(orders).
		Fail(catalogtest.OpOpenSession, "", errors.New("pool exhausted"))

	fetcher, _ := newFetcher(source)
	result := fetcher.ListIndexes(context.Background(), orders)

	require.False(t, result.Available())
	require.Nil(t, result.Value)
}

func TestFetcherDDL(t *testing.T) {
	source := catalogtest.New().AddTable(orders)
	source.SetDefinition(orders, "-- one\n-- two\n-- three\n-- four\nCREATE TABLE orders ();\n")

	fetcher, _ := newFetcher(source)
	ddl := fetcher.DDL(context.Background(), orders)

	require.True(t, ddl.Available())
	require.Equal(t, "CREATE TABLE orders ();", ddl.Value)
}
