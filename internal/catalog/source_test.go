package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

func TestIndexKeyQueryCubrid(t *testing.T) {
	table := catalog.Table{Schema: "dba", Name: "athlete"}

	query, args := catalog.IndexKeyQuery(catalog.DialectCubrid, true, table)
	require.Equal(t, []any{"athlete", "dba"}, args)
	require.Contains(t, query, "FROM db_index_key k")
	require.Contains(t, query, "AND k.owner_name = i.owner_name")
	require.Contains(t, query, "AND i.is_foreign_key = 'NO'")
	require.Contains(t, query, "AND k.owner_name = ?")
	require.True(t, strings.HasSuffix(query, "ORDER BY k.index_name, k.key_order"))
	require.Equal(t, 2, strings.Count(query, "?"))

	query, args = catalog.IndexKeyQuery(catalog.DialectCubrid, false, table)
	require.Equal(t, []any{"athlete"}, args)
	require.NotContains(t, query, "owner_name")
	require.Equal(t, 1, strings.Count(query, "?"))
}

func TestIndexKeyQueryPostgres(t *testing.T) {
	table := catalog.Table{Schema: "public", Name: "orders"}

	query, args := catalog.IndexKeyQuery(catalog.DialectPostgres, true, table)
	require.Equal(t, []any{"orders", "public"}, args)
	require.Contains(t, query, "WHERE t.relname = $1")
	require.Contains(t, query, "AND n.nspname = $2")
	require.Contains(t, query, "c.contype = 'f'")

	query, args = catalog.IndexKeyQuery(catalog.DialectPostgres, false, table)
	require.Equal(t, []any{"orders"}, args)
	require.NotContains(t, query, "$2")
	require.Contains(t, query, "AND n.nspname = current_schema()")
}

func TestDialectString(t *testing.T) {
	require.Equal(t, "postgres", catalog.DialectPostgres.String())
	require.Equal(t, "cubrid", catalog.DialectCubrid.String())
	require.Equal(t, "unknown", catalog.Dialect(42).String())
}

func TestQualifiedName(t *testing.T) {
	require.Equal(t, "public.orders", catalog.Table{Schema: "public", Name: "orders"}.QualifiedName())
	require.Equal(t, "orders", catalog.Table{Name: "orders"}.QualifiedName())
}
