package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

func TestNormalizeDDL(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want string
	}{
		"strips header": {
			raw:  "-- h1\n-- h2\n-- h3\n-- h4\nCREATE TABLE t (\n\tid int\n);\n",
			want: "CREATE TABLE t (\n\tid int\n);",
		},
		"windows line breaks": {
			raw:  "h1\r\nh2\r\nh3\r\nh4\r\nCREATE TABLE t ();\r\n",
			want: "CREATE TABLE t ();",
		},
		"header only": {
			raw:  "h1\nh2\nh3\nh4",
			want: "",
		},
		"shorter than header": {
			raw:  "h1\nh2",
			want: "",
		},
		"blank": {
			raw:  "  \n\t",
			want: "",
		},
		"empty": {
			raw:  "",
			want: "",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, catalog.NormalizeDDL(tc.raw))
		})
	}
}

func TestBuildDefinitionNormalizesToCreateTable(t *testing.T) {
	table := catalog.Table{Schema: "public", Name: "orders", Description: "Customer's orders"}
	columns := []catalog.Column{
		{Name: "id", TypeName: "integer", FullType: "integer", Required: true},
		{Name: "customer_id", TypeName: "integer", FullType: "integer", Description: "Buyer"},
		{Name: "note", TypeName: "character varying", FullType: "character varying(40)", DefaultValue: "''::character varying"},
	}
	constraints := []catalog.Constraint{
		{Name: "orders_pkey", Kind: catalog.ConstraintPrimaryKey, Columns: []string{"id"}, Definition: "PRIMARY KEY (id)"},
		{Name: "orders_customer_fk", Kind: catalog.ConstraintForeignKey, Columns: []string{"customer_id"}, Definition: "FOREIGN KEY (customer_id) REFERENCES customers(id)"},
	}
	indexes := []string{"CREATE INDEX ix_orders_customer ON public.orders USING btree (customer_id)"}

	raw := catalog.BuildDefinition(table, columns, constraints, indexes, catalog.DDLOptions{FullSource: true})
	ddl := catalog.NormalizeDDL(raw)

	require.Equal(t, `CREATE TABLE "public"."orders" (
	"id" integer NOT NULL,
	"customer_id" integer,
	"note" character varying(40) DEFAULT ''::character varying,
	CONSTRAINT "orders_pkey" PRIMARY KEY (id),
	CONSTRAINT "orders_customer_fk" FOREIGN KEY (customer_id) REFERENCES customers(id)
);
CREATE INDEX ix_orders_customer ON public.orders USING btree (customer_id);
COMMENT ON TABLE "public"."orders" IS 'Customer''s orders';
COMMENT ON COLUMN "public"."orders"."customer_id" IS 'Buyer';`, ddl)
}

func TestBuildDefinitionSeparateForeignKeys(t *testing.T) {
	table := catalog.Table{Schema: "app", Name: "lines"}
	columns := []catalog.Column{{Name: "order_id", TypeName: "integer"}}
	constraints := []catalog.Constraint{
		{Name: "lines_order_fk", Kind: catalog.ConstraintForeignKey, Definition: "FOREIGN KEY (order_id) REFERENCES app.orders(id)"},
	}

	ddl := catalog.NormalizeDDL(catalog.BuildDefinition(table, columns, constraints, []string{"CREATE INDEX x ON app.lines (order_id)"},
		catalog.DDLOptions{SeparateForeignKeys: true}))

	require.Equal(t, `CREATE TABLE "app"."lines" (
	"order_id" integer
);
ALTER TABLE "app"."lines" ADD CONSTRAINT "lines_order_fk" FOREIGN KEY (order_id) REFERENCES app.orders(id);`, ddl)
}
