package catalog

import (
	"context"
	"strings"
)

// Source is the catalog of a connected data source.
type Source interface {
	ListSchemas(ctx context.Context) ([]Schema, error)
	ListPhysicalTables(ctx context.Context, schema Schema) ([]Table, error)
	ListAttributes(ctx context.Context, table Table) ([]Column, error)
	ListConstraints(ctx context.Context, table Table) ([]Constraint, error)
	ObjectDefinitionText(ctx context.Context, table Table, opts DDLOptions) (string, error)

	// SupportsMultiSchema reports whether one data source holds several
	// schemas, in which case raw metadata queries must also match the owner.
	SupportsMultiSchema() bool
	Dialect() Dialect

	// OpenMetaSession acquires a read session for raw metadata queries. The
	// caller must Close it.
	OpenMetaSession(ctx context.Context) (MetaSession, error)
}

// Rows is the subset of *sql.Rows the fetcher reads.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type MetaSession interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Close() error
}

// Dialect selects the shape of raw metadata queries.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectCubrid
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectCubrid:
		return "cubrid"
	default:
		return "unknown"
	}
}

// IndexKeyQuery returns the index metadata query and its bind arguments for
// table. Every variant yields (index_name, key_attr_name, key_order) ordered
// by index name then key order, skipping indexes that back foreign keys.
// Without multi-schema support PostgreSQL matches the session's current
// schema, the only one such a source lists.
func IndexKeyQuery(d Dialect, multiSchema bool, table Table) (string, []any) {
	args := []any{table.Name}
	if multiSchema {
		args = append(args, table.Schema)
	}

	var b strings.Builder
	switch d {
	case DialectCubrid:
		b.WriteString("SELECT k.index_name, k.key_attr_name, k.key_order FROM db_index_key k\n")
		b.WriteString("JOIN db_index i ON k.index_name = i.index_name\n")
		if multiSchema {
			b.WriteString("AND k.owner_name = i.owner_name\n")
		}
		b.WriteString("AND k.class_name = i.class_name\n")
		b.WriteString("AND i.is_foreign_key = 'NO'\n")
		b.WriteString("WHERE k.class_name = ?\n")
		if multiSchema {
			b.WriteString("AND k.owner_name = ?\n")
		}
		b.WriteString("ORDER BY k.index_name, k.key_order")
	default:
		b.WriteString("SELECT ic.relname AS index_name, a.attname AS key_attr_name, k.ord - 1 AS key_order\n")
		b.WriteString("FROM pg_index x\n")
		b.WriteString("JOIN pg_class t ON t.oid = x.indrelid\n")
		b.WriteString("JOIN pg_class ic ON ic.oid = x.indexrelid\n")
		b.WriteString("JOIN pg_namespace n ON n.oid = t.relnamespace\n")
		b.WriteString("CROSS JOIN LATERAL unnest(x.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)\n")
		b.WriteString("JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum\n")
		b.WriteString("WHERE t.relname = $1\n")
		if multiSchema {
			b.WriteString("AND n.nspname = $2\n")
		} else {
			b.WriteString("AND n.nspname = current_schema()\n")
		}
		b.WriteString("AND NOT EXISTS (SELECT 1 FROM pg_constraint c WHERE c.conindid = x.indexrelid AND c.conrelid = x.indrelid AND c.contype = 'f')\n")
		b.WriteString("ORDER BY ic.relname, k.ord")
	}

	return b.String(), args
}
