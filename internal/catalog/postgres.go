package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type PostgresOptions struct {
	Schemas []string
	// MultiSchema false limits the source to the session's current schema.
	MultiSchema bool
}

// PostgresSource reads the PostgreSQL system catalog through database/sql.
type PostgresSource struct {
	db      *sql.DB
	options PostgresOptions
}

func NewPostgresSource(db *sql.DB, options PostgresOptions) *PostgresSource {
	return &PostgresSource{
		db:      db,
		options: options,
	}
}

func (s *PostgresSource) SupportsMultiSchema() bool {
	return s.options.MultiSchema
}

func (s *PostgresSource) Dialect() Dialect {
	return DialectPostgres
}

func (s *PostgresSource) OpenMetaSession(ctx context.Context) (MetaSession, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlSession{conn: conn}, nil
}

type sqlSession struct {
	conn *sql.Conn
}

func (s *sqlSession) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return s.conn.QueryContext(ctx, query, args...)
}

func (s *sqlSession) Close() error {
	return s.conn.Close()
}

func (s *PostgresSource) ListSchemas(ctx context.Context) ([]Schema, error) {
	query := `
		SELECT n.nspname
		FROM pg_namespace n
		WHERE n.nspname NOT IN ('pg_catalog', 'information_schema')
		AND n.nspname NOT LIKE 'pg\_toast%'
		AND n.nspname NOT LIKE 'pg\_temp\_%'
	`

	if !s.options.MultiSchema {
		query += " AND n.nspname = current_schema()"
	}

	var args []any
	if len(s.options.Schemas) > 0 {
		placeholders := make([]string, len(s.options.Schemas))
		for i, schema := range s.options.Schemas {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, schema)
		}
		query += fmt.Sprintf(" AND n.nspname IN (%s)", strings.Join(placeholders, ", "))
	}

	query += " ORDER BY n.nspname"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []Schema
	for rows.Next() {
		var schema Schema
		if err := rows.Scan(&schema.Name); err != nil {
			return nil, fmt.Errorf("failed to read schema metadata: %w", err)
		}
		schemas = append(schemas, schema)
	}

	return schemas, rows.Err()
}

func (s *PostgresSource) ListPhysicalTables(ctx context.Context, schema Schema) ([]Table, error) {
	const query = `
		SELECT
			c.relname,
			COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relkind IN ('r', 'p')
		AND NOT c.relispartition
		ORDER BY c.relname
	`

	rows, err := s.db.QueryContext(ctx, query, schema.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		table := Table{Schema: schema.Name}
		if err := rows.Scan(&table.Name, &table.Description); err != nil {
			return nil, fmt.Errorf("failed to read table metadata: %w", err)
		}
		tables = append(tables, table)
	}

	return tables, rows.Err()
}

func (s *PostgresSource) ListAttributes(ctx context.Context, table Table) ([]Column, error) {
	const query = `
		SELECT
			a.attnum,
			a.attname,
			format_type(a.atttypid, NULL),
			format_type(a.atttypid, a.atttypmod),
			CASE
				WHEN a.atttypid IN (1042, 1043) AND a.atttypmod > 4 THEN a.atttypmod - 4
				WHEN a.atttypid = 1700 AND a.atttypmod > 4 THEN ((a.atttypmod - 4) >> 16) & 65535
				ELSE 0
			END,
			a.attnotnull,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			COALESCE(col_description(a.attrelid, a.attnum), ''),
			EXISTS(
				SELECT 1 FROM pg_constraint con
				WHERE con.conrelid = a.attrelid
				AND a.attnum = ANY(con.conkey)
				AND con.contype = 'f'
			)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1
		AND c.relname = $2
		AND a.attnum > 0
		AND NOT a.attisdropped
		ORDER BY a.attnum
	`

	rows, err := s.db.QueryContext(ctx, query, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		err := rows.Scan(
			&col.Position,
			&col.Name,
			&col.TypeName,
			&col.FullType,
			&col.MaxLength,
			&col.Required,
			&col.DefaultValue,
			&col.Description,
			&col.ForeignKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to read column metadata: %w", err)
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (s *PostgresSource) ListConstraints(ctx context.Context, table Table) ([]Constraint, error) {
	const query = `
		SELECT
			con.conname,
			con.contype,
			a.attname,
			pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1
		AND c.relname = $2
		AND con.contype IN ('p', 'u', 'f')
		ORDER BY
			CASE con.contype WHEN 'p' THEN 0 WHEN 'u' THEN 1 ELSE 2 END,
			con.conname,
			k.ord
	`

	rows, err := s.db.QueryContext(ctx, query, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query constraint metadata: %w", err)
	}
	defer rows.Close()

	var constraints []Constraint
	for rows.Next() {
		var name, kind, column, definition string
		if err := rows.Scan(&name, &kind, &column, &definition); err != nil {
			return nil, fmt.Errorf("failed to read constraint metadata: %w", err)
		}

		last := len(constraints) - 1
		if last >= 0 && constraints[last].Name == name {
			constraints[last].Columns = append(constraints[last].Columns, column)
			continue
		}
		constraints = append(constraints, Constraint{
			Name:       name,
			Kind:       constraintKind(kind),
			Columns:    []string{column},
			Definition: definition,
		})
	}

	return constraints, rows.Err()
}

// ObjectDefinitionText renders a CREATE TABLE script from the catalog, in the
// same shape as the server-side generators: a comment header, then the
// statements.
func (s *PostgresSource) ObjectDefinitionText(ctx context.Context, table Table, opts DDLOptions) (string, error) {
	columns, err := s.ListAttributes(ctx, table)
	if err != nil {
		return "", err
	}

	constraints, err := s.ListConstraints(ctx, table)
	if err != nil {
		return "", err
	}

	var indexes []string
	if opts.FullSource {
		indexes, err = s.secondaryIndexDefinitions(ctx, table)
		if err != nil {
			return "", err
		}
	}

	return BuildDefinition(table, columns, constraints, indexes, opts), nil
}

func (s *PostgresSource) secondaryIndexDefinitions(ctx context.Context, table Table) ([]string, error) {
	const query = `
		SELECT pg_get_indexdef(x.indexrelid)
		FROM pg_index x
		JOIN pg_class c ON c.oid = x.indrelid
		JOIN pg_class ic ON ic.oid = x.indexrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relname = $2
		AND NOT EXISTS (
			SELECT 1 FROM pg_constraint con
			WHERE con.conindid = x.indexrelid
			AND con.conrelid = x.indrelid
		)
		ORDER BY ic.relname
	`

	rows, err := s.db.QueryContext(ctx, query, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query index definitions: %w", err)
	}
	defer rows.Close()

	var definitions []string
	for rows.Next() {
		var definition string
		if err := rows.Scan(&definition); err != nil {
			return nil, fmt.Errorf("failed to read index definition: %w", err)
		}
		definitions = append(definitions, definition)
	}

	return definitions, rows.Err()
}

func constraintKind(code string) ConstraintKind {
	switch code {
	case "p":
		return ConstraintPrimaryKey
	case "u":
		return ConstraintUnique
	default:
		return ConstraintForeignKey
	}
}
