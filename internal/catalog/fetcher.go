package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

// Result carries a fetched value or the reason it is unavailable. The value
// is always the zero value when Err is set.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Available() bool {
	return r.Err == nil
}

func available[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func unavailable[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// definitionOptions are the options every report requests DDL with.
var definitionOptions = DDLOptions{FullSource: true, SeparateForeignKeys: false}

// Fetcher is the read-only access layer over a Source. Each operation makes a
// single attempt; failures are logged and returned as unavailable results so
// the caller decides whether to absorb them.
type Fetcher struct {
	source Source
	logger *logger.Logger
}

func NewFetcher(source Source, logger *logger.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		logger: logger,
	}
}

// ListTables aggregates the tables of every visible schema. A schema whose
// tables cannot be read is logged and skipped.
func (f *Fetcher) ListTables(ctx context.Context) Result[[]Table] {
	schemas, err := f.source.ListSchemas(ctx)
	if err != nil {
		f.warn(err, "list schemas", nil)
		return unavailable[[]Table](fmt.Errorf("failed to list schemas: %w", err))
	}

	var tables []Table
	for _, schema := range schemas {
		found, err := f.source.ListPhysicalTables(ctx, schema)
		if err != nil {
			f.warn(err, "list tables", logrus.Fields{"schema": schema.Name})
			continue
		}
		tables = append(tables, found...)
	}

	f.logger.Debugf("%d tables found in %d schemas", len(tables), len(schemas))
	return available(tables)
}

func (f *Fetcher) ListColumns(ctx context.Context, table Table) Result[[]Column] {
	columns, err := f.source.ListAttributes(ctx, table)
	if err != nil {
		f.warn(err, "list columns", tableFields(table))
		return unavailable[[]Column](fmt.Errorf("failed to list columns of %s: %w", table.QualifiedName(), err))
	}
	return available(columns)
}

func (f *Fetcher) ListConstraints(ctx context.Context, table Table) Result[[]Constraint] {
	constraints, err := f.source.ListConstraints(ctx, table)
	if err != nil {
		f.warn(err, "list constraints", tableFields(table))
		return unavailable[[]Constraint](fmt.Errorf("failed to list constraints of %s: %w", table.QualifiedName(), err))
	}
	return available(constraints)
}

// IsPrimaryKey fetches the table's constraints and reports whether column is
// part of its primary key. Unavailable constraints count as "no".
func (f *Fetcher) IsPrimaryKey(ctx context.Context, table Table, column Column) bool {
	return IsPrimaryKey(f.ListConstraints(ctx, table).Value, column.Name)
}

// IsPrimaryKey reports whether a primary key constraint references column.
func IsPrimaryKey(constraints []Constraint, column string) bool {
	for _, constraint := range constraints {
		if constraint.Kind != ConstraintPrimaryKey {
			continue
		}
		for _, name := range constraint.Columns {
			if name == column {
				return true
			}
		}
	}
	return false
}

// ListIndexes runs the index metadata query in its own session and groups
// the key rows into index definitions.
func (f *Fetcher) ListIndexes(ctx context.Context, table Table) Result[[]IndexDefinition] {
	rows, err := f.indexKeyRows(ctx, table)
	if err != nil {
		f.warn(err, "list indexes", tableFields(table))
		return unavailable[[]IndexDefinition](fmt.Errorf("failed to list indexes of %s: %w", table.QualifiedName(), err))
	}
	return available(GroupIndexKeys(rows))
}

func (f *Fetcher) indexKeyRows(ctx context.Context, table Table) ([]IndexKeyRow, error) {
	session, err := f.source.OpenMetaSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata session: %w", err)
	}
	defer session.Close()

	query, args := IndexKeyQuery(f.source.Dialect(), f.source.SupportsMultiSchema(), table)
	rows, err := session.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index metadata: %w", err)
	}
	defer rows.Close()

	var keys []IndexKeyRow
	for rows.Next() {
		var key IndexKeyRow
		if err := rows.Scan(&key.IndexName, &key.ColumnName, &key.KeyOrder); err != nil {
			return nil, fmt.Errorf("failed to read index metadata: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index metadata: %w", err)
	}

	return keys, nil
}

// DDL returns the table's normalized definition text, or "" when the catalog
// has none or fails to produce it.
func (f *Fetcher) DDL(ctx context.Context, table Table) Result[string] {
	text, err := f.source.ObjectDefinitionText(ctx, table, definitionOptions)
	if err != nil {
		f.warn(err, "generate ddl", tableFields(table))
		return unavailable[string](fmt.Errorf("failed to generate DDL of %s: %w", table.QualifiedName(), err))
	}
	return available(NormalizeDDL(text))
}

func (f *Fetcher) warn(err error, operation string, fields logrus.Fields) {
	entry := f.logger.WithField("operation", operation)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.WithError(err).Warn("catalog read failed")
}

func tableFields(table Table) logrus.Fields {
	return logrus.Fields{"schema": table.Schema, "table": table.Name}
}
