// Package catalogtest provides an in-memory catalog.Source for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
)

type Op string

const (
	OpListSchemas     Op = "list-schemas"
	OpListTables      Op = "list-tables"
	OpListAttributes  Op = "list-attributes"
	OpListConstraints Op = "list-constraints"
	OpDefinition      Op = "definition"
	OpOpenSession     Op = "open-session"
	OpIndexQuery      Op = "index-query"
)

// Source is a catalog.Source backed by maps. Tables are keyed by their
// qualified name. Failures are registered per operation and key, where the
// key is the schema name for OpListTables, "" for OpListSchemas and
// OpOpenSession, and the qualified table name otherwise.
type Source struct {
	MultiSchema bool
	Flavor      catalog.Dialect

	mu          sync.Mutex
	schemas     []catalog.Schema
	tables      map[string][]catalog.Table
	columns     map[string][]catalog.Column
	constraints map[string][]catalog.Constraint
	indexKeys   map[string][]catalog.IndexKeyRow
	definitions map[string]string
	failures    map[string]error

	opened  int
	closed  int
	queries []Query
}

// Query is one raw metadata query seen by a session.
type Query struct {
	SQL  string
	Args []any
}

func New() *Source {
	return &Source{
		MultiSchema: true,
		tables:      make(map[string][]catalog.Table),
		columns:     make(map[string][]catalog.Column),
		constraints: make(map[string][]catalog.Constraint),
		indexKeys:   make(map[string][]catalog.IndexKeyRow),
		definitions: make(map[string]string),
		failures:    make(map[string]error),
	}
}

// AddTable registers table and its columns, creating its schema on first use.
func (s *Source) AddTable(table catalog.Table, columns ...catalog.Column) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table.Schema]; !ok {
		s.schemas = append(s.schemas, catalog.Schema{Name: table.Schema})
	}
	s.tables[table.Schema] = append(s.tables[table.Schema], table)
	s.columns[table.QualifiedName()] = columns
	return s
}

func (s *Source) AddSchema(name string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		s.schemas = append(s.schemas, catalog.Schema{Name: name})
		s.tables[name] = nil
	}
	return s
}

func (s *Source) SetConstraints(table catalog.Table, constraints ...catalog.Constraint) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constraints[table.QualifiedName()] = constraints
	return s
}

func (s *Source) SetIndexKeys(table catalog.Table, rows ...catalog.IndexKeyRow) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexKeys[table.QualifiedName()] = rows
	return s
}

func (s *Source) SetDefinition(table catalog.Table, text string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions[table.QualifiedName()] = text
	return s
}

func (s *Source) Fail(op Op, key string, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey(op, key)] = err
	return s
}

// Sessions returns how many metadata sessions were opened and closed.
func (s *Source) Sessions() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

func (s *Source) Queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Query(nil), s.queries...)
}

func (s *Source) ListSchemas(ctx context.Context) ([]catalog.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpListSchemas, ""); err != nil {
		return nil, err
	}
	return append([]catalog.Schema(nil), s.schemas...), nil
}

func (s *Source) ListPhysicalTables(ctx context.Context, schema catalog.Schema) ([]catalog.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpListTables, schema.Name); err != nil {
		return nil, err
	}
	return append([]catalog.Table(nil), s.tables[schema.Name]...), nil
}

func (s *Source) ListAttributes(ctx context.Context, table catalog.Table) ([]catalog.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpListAttributes, table.QualifiedName()); err != nil {
		return nil, err
	}
	return append([]catalog.Column(nil), s.columns[table.QualifiedName()]...), nil
}

func (s *Source) ListConstraints(ctx context.Context, table catalog.Table) ([]catalog.Constraint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpListConstraints, table.QualifiedName()); err != nil {
		return nil, err
	}
	return append([]catalog.Constraint(nil), s.constraints[table.QualifiedName()]...), nil
}

func (s *Source) ObjectDefinitionText(ctx context.Context, table catalog.Table, opts catalog.DDLOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpDefinition, table.QualifiedName()); err != nil {
		return "", err
	}
	return s.definitions[table.QualifiedName()], nil
}

func (s *Source) SupportsMultiSchema() bool {
	return s.MultiSchema
}

func (s *Source) Dialect() catalog.Dialect {
	return s.Flavor
}

func (s *Source) OpenMetaSession(ctx context.Context) (catalog.MetaSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpOpenSession, ""); err != nil {
		return nil, err
	}
	s.opened++
	return &session{source: s}, nil
}

func (s *Source) failure(op Op, key string) error {
	return s.failures[failureKey(op, key)]
}

func failureKey(op Op, key string) string {
	return string(op) + ":" + key
}

type session struct {
	source *Source
	closed bool
}

// Query resolves the table from the bind arguments the way the catalog
// builds them: the table name first, then the owner when multi-schema.
func (q *session) Query(ctx context.Context, query string, args ...any) (catalog.Rows, error) {
	s := q.source
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, Query{SQL: query, Args: args})
	if len(args) == 0 {
		return nil, fmt.Errorf("index query without arguments")
	}

	name := fmt.Sprint(args[0])
	var keys []catalog.IndexKeyRow
	found := false
	for schema, tables := range s.tables {
		if len(args) > 1 && fmt.Sprint(args[1]) != schema {
			continue
		}
		for _, table := range tables {
			if table.Name != name {
				continue
			}
			if err := s.failure(OpIndexQuery, table.QualifiedName()); err != nil {
				return nil, err
			}
			keys = append(keys, s.indexKeys[table.QualifiedName()]...)
			found = true
		}
	}
	if !found {
		return &rows{}, nil
	}
	return &rows{keys: keys, pos: -1}, nil
}

func (q *session) Close() error {
	q.source.mu.Lock()
	defer q.source.mu.Unlock()
	if !q.closed {
		q.closed = true
		q.source.closed++
	}
	return nil
}

type rows struct {
	keys []catalog.IndexKeyRow
	pos  int
}

func (r *rows) Next() bool {
	if r.pos+1 >= len(r.keys) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Scan(dest ...any) error {
	if len(dest) != 3 {
		return fmt.Errorf("expected 3 destinations, got %d", len(dest))
	}
	key := r.keys[r.pos]

	name, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("index name destination must be *string")
	}
	column, ok := dest[1].(*string)
	if !ok {
		return fmt.Errorf("column name destination must be *string")
	}
	order, ok := dest[2].(*int)
	if !ok {
		return fmt.Errorf("key order destination must be *int")
	}

	*name = key.IndexName
	*column = key.ColumnName
	*order = key.KeyOrder
	return nil
}

func (r *rows) Err() error {
	return nil
}

func (r *rows) Close() error {
	return nil
}
