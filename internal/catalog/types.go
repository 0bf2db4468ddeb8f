package catalog

// Schema is a user or schema scope visible to the data source.
type Schema struct {
	Name string
}

// Table is a read-only snapshot of one physical table for the duration of an
// export.
type Table struct {
	Schema      string
	Name        string
	Description string
}

// QualifiedName returns "schema.name", the label used in reports.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column belongs to exactly one table. Primary key membership is not stored
// here; it is derived from the table's constraints.
type Column struct {
	Name         string
	Position     int
	TypeName     string
	FullType     string
	MaxLength    int64
	Required     bool
	ForeignKey   bool
	DefaultValue string
	Description  string
}

type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "PRIMARY KEY"
	ConstraintUnique     ConstraintKind = "UNIQUE"
	ConstraintForeignKey ConstraintKind = "FOREIGN KEY"
)

type Constraint struct {
	Name       string
	Kind       ConstraintKind
	Columns    []string
	Definition string
}

// IndexColumnRef is one key column of an index. Ordinal is 1-based.
type IndexColumnRef struct {
	ColumnName string
	Ordinal    int
}

// IndexDefinition groups the key columns of one index in key order.
type IndexDefinition struct {
	Name    string
	Columns []IndexColumnRef
}

// IndexKeyRow is one raw row of the index metadata query. KeyOrder is the
// 0-based position reported by the catalog.
type IndexKeyRow struct {
	IndexName  string
	ColumnName string
	KeyOrder   int
}

// DDLOptions are passed to the catalog's definition generator.
type DDLOptions struct {
	FullSource          bool
	SeparateForeignKeys bool
}
