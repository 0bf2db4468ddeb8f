package catalog

import (
	"fmt"
	"strings"
)

// BuildDefinition renders the definition script of a table. The first
// ddlHeaderLines lines are a comment header; NormalizeDDL strips them.
//
// Constraints are written inline unless opts.SeparateForeignKeys moves
// foreign keys to ALTER TABLE statements. opts.FullSource appends secondary
// indexes and comments.
func BuildDefinition(table Table, columns []Column, constraints []Constraint, indexes []string, opts DDLOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "-- %s definition\n", table.QualifiedName())
	b.WriteString("\n")
	fmt.Fprintf(&b, "-- Drop table\n")
	fmt.Fprintf(&b, "-- DROP TABLE %s;\n", quoteQualified(table))

	var defs []string
	for _, col := range columns {
		def := fmt.Sprintf("\t%s %s", quoteIdent(col.Name), columnType(col))
		if col.Required {
			def += " NOT NULL"
		}
		if col.DefaultValue != "" {
			def += " DEFAULT " + col.DefaultValue
		}
		defs = append(defs, def)
	}

	var alters []string
	for _, con := range constraints {
		if con.Definition == "" {
			continue
		}
		if con.Kind == ConstraintForeignKey && opts.SeparateForeignKeys {
			alters = append(alters, fmt.Sprintf(
				"ALTER TABLE %s ADD CONSTRAINT %s %s;",
				quoteQualified(table),
				quoteIdent(con.Name),
				con.Definition,
			))
			continue
		}
		defs = append(defs, fmt.Sprintf("\tCONSTRAINT %s %s", quoteIdent(con.Name), con.Definition))
	}

	fmt.Fprintf(&b, "CREATE TABLE %s (\n%s\n);\n", quoteQualified(table), strings.Join(defs, ",\n"))

	if opts.FullSource {
		for _, idx := range indexes {
			fmt.Fprintf(&b, "%s;\n", strings.TrimSuffix(idx, ";"))
		}
		if table.Description != "" {
			fmt.Fprintf(&b, "COMMENT ON TABLE %s IS %s;\n", quoteQualified(table), quoteLiteral(table.Description))
		}
		for _, col := range columns {
			if col.Description == "" {
				continue
			}
			fmt.Fprintf(&b, "COMMENT ON COLUMN %s.%s IS %s;\n",
				quoteQualified(table), quoteIdent(col.Name), quoteLiteral(col.Description))
		}
	}

	for _, alter := range alters {
		b.WriteString(alter + "\n")
	}

	return b.String()
}

func columnType(col Column) string {
	if col.FullType != "" {
		return col.FullType
	}
	return col.TypeName
}

func quoteQualified(table Table) string {
	if table.Schema == "" {
		return quoteIdent(table.Name)
	}
	return quoteIdent(table.Schema) + "." + quoteIdent(table.Name)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
