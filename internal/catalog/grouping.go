package catalog

// GroupIndexKeys folds index key rows into index definitions. Indexes are
// emitted in the order their name first appears and each index keeps its
// columns in arrival order.
func GroupIndexKeys(rows []IndexKeyRow) []IndexDefinition {
	if len(rows) == 0 {
		return nil
	}

	byName := make(map[string]int)
	var indexes []IndexDefinition
	for _, row := range rows {
		ref := IndexColumnRef{
			ColumnName: row.ColumnName,
			Ordinal:    row.KeyOrder + 1,
		}

		pos, ok := byName[row.IndexName]
		if !ok {
			pos = len(indexes)
			byName[row.IndexName] = pos
			indexes = append(indexes, IndexDefinition{Name: row.IndexName})
		}
		indexes[pos].Columns = append(indexes[pos].Columns, ref)
	}

	return indexes
}
