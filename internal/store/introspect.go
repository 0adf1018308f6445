package store

import (
	"context"
	"fmt"

	"github.com/localconnect/catalog-manager/internal/schema"
)

var _ schema.ColumnLister = (*MYSQLStore)(nil)

type columnInfo struct {
	Name string `db:"column_name"`
}

// Columns lists the columns of a table in the current database.
// A missing table yields an empty list.
func (ms *MYSQLStore) Columns(ctx context.Context, table string) ([]string, error) {
	query := `
	SELECT COLUMN_NAME AS column_name
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = :table
	ORDER BY ORDINAL_POSITION`

	cols, err := QueryListNamed[columnInfo](ctx, ms.db, query, map[string]any{
		"table": table,
	})
	if err != nil {
		return nil, fmt.Errorf("can't list columns of %s: %w", table, err)
	}

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names, nil
}
