package entity

import "database/sql"

// Category represents the categories table. ParentId is NULL (or 0 in legacy rows)
// for top-level categories.
type Category struct {
	Id       int           `db:"id"`
	Name     string        `db:"name"`
	ParentId sql.NullInt32 `db:"parent_id"`
}

func (c *Category) IsTopLevel() bool {
	return !c.ParentId.Valid || c.ParentId.Int32 == 0
}

// CategoryNode is a top-level category with its direct children.
type CategoryNode struct {
	Category
	Children []Category
}
