package schema

// Logical field names carried by a Naming handle.
const (
	FieldCategoryID      = "category.id"
	FieldCategoryName    = "category.name"
	FieldCategoryParent  = "category.parent"
	FieldProductID       = "product.id"
	FieldProductDiscount = "product.discount"
	FieldBusinessID      = "business.id"
	FieldBusinessName    = "business.name"
	FieldBusinessOwner   = "business.owner"
)

// Naming maps logical fields to the physical column names present in the
// current schema. A Naming is immutable once resolved.
type Naming struct {
	categoryID      string
	categoryName    string
	categoryParent  string
	productID       string
	productDiscount string
	businessID      string
	businessName    string
	businessOwner   string
}

func (n *Naming) CategoryID() string      { return n.categoryID }
func (n *Naming) CategoryName() string    { return n.categoryName }
func (n *Naming) ProductID() string       { return n.productID }
func (n *Naming) ProductDiscount() string { return n.productDiscount }
func (n *Naming) BusinessID() string      { return n.businessID }
func (n *Naming) BusinessName() string    { return n.businessName }
func (n *Naming) BusinessOwner() string   { return n.businessOwner }

// CategoryParent returns the parent column, or "" when the hierarchy is absent.
func (n *Naming) CategoryParent() string { return n.categoryParent }

// HasHierarchy reports whether categories carry a parent column.
func (n *Naming) HasHierarchy() bool { return n.categoryParent != "" }

// Fields returns the resolved mapping keyed by logical field name.
func (n *Naming) Fields() map[string]string {
	return map[string]string{
		FieldCategoryID:      n.categoryID,
		FieldCategoryName:    n.categoryName,
		FieldCategoryParent:  n.categoryParent,
		FieldProductID:       n.productID,
		FieldProductDiscount: n.productDiscount,
		FieldBusinessID:      n.businessID,
		FieldBusinessName:    n.businessName,
		FieldBusinessOwner:   n.businessOwner,
	}
}
