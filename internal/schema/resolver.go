package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gerr "github.com/localconnect/catalog-manager/internal/errors"
)

const (
	TableCategories = "categories"
	TableProducts   = "products"
	TableBusinesses = "businesses"
)

// ColumnLister reports the physical columns of a table. A table that does not
// exist yields an empty slice and no error.
type ColumnLister interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// StaticColumns is a fixed ColumnLister keyed by table name.
type StaticColumns map[string][]string

func (sc StaticColumns) Columns(_ context.Context, table string) ([]string, error) {
	return sc[table], nil
}

// Candidate lists are ordered: the first present name wins.
var (
	categoryIDCandidates      = []string{"id", "category_id"}
	categoryNameCandidates    = []string{"name", "category_name"}
	categoryParentCandidates  = []string{"parent_id"}
	productIDCandidates       = []string{"id", "product_id"}
	productDiscountCandidates = []string{"discount", "discount_percent"}
	businessIDCandidates      = []string{"id", "business_id"}
	businessNameCandidates    = []string{"name", "business_name"}
	businessOwnerCandidates   = []string{"user_id"}

	// productRequired must exist under exactly these names.
	productRequired = []string{"business_id", "name", "description", "price", "category_id", "image", "created_at"}
)

type columnSet map[string]string

func (cs columnSet) pick(candidates []string) (string, bool) {
	for _, c := range candidates {
		if physical, ok := cs[c]; ok {
			return physical, true
		}
	}
	return "", false
}

func loadColumns(ctx context.Context, l ColumnLister, table string) (columnSet, error) {
	cols, err := l.Columns(ctx, table)
	if err != nil {
		return nil, gerr.StorageError(fmt.Errorf("can't list columns of %s: %w", table, err))
	}
	if len(cols) == 0 {
		return nil, &gerr.SchemaError{Table: table}
	}
	cs := make(columnSet, len(cols))
	for _, c := range cols {
		cs[strings.ToLower(c)] = c
	}
	return cs, nil
}

func requireColumn(cs columnSet, table, field string, candidates []string) (string, error) {
	physical, ok := cs.pick(candidates)
	if !ok {
		return "", &gerr.SchemaError{Table: table, Field: field, Candidates: candidates}
	}
	return physical, nil
}

// Resolve probes categories, products and businesses and returns a Naming
// handle. It only reads metadata. Any missing required column fails the whole
// resolution with a *gerr.SchemaError.
func Resolve(ctx context.Context, l ColumnLister) (*Naming, error) {
	n, err := resolve(ctx, l)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't resolve schema naming",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return n, nil
}

func resolve(ctx context.Context, l ColumnLister) (*Naming, error) {
	var (
		n   Naming
		err error
	)

	cats, err := loadColumns(ctx, l, TableCategories)
	if err != nil {
		return nil, err
	}
	if n.categoryID, err = requireColumn(cats, TableCategories, FieldCategoryID, categoryIDCandidates); err != nil {
		return nil, err
	}
	if n.categoryName, err = requireColumn(cats, TableCategories, FieldCategoryName, categoryNameCandidates); err != nil {
		return nil, err
	}
	// an absent parent column means a flat hierarchy, not an error
	n.categoryParent, _ = cats.pick(categoryParentCandidates)

	prds, err := loadColumns(ctx, l, TableProducts)
	if err != nil {
		return nil, err
	}
	if n.productID, err = requireColumn(prds, TableProducts, FieldProductID, productIDCandidates); err != nil {
		return nil, err
	}
	if n.productDiscount, err = requireColumn(prds, TableProducts, FieldProductDiscount, productDiscountCandidates); err != nil {
		return nil, err
	}
	for _, col := range productRequired {
		if _, err := requireColumn(prds, TableProducts, "product."+col, []string{col}); err != nil {
			return nil, err
		}
	}

	biz, err := loadColumns(ctx, l, TableBusinesses)
	if err != nil {
		return nil, err
	}
	if n.businessID, err = requireColumn(biz, TableBusinesses, FieldBusinessID, businessIDCandidates); err != nil {
		return nil, err
	}
	if n.businessName, err = requireColumn(biz, TableBusinesses, FieldBusinessName, businessNameCandidates); err != nil {
		return nil, err
	}
	if n.businessOwner, err = requireColumn(biz, TableBusinesses, FieldBusinessOwner, businessOwnerCandidates); err != nil {
		return nil, err
	}

	return &n, nil
}
