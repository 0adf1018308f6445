package store

import (
	"context"
	"fmt"

	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/localconnect/catalog-manager/internal/schema"
)

type catalogStore struct {
	*MYSQLStore
	n *schema.Naming
}

// ValidatePage rejects a page below 1 or a non-positive page size.
func ValidatePage(f *entity.CatalogFilter) error {
	if f.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", gerr.ErrInvalidPage, f.Page)
	}
	if f.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", gerr.ErrInvalidPage, f.PageSize)
	}
	return nil
}

// Query runs the count and the page statement in one read-only transaction,
// so the total always describes the same snapshot as the items.
func (cs *catalogStore) Query(ctx context.Context, f *entity.CatalogFilter) (*entity.ProductPage, error) {
	if err := ValidatePage(f); err != nil {
		return nil, err
	}

	page := &entity.ProductPage{
		Page:     f.Page,
		PageSize: f.PageSize,
	}

	err := cs.ReadTx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		sel := CategorySelection{}
		if f.CategoryId > 0 {
			ids, err := rep.Categories(cs.n).ExpandSelection(ctx, f.CategoryId)
			if err != nil {
				return err
			}
			sel = CategorySelection{Active: true, Ids: ids}
		}

		q := BuildCatalogQuery(cs.n, f, sel)

		total, err := QueryCountNamed(ctx, rep.DB(), q.Count, q.Params)
		if err != nil {
			return gerr.StorageError(fmt.Errorf("can't count products: %w", err))
		}
		page.Total = total

		// pages past the end are empty, not an error
		if f.PastEnd(total) {
			page.Items = []entity.ProductListItem{}
			return nil
		}

		items, err := QueryListNamed[entity.ProductListItem](ctx, rep.DB(), q.List, q.Params)
		if err != nil {
			return gerr.StorageError(fmt.Errorf("can't list products: %w", err))
		}
		page.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
