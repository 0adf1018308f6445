package store

import (
	"context"
	"fmt"

	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/localconnect/catalog-manager/internal/schema"
	"golang.org/x/sync/errgroup"
)

const treeConcurrency = 4

type categoryStore struct {
	*MYSQLStore
	n *schema.Naming
}

func (cs *categoryStore) selectColumns() string {
	parent := "NULL"
	if cs.n.HasHierarchy() {
		parent = "c." + quoteIdent(cs.n.CategoryParent())
	}
	return fmt.Sprintf("c.%s AS id, c.%s AS name, %s AS parent_id",
		quoteIdent(cs.n.CategoryID()), quoteIdent(cs.n.CategoryName()), parent)
}

func (cs *categoryStore) orderBy() string {
	return fmt.Sprintf("ORDER BY c.%s ASC, c.%s ASC",
		quoteIdent(cs.n.CategoryName()), quoteIdent(cs.n.CategoryID()))
}

// ListTopLevel returns categories with a NULL or zero parent. Without a parent
// column the whole table is top level.
func (cs *categoryStore) ListTopLevel(ctx context.Context) ([]entity.Category, error) {
	where := ""
	if cs.n.HasHierarchy() {
		parent := "c." + quoteIdent(cs.n.CategoryParent())
		where = fmt.Sprintf("WHERE %[1]s IS NULL OR %[1]s = 0 ", parent)
	}
	query := fmt.Sprintf("SELECT %s FROM %s c %s%s",
		cs.selectColumns(), schema.TableCategories, where, cs.orderBy())

	cats, err := QueryListNamed[entity.Category](ctx, cs.DB(), query, map[string]any{})
	if err != nil {
		return nil, gerr.StorageError(fmt.Errorf("can't list top-level categories: %w", err))
	}
	return cats, nil
}

// ListChildren returns the direct children of categoryId. A category never
// counts as its own child.
func (cs *categoryStore) ListChildren(ctx context.Context, categoryId int) ([]entity.Category, error) {
	// legacy top-level rows carry parent 0, so 0 is never a parent
	if !cs.n.HasHierarchy() || categoryId <= 0 {
		return []entity.Category{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s c WHERE c.%s = :parentId AND c.%s <> :parentId %s",
		cs.selectColumns(),
		schema.TableCategories,
		quoteIdent(cs.n.CategoryParent()),
		quoteIdent(cs.n.CategoryID()),
		cs.orderBy(),
	)

	cats, err := QueryListNamed[entity.Category](ctx, cs.DB(), query, map[string]any{
		"parentId": categoryId,
	})
	if err != nil {
		return nil, gerr.StorageError(fmt.Errorf("can't list children of category %d: %w", categoryId, err))
	}
	return cats, nil
}

// ExpandSelection returns categoryId followed by its direct children. With a
// flat hierarchy, or for an unknown id, the result is the id alone.
func (cs *categoryStore) ExpandSelection(ctx context.Context, categoryId int) ([]int, error) {
	if !cs.n.HasHierarchy() {
		return []int{categoryId}, nil
	}
	query := fmt.Sprintf("SELECT c.%[1]s FROM %[2]s c WHERE c.%[3]s = :categoryId AND c.%[1]s <> :categoryId ORDER BY c.%[1]s ASC",
		quoteIdent(cs.n.CategoryID()),
		schema.TableCategories,
		quoteIdent(cs.n.CategoryParent()),
	)

	children, err := QueryIdsNamed(ctx, cs.DB(), query, map[string]any{
		"categoryId": categoryId,
	})
	if err != nil {
		return nil, gerr.StorageError(fmt.Errorf("can't expand category %d: %w", categoryId, err))
	}
	return append([]int{categoryId}, children...), nil
}

// Tree returns the top-level categories with their direct children.
func (cs *categoryStore) Tree(ctx context.Context) ([]entity.CategoryNode, error) {
	top, err := cs.ListTopLevel(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]entity.CategoryNode, len(top))
	for i, c := range top {
		nodes[i] = entity.CategoryNode{Category: c, Children: []entity.Category{}}
	}
	if !cs.n.HasHierarchy() {
		return nodes, nil
	}

	// A transaction holds a single connection, so children are read one
	// category at a time there.
	if cs.InTx() {
		for i := range nodes {
			children, err := cs.ListChildren(ctx, nodes[i].Id)
			if err != nil {
				return nil, err
			}
			nodes[i].Children = children
		}
		return nodes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(treeConcurrency)
	for i := range nodes {
		i := i
		g.Go(func() error {
			children, err := cs.ListChildren(gctx, nodes[i].Id)
			if err != nil {
				return err
			}
			nodes[i].Children = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Exists reports whether a category row carries the id.
func (cs *categoryStore) Exists(ctx context.Context, categoryId int) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s c WHERE c.%s = :categoryId",
		schema.TableCategories, quoteIdent(cs.n.CategoryID()))

	n, err := QueryCountNamed(ctx, cs.DB(), query, map[string]any{
		"categoryId": categoryId,
	})
	if err != nil {
		return false, gerr.StorageError(fmt.Errorf("can't check category %d: %w", categoryId, err))
	}
	return n > 0, nil
}
