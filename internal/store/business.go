package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/localconnect/catalog-manager/internal/schema"
)

type businessStore struct {
	*MYSQLStore
	n *schema.Naming
}

// ByOwner returns the lowest-id business of the account.
func (bs *businessStore) ByOwner(ctx context.Context, accountId int) (*entity.Business, error) {
	query := fmt.Sprintf(`
	SELECT b.%[1]s AS id, b.%[2]s AS owner_id, b.%[3]s AS name
	FROM %[4]s b
	WHERE b.%[2]s = :ownerId
	ORDER BY b.%[1]s ASC
	LIMIT 1`,
		quoteIdent(bs.n.BusinessID()),
		quoteIdent(bs.n.BusinessOwner()),
		quoteIdent(bs.n.BusinessName()),
		schema.TableBusinesses,
	)

	b, err := QueryNamedOne[entity.Business](ctx, bs.DB(), query, map[string]any{
		"ownerId": accountId,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrNotAuthorizedOrNotFound
		}
		return nil, gerr.StorageError(fmt.Errorf("can't get business of account %d: %w", accountId, err))
	}
	return &b, nil
}

// Featured lists the newest businesses with how many products each lists.
// Ids are auto-incremented, so id order is creation order.
func (bs *businessStore) Featured(ctx context.Context, limit int) ([]entity.FeaturedBusiness, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", gerr.ErrInvalidPage, limit)
	}
	query := fmt.Sprintf(`
	SELECT b.%[1]s AS id, b.%[2]s AS owner_id, b.%[3]s AS name, COUNT(p.%[4]s) AS product_count
	FROM %[5]s b
	LEFT JOIN %[6]s p ON p.business_id = b.%[1]s
	GROUP BY b.%[1]s, b.%[2]s, b.%[3]s
	ORDER BY b.%[1]s DESC
	LIMIT :limit`,
		quoteIdent(bs.n.BusinessID()),
		quoteIdent(bs.n.BusinessOwner()),
		quoteIdent(bs.n.BusinessName()),
		quoteIdent(bs.n.ProductID()),
		schema.TableBusinesses,
		schema.TableProducts,
	)

	bb, err := QueryListNamed[entity.FeaturedBusiness](ctx, bs.DB(), query, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return nil, gerr.StorageError(fmt.Errorf("can't list featured businesses: %w", err))
	}
	return bb, nil
}
