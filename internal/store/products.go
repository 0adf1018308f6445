package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/localconnect/catalog-manager/internal/schema"
)

type productStore struct {
	*MYSQLStore
	n *schema.Naming
}

type productImage struct {
	Image sql.NullString `db:"image"`
}

func ownershipParams(businessId, productId int) map[string]any {
	return map[string]any{
		"businessId": businessId,
		"productId":  productId,
	}
}

// GetOwned returns the product only when businessId owns it.
func (ps *productStore) GetOwned(ctx context.Context, businessId, productId int) (*entity.Product, error) {
	query := fmt.Sprintf(`
	SELECT
		p.%[1]s AS id,
		p.business_id,
		p.category_id,
		p.name,
		p.description,
		p.price,
		COALESCE(p.%[2]s, 0) AS discount,
		p.image,
		p.created_at
	FROM %[3]s p
	WHERE p.%[1]s = :productId AND p.business_id = :businessId`,
		quoteIdent(ps.n.ProductID()), quoteIdent(ps.n.ProductDiscount()), schema.TableProducts)

	prd, err := QueryNamedOne[entity.Product](ctx, ps.DB(), query, ownershipParams(businessId, productId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrNotAuthorizedOrNotFound
		}
		return nil, gerr.StorageError(fmt.Errorf("can't get product %d: %w", productId, err))
	}
	return &prd, nil
}

// lockOwned locks the product row for the rest of the transaction and returns
// its image. A missing row and a foreign row are indistinguishable.
func lockOwned(ctx context.Context, rep dependency.Repository, n *schema.Naming, businessId, productId int) (sql.NullString, error) {
	query := fmt.Sprintf(`SELECT p.image FROM %s p WHERE p.%s = :productId AND p.business_id = :businessId FOR UPDATE`,
		schema.TableProducts, quoteIdent(n.ProductID()))

	img, err := QueryNamedOne[productImage](ctx, rep.DB(), query, ownershipParams(businessId, productId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.NullString{}, gerr.ErrNotAuthorizedOrNotFound
		}
		return sql.NullString{}, gerr.StorageError(fmt.Errorf("can't lock product %d: %w", productId, err))
	}
	return img.Image, nil
}

// Insert adds a product owned by businessId.
func (ps *productStore) Insert(ctx context.Context, businessId int, prd *entity.ProductInsert) (int, error) {
	query := fmt.Sprintf(`
	INSERT INTO %s (business_id, category_id, name, description, price, %s, image, created_at)
	VALUES (:businessId, :categoryId, :name, :description, :price, :discount, :image, :createdAt)`,
		schema.TableProducts, quoteIdent(ps.n.ProductDiscount()))

	id, err := ExecNamedLastId(ctx, ps.DB(), query, map[string]any{
		"businessId":  businessId,
		"categoryId":  prd.CategoryId,
		"name":        prd.Name,
		"description": prd.Description,
		"price":       prd.Price,
		"discount":    prd.Discount,
		"image":       prd.Image,
		"createdAt":   ps.Now(),
	})
	if err != nil {
		if IsErrForeignKeyViolation(err) {
			return 0, gerr.InvalidProduct("unknown category or business")
		}
		return 0, gerr.StorageError(fmt.Errorf("can't insert product: %w", err))
	}
	return id, nil
}

// UpdateOwned rewrites the editable fields of an owned product. The image is
// replaced only when image is valid, and the replaced reference is returned.
func (ps *productStore) UpdateOwned(ctx context.Context, businessId, productId int, body *entity.ProductBody, image sql.NullString) (string, error) {
	var replaced string
	err := ps.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		prev, err := lockOwned(ctx, rep, ps.n, businessId, productId)
		if err != nil {
			return err
		}

		params := ownershipParams(businessId, productId)
		params["name"] = body.Name
		params["description"] = body.Description
		params["price"] = body.Price
		params["discount"] = body.Discount
		params["categoryId"] = body.CategoryId

		setImage := ""
		if image.Valid {
			setImage = ", image = :image"
			params["image"] = image.String
		}

		query := fmt.Sprintf(`
		UPDATE %s SET
			name = :name,
			description = :description,
			price = :price,
			%s = :discount,
			category_id = :categoryId%s
		WHERE %s = :productId AND business_id = :businessId`,
			schema.TableProducts, quoteIdent(ps.n.ProductDiscount()), setImage, quoteIdent(ps.n.ProductID()))

		// MySQL reports zero affected rows for an update that changes nothing,
		// so ownership rests on the row lock taken above.
		if _, err := ExecNamed(ctx, rep.DB(), query, params); err != nil {
			if IsErrForeignKeyViolation(err) {
				return gerr.InvalidProduct("unknown category")
			}
			return gerr.StorageError(fmt.Errorf("can't update product %d: %w", productId, err))
		}

		if image.Valid && prev.Valid && prev.String != image.String {
			replaced = prev.String
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return replaced, nil
}

// DeleteOwned removes an owned product and returns its image reference.
// Of two concurrent deletes of the same product exactly one succeeds; the
// other blocks on the row lock and then finds no row.
func (ps *productStore) DeleteOwned(ctx context.Context, businessId, productId int) (string, error) {
	var image string
	err := ps.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		img, err := lockOwned(ctx, rep, ps.n, businessId, productId)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = :productId AND business_id = :businessId`,
			schema.TableProducts, quoteIdent(ps.n.ProductID()))

		n, err := ExecNamed(ctx, rep.DB(), query, ownershipParams(businessId, productId))
		if err != nil {
			return gerr.StorageError(fmt.Errorf("can't delete product %d: %w", productId, err))
		}
		if n != 1 {
			return gerr.ErrNotAuthorizedOrNotFound
		}
		image = img.String
		return nil
	})
	if err != nil {
		return "", err
	}
	return image, nil
}
