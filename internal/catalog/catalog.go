// Package catalog runs catalog listings and ownership-checked product
// mutations against the schema resolved for each call.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
)

const (
	defaultPageSize       = 10
	defaultPublicPageSize = 12
	defaultFeatured       = 4
)

type Config struct {
	PageSize       int `mapstructure:"page_size"`
	PublicPageSize int `mapstructure:"public_page_size"`
	Featured       int `mapstructure:"featured"`
}

type Service struct {
	c    Config
	repo dependency.Repository
	fs   dependency.FileStore
}

var _ dependency.CatalogService = (*Service)(nil)

func New(c *Config, repo dependency.Repository, fs dependency.FileStore) *Service {
	cfg := *c
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.PublicPageSize <= 0 {
		cfg.PublicPageSize = defaultPublicPageSize
	}
	if cfg.Featured <= 0 {
		cfg.Featured = defaultFeatured
	}
	return &Service{
		c:    cfg,
		repo: repo,
		fs:   fs,
	}
}

// ListBusinessProducts lists the products of one business.
func (s *Service) ListBusinessProducts(ctx context.Context, businessId int, q entity.ProductQuery) (*entity.ProductPage, error) {
	if businessId <= 0 {
		return nil, gerr.ErrNotAuthorizedOrNotFound
	}
	return s.query(ctx, &entity.CatalogFilter{
		BusinessId: businessId,
		Search:     q.Search,
		CategoryId: q.CategoryId,
		OnSale:     q.OnSale,
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   s.c.PageSize,
	})
}

// BrowseProducts lists products of every business.
func (s *Service) BrowseProducts(ctx context.Context, q entity.ProductQuery) (*entity.ProductPage, error) {
	return s.query(ctx, &entity.CatalogFilter{
		Search:     q.Search,
		CategoryId: q.CategoryId,
		OnSale:     q.OnSale,
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   s.c.PublicPageSize,
	})
}

func (s *Service) query(ctx context.Context, f *entity.CatalogFilter) (*entity.ProductPage, error) {
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Catalog(n).Query(ctx, f)
}

// Ping checks the storage behind the catalog.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) CategoryTree(ctx context.Context) ([]entity.CategoryNode, error) {
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Categories(n).Tree(ctx)
}

// FeaturedBusinesses returns the newest businesses with their product counts.
func (s *Service) FeaturedBusinesses(ctx context.Context) ([]entity.FeaturedBusiness, error) {
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Businesses(n).Featured(ctx, s.c.Featured)
}

// BusinessForAccount returns the business an authenticated owner manages.
func (s *Service) BusinessForAccount(ctx context.Context, acc entity.Account) (*entity.Business, error) {
	if !acc.IsBusinessOwner() {
		return nil, gerr.ErrNotAuthorizedOrNotFound
	}
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Businesses(n).ByOwner(ctx, acc.Id)
}

// GetProduct returns a product owned by businessId.
func (s *Service) GetProduct(ctx context.Context, businessId, productId int) (*entity.Product, error) {
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Products(n).GetOwned(ctx, businessId, productId)
}

// CreateProduct validates the body, stores the image and inserts the product.
// Without an image the default placeholder is used.
func (s *Service) CreateProduct(ctx context.Context, businessId int, body *entity.ProductBody, img *entity.ProductImage) (int, error) {
	if err := body.Validate(); err != nil {
		return 0, gerr.InvalidProduct(err.Error())
	}
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.checkCategory(ctx, s.repo.Categories(n), body.CategoryId); err != nil {
		return 0, err
	}

	ref := s.fs.DefaultImage()
	if img != nil {
		if ref, err = s.storeImage(ctx, img); err != nil {
			return 0, err
		}
	}

	id, err := s.repo.Products(n).Insert(ctx, businessId, &entity.ProductInsert{
		ProductBody: *body,
		Image:       ref,
	})
	if err != nil {
		if img != nil {
			s.release(ctx, ref)
		}
		return 0, err
	}
	return id, nil
}

// UpdateProduct rewrites an owned product. A new image replaces the stored
// one, which is released once the update is committed.
func (s *Service) UpdateProduct(ctx context.Context, businessId, productId int, body *entity.ProductBody, img *entity.ProductImage) error {
	if err := body.Validate(); err != nil {
		return gerr.InvalidProduct(err.Error())
	}
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return err
	}
	if err := s.checkCategory(ctx, s.repo.Categories(n), body.CategoryId); err != nil {
		return err
	}

	image := sql.NullString{}
	if img != nil {
		ref, err := s.storeImage(ctx, img)
		if err != nil {
			return err
		}
		image = sql.NullString{String: ref, Valid: true}
	}

	replaced, err := s.repo.Products(n).UpdateOwned(ctx, businessId, productId, body, image)
	if err != nil {
		if image.Valid {
			s.release(ctx, image.String)
		}
		return err
	}
	s.release(ctx, replaced)
	return nil
}

// DeleteProduct deletes an owned product and then releases its image.
func (s *Service) DeleteProduct(ctx context.Context, businessId, productId int) error {
	n, err := s.repo.Naming(ctx)
	if err != nil {
		return err
	}
	image, err := s.repo.Products(n).DeleteOwned(ctx, businessId, productId)
	if err != nil {
		return err
	}
	s.release(ctx, image)
	return nil
}

func (s *Service) checkCategory(ctx context.Context, cats dependency.Categories, categoryId int) error {
	ok, err := cats.Exists(ctx, categoryId)
	if err != nil {
		return err
	}
	if !ok {
		return gerr.InvalidProduct(fmt.Sprintf("category %d does not exist", categoryId))
	}
	return nil
}

func (s *Service) storeImage(ctx context.Context, img *entity.ProductImage) (string, error) {
	ref, err := s.fs.Store(ctx, img.Data, img.ContentType)
	if err != nil {
		if errors.Is(err, gerr.ErrInvalidProduct) {
			return "", err
		}
		return "", gerr.StorageError(fmt.Errorf("can't store image: %w", err))
	}
	return ref, nil
}

// release removes a stored image. Failures are logged, never returned.
func (s *Service) release(ctx context.Context, ref string) {
	if ref == "" || ref == s.fs.DefaultImage() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := s.fs.Release(ctx, ref); err != nil {
		slog.Default().ErrorContext(ctx, "can't release product image",
			slog.String("image", ref),
			slog.String("err", err.Error()),
		)
	}
}
