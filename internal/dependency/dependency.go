package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/localconnect/catalog-manager/internal/schema"
)

type (
	ContextStore interface {
		// Tx runs f in a read-write transaction. f's error rolls it back.
		Tx(ctx context.Context, f func(ctx context.Context, rep Repository) error) error
		// ReadTx runs f in a read-only transaction over one consistent snapshot.
		ReadTx(ctx context.Context, f func(ctx context.Context, rep Repository) error) error
	}

	// Categories is the category hierarchy accessor.
	Categories interface {
		// ListTopLevel returns categories without a parent sorted by name,
		// or every category when the hierarchy is absent.
		ListTopLevel(ctx context.Context) ([]entity.Category, error)
		// ListChildren returns the direct children of a category sorted by name.
		ListChildren(ctx context.Context, categoryId int) ([]entity.Category, error)
		// ExpandSelection returns the ids a filter on categoryId should match.
		// The result always contains categoryId.
		ExpandSelection(ctx context.Context, categoryId int) ([]int, error)
		// Tree returns every top-level category with its direct children.
		Tree(ctx context.Context) ([]entity.CategoryNode, error)
		// Exists reports whether a category with the id is present.
		Exists(ctx context.Context, categoryId int) (bool, error)
	}

	// Catalog runs filtered, paginated product listings.
	Catalog interface {
		// Query returns one page and the total count of the same predicate.
		Query(ctx context.Context, f *entity.CatalogFilter) (*entity.ProductPage, error)
	}

	// Products performs ownership-checked product mutations.
	Products interface {
		ContextStore
		// GetOwned returns a product only when it belongs to businessId.
		GetOwned(ctx context.Context, businessId, productId int) (*entity.Product, error)
		// Insert adds a product to businessId and returns its id.
		Insert(ctx context.Context, businessId int, prd *entity.ProductInsert) (int, error)
		// UpdateOwned updates the product fields, and the image when image is valid.
		// It returns the replaced image reference ("" when the image was kept).
		UpdateOwned(ctx context.Context, businessId, productId int, body *entity.ProductBody, image sql.NullString) (string, error)
		// DeleteOwned deletes the product and returns its image reference.
		DeleteOwned(ctx context.Context, businessId, productId int) (string, error)
	}

	Businesses interface {
		// ByOwner returns the business owned by the account.
		ByOwner(ctx context.Context, accountId int) (*entity.Business, error)
		// Featured returns up to limit businesses, newest first, with their product counts.
		Featured(ctx context.Context, limit int) ([]entity.FeaturedBusiness, error)
	}

	Repository interface {
		ContextStore
		// Naming resolves the physical column names of the current schema.
		Naming(ctx context.Context) (*schema.Naming, error)
		Categories(n *schema.Naming) Categories
		Catalog(n *schema.Naming) Catalog
		Products(n *schema.Naming) Products
		Businesses(n *schema.Naming) Businesses
		Ping(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// CatalogService is what the HTTP layer needs from the catalog.
	CatalogService interface {
		Ping(ctx context.Context) error
		BrowseProducts(ctx context.Context, q entity.ProductQuery) (*entity.ProductPage, error)
		CategoryTree(ctx context.Context) ([]entity.CategoryNode, error)
		FeaturedBusinesses(ctx context.Context) ([]entity.FeaturedBusiness, error)
		BusinessForAccount(ctx context.Context, acc entity.Account) (*entity.Business, error)
		ListBusinessProducts(ctx context.Context, businessId int, q entity.ProductQuery) (*entity.ProductPage, error)
		GetProduct(ctx context.Context, businessId, productId int) (*entity.Product, error)
		CreateProduct(ctx context.Context, businessId int, body *entity.ProductBody, img *entity.ProductImage) (int, error)
		UpdateProduct(ctx context.Context, businessId, productId int, body *entity.ProductBody, img *entity.ProductImage) error
		DeleteProduct(ctx context.Context, businessId, productId int) error
	}

	// FileStore keeps product images.
	FileStore interface {
		// Store saves the bytes and returns a reference to them.
		Store(ctx context.Context, data []byte, contentType string) (string, error)
		// Release removes the stored resource behind ref.
		Release(ctx context.Context, ref string) error
		// DefaultImage is the shared placeholder reference that is never released.
		DefaultImage() string
	}
)
