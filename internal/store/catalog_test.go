package store

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listColumns = []string{
	"id", "business_id", "category_id", "name", "description", "price",
	"discount", "image", "created_at", "category_name", "business_name",
}

func TestCatalogQueryExpandsCategory(t *testing.T) {
	ms, mock := newMockStore(t)
	n := currentNaming(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.`id` FROM categories c WHERE c.`parent_id` = ?")).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p WHERE p.business_id = ? AND p.category_id IN (")).
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at DESC, p.`id` ASC")).
		WithArgs(5, 1, 2, 10, 0).
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow(12, 5, 2, "Phone Case", "Silicone case", "19.99", "0", "case.jpg", now, "Accessories", "Shop A").
			AddRow(11, 5, 1, "Phone", "Smartphone", "100.00", "25", "phone.jpg", now.Add(-time.Hour), "Electronics", "Shop A"))
	mock.ExpectCommit()

	page, err := ms.Catalog(n).Query(context.Background(), &entity.CatalogFilter{
		BusinessId: 5,
		CategoryId: 1,
		Page:       1,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Phone Case", page.Items[0].Name)
	assert.Equal(t, "Accessories", page.Items[0].CategoryName.String)
	assert.Equal(t, "75", page.Items[1].DisplayPrice().String())
}

func TestCatalogQueryFlatCategory(t *testing.T) {
	ms, mock := newMockStore(t)
	n := legacyNaming(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p WHERE p.category_id IN (?)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	page, err := ms.Catalog(n).Query(context.Background(), &entity.CatalogFilter{
		CategoryId: 3,
		Page:       1,
		PageSize:   12,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestCatalogQueryPagePastEnd(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p WHERE p.business_id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectCommit()

	page, err := ms.Catalog(currentNaming(t)).Query(context.Background(), &entity.CatalogFilter{
		BusinessId: 5,
		Page:       3,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestCatalogQueryHugePageIsEmpty(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p WHERE p.business_id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectCommit()

	page, err := ms.Catalog(currentNaming(t)).Query(context.Background(), &entity.CatalogFilter{
		BusinessId: 5,
		Page:       math.MaxInt/10 + 2,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 5, page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestCatalogQueryInvalidPage(t *testing.T) {
	ms, mock := newMockStore(t)

	_, err := ms.Catalog(currentNaming(t)).Query(context.Background(), &entity.CatalogFilter{
		BusinessId: 5,
		Page:       0,
		PageSize:   10,
	})
	assert.ErrorIs(t, err, gerr.ErrInvalidPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogQueryStorageFailure(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p")).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := ms.Catalog(currentNaming(t)).Query(context.Background(), &entity.CatalogFilter{
		Page:     1,
		PageSize: 10,
	})
	assert.ErrorIs(t, err, gerr.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogQueryBeginFailure(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := ms.Catalog(currentNaming(t)).Query(context.Background(), &entity.CatalogFilter{
		Page:     1,
		PageSize: 10,
	})
	assert.ErrorIs(t, err, gerr.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
