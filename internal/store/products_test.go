package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/localconnect/catalog-manager/internal/entity"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockQuery   = "SELECT p.image FROM products p WHERE p.`id` = ? AND p.business_id = ? FOR UPDATE"
	deleteQuery = "DELETE FROM products WHERE `id` = ? AND business_id = ?"
)

func phoneBody() *entity.ProductBody {
	return &entity.ProductBody{
		Name:        "Phone",
		Description: "Smartphone",
		Price:       decimal.RequireFromString("100.00"),
		Discount:    decimal.NewFromInt(10),
		CategoryId:  1,
	}
}

func TestDeleteOwned(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("assets/img/products/phone.jpg"))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	img, err := ms.Products(currentNaming(t)).DeleteOwned(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "assets/img/products/phone.jpg", img)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwnedForeignProduct(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 2).
		WillReturnRows(sqlmock.NewRows([]string{"image"}))
	mock.ExpectRollback()

	_, err := ms.Products(currentNaming(t)).DeleteOwned(context.Background(), 2, 10)
	assert.ErrorIs(t, err, gerr.ErrNotAuthorizedOrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwnedNothingDeleted(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := ms.Products(currentNaming(t)).DeleteOwned(context.Background(), 1, 10)
	assert.ErrorIs(t, err, gerr.ErrNotAuthorizedOrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwnedLegacyIdentity(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.`product_id` = ? AND p.business_id = ? FOR UPDATE")).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE `product_id` = ? AND business_id = ?")).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	img, err := ms.Products(legacyNaming(t)).DeleteOwned(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, img)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOwnedReplacesImage(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("old.jpg"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET")).
		WithArgs("Phone", "Smartphone", sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "new.jpg", 10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	replaced, err := ms.Products(currentNaming(t)).UpdateOwned(context.Background(), 1, 10, phoneBody(),
		sql.NullString{String: "new.jpg", Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "old.jpg", replaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOwnedKeepsImage(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("old.jpg"))
	// unchanged values report zero affected rows
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET")).
		WithArgs("Phone", "Smartphone", sqlmock.AnyArg(), sqlmock.AnyArg(), 1, 10, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	replaced, err := ms.Products(currentNaming(t)).UpdateOwned(context.Background(), 1, 10, phoneBody(), sql.NullString{})
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOwnedForeignProduct(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs(10, 2).
		WillReturnRows(sqlmock.NewRows([]string{"image"}))
	mock.ExpectRollback()

	_, err := ms.Products(currentNaming(t)).UpdateOwned(context.Background(), 2, 10, phoneBody(), sql.NullString{})
	assert.ErrorIs(t, err, gerr.ErrNotAuthorizedOrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products (business_id, category_id, name, description, price, `discount`, image, created_at)")).
		WithArgs(1, 1, "Phone", "Smartphone", sqlmock.AnyArg(), sqlmock.AnyArg(), "phone.jpg", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := ms.Products(currentNaming(t)).Insert(context.Background(), 1, &entity.ProductInsert{
		ProductBody: *phoneBody(),
		Image:       "phone.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUnknownCategory(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	_, err := ms.Products(currentNaming(t)).Insert(context.Background(), 1, &entity.ProductInsert{
		ProductBody: *phoneBody(),
	})
	assert.ErrorIs(t, err, gerr.ErrInvalidProduct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwned(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.`id` = ? AND p.business_id = ?")).
		WithArgs(10, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := ms.Products(currentNaming(t)).GetOwned(context.Background(), 2, 10)
	assert.ErrorIs(t, err, gerr.ErrNotAuthorizedOrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
