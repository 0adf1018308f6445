package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryColumns = []string{"id", "name", "parent_id"}

func TestListTopLevel(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.`parent_id` IS NULL OR c.`parent_id` = 0 ORDER BY c.`name` ASC")).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(4, "Books", nil).
			AddRow(1, "Electronics", 0))

	cats, err := ms.Categories(currentNaming(t)).ListTopLevel(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Books", cats[0].Name)
	assert.True(t, cats[0].IsTopLevel())
	assert.True(t, cats[1].IsTopLevel())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTopLevelFlat(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.`category_id` AS id, c.`category_name` AS name, NULL AS parent_id FROM categories c ORDER BY")).
		WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(1, "Electronics", nil))

	cats, err := ms.Categories(legacyNaming(t)).ListTopLevel(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChildren(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.`parent_id` = ? AND c.`id` <> ?")).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(2, "Accessories", 1))

	cats, err := ms.Categories(currentNaming(t)).ListChildren(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.False(t, cats[0].IsTopLevel())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChildrenOfZeroIsEmpty(t *testing.T) {
	ms, mock := newMockStore(t)

	cats, err := ms.Categories(currentNaming(t)).ListChildren(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlatHierarchyNeedsNoQueries(t *testing.T) {
	ms, mock := newMockStore(t)
	cats := ms.Categories(legacyNaming(t))

	children, err := cats.ListChildren(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, children)

	ids, err := cats.ExpandSelection(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpandSelection(t *testing.T) {
	ms, mock := newMockStore(t)
	expand := regexp.QuoteMeta("SELECT c.`id` FROM categories c WHERE c.`parent_id` = ?")

	mock.ExpectQuery(expand).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(3))
	mock.ExpectQuery(expand).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(expand).
		WithArgs(999, 999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cats := ms.Categories(currentNaming(t))

	ids, err := cats.ExpandSelection(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	// a child matches only itself
	ids, err = cats.ExpandSelection(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)

	// an unknown category still filters by its id
	ids, err = cats.ExpandSelection(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, []int{999}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTreeInTransaction(t *testing.T) {
	ms, mock := newMockStore(t)
	n := currentNaming(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("IS NULL OR c.`parent_id` = 0")).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(4, "Books", nil).
			AddRow(1, "Electronics", nil))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.`parent_id` = ? AND c.`id` <> ?")).
		WithArgs(4, 4).
		WillReturnRows(sqlmock.NewRows(categoryColumns))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.`parent_id` = ? AND c.`id` <> ?")).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(2, "Accessories", 1))
	mock.ExpectCommit()

	var tree []entity.CategoryNode
	err := ms.ReadTx(context.Background(), func(ctx context.Context, rep dependency.Repository) error {
		var err error
		tree, err = rep.Categories(n).Tree(ctx)
		return err
	})
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Empty(t, tree[0].Children)
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "Accessories", tree[1].Children[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	ms, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories c WHERE c.`id` = ?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := ms.Categories(currentNaming(t)).Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
