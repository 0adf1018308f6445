package store

import (
	"context"
	"strings"
	"testing"

	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/localconnect/catalog-manager/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentNaming(t *testing.T) *schema.Naming {
	t.Helper()
	n, err := schema.Resolve(context.Background(), schema.StaticColumns{
		schema.TableCategories: {"id", "name", "parent_id"},
		schema.TableProducts:   {"id", "business_id", "category_id", "name", "description", "price", "discount", "image", "created_at"},
		schema.TableBusinesses: {"id", "user_id", "name"},
	})
	require.NoError(t, err)
	return n
}

func legacyNaming(t *testing.T) *schema.Naming {
	t.Helper()
	n, err := schema.Resolve(context.Background(), schema.StaticColumns{
		schema.TableCategories: {"category_id", "category_name"},
		schema.TableProducts:   {"product_id", "business_id", "category_id", "name", "description", "price", "discount_percent", "image", "created_at"},
		schema.TableBusinesses: {"business_id", "user_id", "business_name"},
	})
	require.NoError(t, err)
	return n
}

func whereOf(count string) string {
	i := strings.Index(count, "WHERE")
	if i < 0 {
		return ""
	}
	return count[i:]
}

func TestBuildCatalogQueryScoped(t *testing.T) {
	f := &entity.CatalogFilter{
		BusinessId: 7,
		Search:     "Phone",
		Page:       2,
		PageSize:   10,
	}
	q := BuildCatalogQuery(currentNaming(t), f, CategorySelection{Active: true, Ids: []int{1, 2}})

	assert.Contains(t, q.Count, "p.business_id = :businessId")
	assert.Contains(t, q.Count, "(LOWER(p.name) LIKE :search OR LOWER(p.description) LIKE :search)")
	assert.Contains(t, q.Count, "p.category_id IN (:categoryIds)")

	// count and page share the predicate
	where := whereOf(q.Count)
	require.NotEmpty(t, where)
	assert.Contains(t, q.List, where)

	assert.Contains(t, q.List, "ORDER BY p.created_at DESC, p.`id` ASC")
	assert.Contains(t, q.List, "LIMIT :limit OFFSET :offset")

	assert.Equal(t, 7, q.Params["businessId"])
	assert.Equal(t, "%phone%", q.Params["search"])
	assert.Equal(t, []int{1, 2}, q.Params["categoryIds"])
	assert.Equal(t, 10, q.Params["limit"])
	assert.Equal(t, 10, q.Params["offset"])
}

func TestBuildCatalogQueryPublic(t *testing.T) {
	f := &entity.CatalogFilter{Page: 1, PageSize: 12}
	q := BuildCatalogQuery(currentNaming(t), f, CategorySelection{})

	assert.NotContains(t, q.Count, "WHERE")
	assert.NotContains(t, q.List, "business_id = :businessId")
	assert.NotContains(t, q.Params, "businessId")
	assert.Equal(t, 0, q.Params["offset"])
}

func TestBuildCatalogQueryEmptySelectionMatchesNothing(t *testing.T) {
	f := &entity.CatalogFilter{BusinessId: 1, Page: 1, PageSize: 10}
	q := BuildCatalogQuery(currentNaming(t), f, CategorySelection{Active: true})

	assert.Contains(t, q.Count, "1 = 0")
	assert.Contains(t, q.List, "1 = 0")
	assert.NotContains(t, q.Params, "categoryIds")
}

func TestBuildCatalogQueryLegacyNames(t *testing.T) {
	f := &entity.CatalogFilter{Page: 1, PageSize: 10, OnSale: true}
	q := BuildCatalogQuery(legacyNaming(t), f, CategorySelection{})

	assert.Contains(t, q.List, "p.`product_id` AS id")
	assert.Contains(t, q.List, "COALESCE(p.`discount_percent`, 0) AS discount")
	assert.Contains(t, q.List, "c.`category_name` AS category_name")
	assert.Contains(t, q.List, "LEFT JOIN categories c ON p.category_id = c.`category_id`")
	assert.Contains(t, q.List, "b.`business_name` AS business_name")
	assert.Contains(t, q.List, "LEFT JOIN businesses b ON p.business_id = b.`business_id`")
	assert.Contains(t, q.Count, "p.`discount_percent` > 0")
}

func TestBuildCatalogQueryDiscountOrder(t *testing.T) {
	f := &entity.CatalogFilter{Page: 1, PageSize: 4, OnSale: true, Sort: entity.SortDiscount}
	q := BuildCatalogQuery(legacyNaming(t), f, CategorySelection{})

	assert.Contains(t, q.Count, "p.`discount_percent` > 0")
	assert.Contains(t, q.List, "ORDER BY COALESCE(p.`discount_percent`, 0) DESC, p.created_at DESC, p.`product_id` ASC")
	assert.NotContains(t, q.Count, "ORDER BY")
}

func TestBuildCatalogQueryKeepsInputOutOfSQL(t *testing.T) {
	hostile := "'; DROP TABLE products; --"
	f := &entity.CatalogFilter{BusinessId: 1, Search: hostile, Page: 1, PageSize: 10}
	q := BuildCatalogQuery(currentNaming(t), f, CategorySelection{})

	assert.NotContains(t, q.List, "DROP TABLE")
	assert.NotContains(t, q.Count, "DROP TABLE")
	assert.Equal(t, "%'; drop table products; --%", q.Params["search"])
}

func TestBuildCatalogQueryBlankSearchIgnored(t *testing.T) {
	f := &entity.CatalogFilter{BusinessId: 1, Search: "   ", Page: 1, PageSize: 10}
	q := BuildCatalogQuery(currentNaming(t), f, CategorySelection{})

	assert.NotContains(t, q.Count, "LIKE")
	assert.NotContains(t, q.Params, "search")
}

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "phone", want: "%phone%"},
		{in: "  PHONE  ", want: "%phone%"},
		{in: "50%_off", want: `%50\%\_off%`},
		{in: `back\slash`, want: `%back\\slash%`},
		{in: "cafe\u0301", want: "%caf\u00e9%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchPattern(tt.in))
		})
	}
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(&entity.CatalogFilter{Page: 1, PageSize: 10}))
	assert.Error(t, ValidatePage(&entity.CatalogFilter{Page: 0, PageSize: 10}))
	assert.Error(t, ValidatePage(&entity.CatalogFilter{Page: 1, PageSize: 0}))
	assert.Error(t, ValidatePage(&entity.CatalogFilter{Page: -3, PageSize: 10}))
}
