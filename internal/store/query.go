package store

import (
	"fmt"
	"strings"

	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/localconnect/catalog-manager/internal/schema"
	"golang.org/x/text/unicode/norm"
)

// CategorySelection is an expanded category filter.
// Active with no ids matches nothing.
type CategorySelection struct {
	Active bool
	Ids    []int
}

// CatalogQuery is a pair of statements sharing one predicate and parameter set.
type CatalogQuery struct {
	List   string
	Count  string
	Params map[string]any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern turns user text into a substring LIKE pattern. Wildcards in
// the text match literally.
func SearchPattern(text string) string {
	text = strings.ToLower(norm.NFC.String(strings.TrimSpace(text)))
	return "%" + likeEscaper.Replace(text) + "%"
}

// BuildCatalogQuery composes the list and count statements for a filter.
// Only bound parameters carry user input.
func BuildCatalogQuery(n *schema.Naming, f *entity.CatalogFilter, sel CategorySelection) CatalogQuery {
	var (
		where  []string
		params = map[string]any{}
	)

	if f.Scoped() {
		where = append(where, "p.business_id = :businessId")
		params["businessId"] = f.BusinessId
	}

	if strings.TrimSpace(f.Search) != "" {
		where = append(where, "(LOWER(p.name) LIKE :search OR LOWER(p.description) LIKE :search)")
		params["search"] = SearchPattern(f.Search)
	}

	if sel.Active {
		if len(sel.Ids) == 0 {
			where = append(where, "1 = 0")
		} else {
			where = append(where, "p.category_id IN (:categoryIds)")
			params["categoryIds"] = sel.Ids
		}
	}

	if f.OnSale {
		where = append(where, fmt.Sprintf("p.%s > 0", quoteIdent(n.ProductDiscount())))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	pid := quoteIdent(n.ProductID())
	orderBy := fmt.Sprintf("p.created_at DESC, p.%s ASC", pid)
	if f.Sort == entity.SortDiscount {
		orderBy = fmt.Sprintf("COALESCE(p.%s, 0) DESC, %s", quoteIdent(n.ProductDiscount()), orderBy)
	}
	list := fmt.Sprintf(`
	SELECT
		p.%[1]s AS id,
		p.business_id,
		p.category_id,
		p.name,
		p.description,
		p.price,
		COALESCE(p.%[2]s, 0) AS discount,
		p.image,
		p.created_at,
		c.%[3]s AS category_name,
		b.%[4]s AS business_name
	FROM %[5]s p
	LEFT JOIN %[6]s c ON p.category_id = c.%[7]s
	LEFT JOIN %[8]s b ON p.business_id = b.%[9]s
	%[10]s
	ORDER BY %[11]s
	LIMIT :limit OFFSET :offset`,
		pid,
		quoteIdent(n.ProductDiscount()),
		quoteIdent(n.CategoryName()),
		quoteIdent(n.BusinessName()),
		schema.TableProducts,
		schema.TableCategories,
		quoteIdent(n.CategoryID()),
		schema.TableBusinesses,
		quoteIdent(n.BusinessID()),
		whereClause,
		orderBy,
	)

	count := fmt.Sprintf(`SELECT COUNT(*) FROM %s p %s`, schema.TableProducts, whereClause)

	params["limit"] = f.PageSize
	params["offset"] = f.Offset()

	return CatalogQuery{
		List:   list,
		Count:  count,
		Params: params,
	}
}
