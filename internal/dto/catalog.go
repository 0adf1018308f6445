package dto

import (
	"time"

	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// Product is the JSON view of a listed product. Money is rendered with two
// decimals; stored values keep their full precision.
type Product struct {
	Id             int       `json:"id"`
	BusinessId     int       `json:"business_id"`
	BusinessName   string    `json:"business_name,omitempty"`
	CategoryId     int       `json:"category_id,omitempty"`
	CategoryName   string    `json:"category_name,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          string    `json:"price"`
	Discount       string    `json:"discount"`
	EffectivePrice string    `json:"effective_price"`
	OnSale         bool      `json:"on_sale"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ProductPage struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

type Category struct {
	Id       int        `json:"id"`
	Name     string     `json:"name"`
	ParentId int        `json:"parent_id,omitempty"`
	Children []Category `json:"children,omitempty"`
}

type Business struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type FeaturedBusiness struct {
	Business
	ProductCount int `json:"product_count"`
}

// ProductRequest is the body of create and update calls. Image is an optional
// data URL ("data:image/png;base64,...").
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	CategoryId  int             `json:"category_id"`
	Image       string          `json:"image,omitempty"`
}

type CreatedProduct struct {
	Id int `json:"id"`
}

func (pr *ProductRequest) Body() *entity.ProductBody {
	return &entity.ProductBody{
		Name:        pr.Name,
		Description: pr.Description,
		Price:       pr.Price,
		Discount:    pr.Discount,
		CategoryId:  pr.CategoryId,
	}
}

func ConvertProduct(p *entity.Product) Product {
	return Product{
		Id:             p.Id,
		BusinessId:     p.BusinessId,
		CategoryId:     int(p.CategoryId.Int32),
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		Discount:       p.Discount.StringFixed(2),
		EffectivePrice: p.DisplayPrice().StringFixed(2),
		OnSale:         p.Discount.GreaterThan(decimal.Zero),
		Image:          p.Image.String,
		CreatedAt:      p.CreatedAt,
	}
}

func ConvertProductListItem(it *entity.ProductListItem) Product {
	p := ConvertProduct(&it.Product)
	p.CategoryName = it.CategoryName.String
	p.BusinessName = it.BusinessName.String
	return p
}

func ConvertProductPage(pp *entity.ProductPage) ProductPage {
	items := make([]Product, 0, len(pp.Items))
	for i := range pp.Items {
		items = append(items, ConvertProductListItem(&pp.Items[i]))
	}
	return ProductPage{
		Items:      items,
		Total:      pp.Total,
		Page:       pp.Page,
		PageSize:   pp.PageSize,
		TotalPages: pp.TotalPages(),
	}
}

func convertCategory(c *entity.Category) Category {
	return Category{
		Id:       c.Id,
		Name:     c.Name,
		ParentId: int(c.ParentId.Int32),
	}
}

func ConvertCategoryTree(nodes []entity.CategoryNode) []Category {
	tree := make([]Category, 0, len(nodes))
	for i := range nodes {
		c := convertCategory(&nodes[i].Category)
		for j := range nodes[i].Children {
			c.Children = append(c.Children, convertCategory(&nodes[i].Children[j]))
		}
		tree = append(tree, c)
	}
	return tree
}

func ConvertBusiness(b *entity.Business) Business {
	return Business{Id: b.Id, Name: b.Name}
}

func ConvertFeaturedBusinesses(bb []entity.FeaturedBusiness) []FeaturedBusiness {
	out := make([]FeaturedBusiness, 0, len(bb))
	for i := range bb {
		out = append(out, FeaturedBusiness{
			Business:     ConvertBusiness(&bb[i].Business),
			ProductCount: bb[i].ProductCount,
		})
	}
	return out
}
