package entity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Product represents the products table.
type Product struct {
	Id          int             `db:"id"`
	BusinessId  int             `db:"business_id"`
	CategoryId  sql.NullInt32   `db:"category_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Discount    decimal.Decimal `db:"discount"`
	Image       sql.NullString  `db:"image"`
	CreatedAt   time.Time       `db:"created_at"`
}

// EffectivePrice is the price after discount, unrounded.
func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.Discount)
}

// DisplayPrice is the effective price rounded to 2 decimals. Stored values are untouched.
func (p *Product) DisplayPrice() decimal.Decimal {
	return p.EffectivePrice().Round(2)
}

// EffectivePrice computes price * (1 - discount/100).
func EffectivePrice(price, discount decimal.Decimal) decimal.Decimal {
	if discount.IsZero() {
		return price
	}
	return price.Mul(one.Sub(discount.Div(hundred)))
}

// ProductListItem is a product row joined with its category and business names.
type ProductListItem struct {
	Product
	CategoryName sql.NullString `db:"category_name"`
	BusinessName sql.NullString `db:"business_name"`
}

// ProductBody holds the caller-editable product fields.
type ProductBody struct {
	Name        string          `db:"name" valid:"required,runelength(1|255)"`
	Description string          `db:"description" valid:"required"`
	Price       decimal.Decimal `db:"price" valid:"-"`
	Discount    decimal.Decimal `db:"discount" valid:"-"`
	CategoryId  int             `db:"category_id" valid:"-"`
}

// Validate trims text fields and checks every constraint on the body.
func (pb *ProductBody) Validate() error {
	pb.Name = strings.TrimSpace(pb.Name)
	pb.Description = strings.TrimSpace(pb.Description)

	if _, err := govalidator.ValidateStruct(pb); err != nil {
		return err
	}
	if !pb.Price.GreaterThan(decimal.Zero) {
		return fmt.Errorf("price must be greater than zero")
	}
	if pb.Discount.LessThan(decimal.Zero) || pb.Discount.GreaterThan(hundred) {
		return fmt.Errorf("discount must be between 0 and 100 percent")
	}
	if pb.CategoryId <= 0 {
		return fmt.Errorf("category is required")
	}
	return nil
}

// ProductInsert is a new product. Image is the stored file reference.
type ProductInsert struct {
	ProductBody
	Image string `db:"image"`
}

// ProductImage is an uploaded product image.
type ProductImage struct {
	Data        []byte
	ContentType string
}
