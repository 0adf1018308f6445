package entity

import (
	"fmt"
	"math"
)

// CatalogFilter is the full set of criteria for one catalog query.
// BusinessId 0 means public browsing across all businesses.
type CatalogFilter struct {
	BusinessId int
	Search     string
	CategoryId int
	OnSale     bool
	Sort       ProductSort
	Page       int
	PageSize   int
}

// ProductSort orders a catalog listing. The zero value lists newest first.
type ProductSort string

const (
	SortNewest ProductSort = "newest"
	// SortDiscount lists the deepest discounts first.
	SortDiscount ProductSort = "discount"
)

func ParseProductSort(s string) (ProductSort, error) {
	switch ProductSort(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortDiscount:
		return SortDiscount, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// Offset is (page-1)*page_size, never negative. It saturates at math.MaxInt
// instead of overflowing.
func (f *CatalogFilter) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// PastEnd reports whether the page starts at or after the last of total rows.
func (f *CatalogFilter) PastEnd(total int) bool {
	if f.PageSize <= 0 || total <= 0 {
		return true
	}
	pages := total / f.PageSize
	if total%f.PageSize != 0 {
		pages++
	}
	return f.Page-1 >= pages
}

// Scoped reports whether the query is restricted to one business.
func (f *CatalogFilter) Scoped() bool {
	return f.BusinessId > 0
}

// ProductPage is one page of a catalog query together with the total row count
// of the same predicate.
type ProductPage struct {
	Items    []ProductListItem
	Total    int
	Page     int
	PageSize int
}

func (p *ProductPage) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// ProductQuery holds the caller-chosen listing criteria. Page size is set by
// the deployment, not the caller.
type ProductQuery struct {
	Search     string
	CategoryId int
	OnSale     bool
	Sort       ProductSort
	Page       int
}
