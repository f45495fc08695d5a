package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryDresses     Category = "Dresses"
	CategoryTops        Category = "Tops"
	CategoryPants       Category = "Pants"
	CategorySkirts      Category = "Skirts"
	CategoryOuterwear   Category = "Outerwear"
	CategoryShoes       Category = "Shoes"
	CategoryAccessories Category = "Accessories"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDresses, CategoryTops, CategoryPants, CategorySkirts,
		CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

type Product struct {
	ID          string          `json:"_id"`
	SellerID    string          `json:"seller"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    Category        `json:"category"`
	Sizes       []Size          `json:"size"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductDetail is a product with its seller reference expanded.
type ProductDetail struct {
	Product
	Seller UserSummary `json:"seller"`
}

type ProductInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images" binding:"required,min=1,dive,required"`
	Category    Category        `json:"category" binding:"required"`
	Sizes       []Size          `json:"size"`
	Stock       int             `json:"stock" binding:"gte=0"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}
