package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the parent record shared by all of its variants
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Slug          string     `json:"slug" db:"slug"`
	Brand         string     `json:"brand" db:"brand"`
	Rating        float64    `json:"rating" db:"rating"`
	Sales         int        `json:"sales" db:"sales"`
	NumReviews    int        `json:"num_reviews" db:"num_reviews"`
	StoreID       uuid.UUID  `json:"store_id" db:"store_id"`
	CategoryID    uuid.UUID  `json:"category_id" db:"category_id"`
	SubCategoryID uuid.UUID  `json:"sub_category_id" db:"sub_category_id"`
	OfferTagID    *uuid.UUID `json:"offer_tag_id,omitempty" db:"offer_tag_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Variants []*ProductVariant `json:"variants,omitempty" db:"-"`
}

// ProductVariant is one sellable variation of a product
type ProductVariant struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ProductID          uuid.UUID `json:"product_id" db:"product_id"`
	VariantName        string    `json:"variant_name" db:"variant_name"`
	VariantDescription string    `json:"variant_description" db:"variant_description"`
	VariantImage       string    `json:"variant_image" db:"variant_image"`
	Slug               string    `json:"slug" db:"slug"`
	IsSale             bool      `json:"is_sale" db:"is_sale"`
	SKU                string    `json:"sku" db:"sku"`
	Keywords           []string  `json:"keywords" db:"keywords"`
	Sales              int       `json:"sales" db:"sales"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	Images []VariantImage `json:"images" db:"-"`
	Colors []Color        `json:"colors" db:"-"`
	Sizes  []Size         `json:"sizes" db:"-"`
}

// VariantImage is a gallery image of a variant
type VariantImage struct {
	URL string `json:"url" db:"url"`
	Alt string `json:"alt" db:"alt"`
}

// Color is a color option of a variant
type Color struct {
	Color string `json:"color" db:"name"`
}

// Size is a size option of a variant with its own stock and pricing
type Size struct {
	Size     string          `json:"size" db:"size"`
	Quantity int             `json:"quantity" db:"quantity"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Discount decimal.Decimal `json:"discount" db:"discount"`
}

// ProductWithVariant is the flattened shape submitted by the product form:
// product-level fields plus the one variant being created or edited.
type ProductWithVariant struct {
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	Name               string
	Description        string
	VariantName        string
	VariantDescription string
	Images             []VariantImage
	VariantImage       string
	CategoryID         uuid.UUID
	SubCategoryID      uuid.UUID
	OfferTagID         *uuid.UUID
	Brand              string
	SKU                string
	Colors             []Color
	Sizes              []Size
	Keywords           []string
	IsSale             bool
}
