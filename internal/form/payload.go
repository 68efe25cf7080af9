// Package form holds the product form state: the editable draft with its
// dynamic lists and the validated payload it produces on submit.
package form

import (
	"strings"

	"marketplace/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Image is one gallery image of the variant being edited
type Image struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty"`
}

// Color is one color row of the variant being edited
type Color struct {
	Color string `json:"color" validate:"required,notblank"`
}

// Size is one size row of the variant being edited
type Size struct {
	Size     string          `json:"size" validate:"required,notblank"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0,lte=100"`
}

// ProductPayload is the submitted product form. A nil ProductID creates a new
// product; a known ProductID with a nil VariantID adds a variant to it.
type ProductPayload struct {
	ProductID          uuid.UUID  `json:"productId"`
	VariantID          uuid.UUID  `json:"variantId"`
	Name               string     `json:"name" validate:"required,min=2,max=200"`
	Description        string     `json:"description" validate:"required,min=200"`
	VariantName        string     `json:"variantName" validate:"required,min=2,max=100"`
	VariantDescription string     `json:"variantDescription" validate:"omitempty,max=5000"`
	Images             []Image    `json:"images" validate:"min=3,max=6,dive"`
	VariantImage       string     `json:"variantImage" validate:"required,url"`
	CategoryID         uuid.UUID  `json:"categoryId" validate:"required"`
	SubCategoryID      uuid.UUID  `json:"subCategoryId" validate:"required"`
	OfferTagID         *uuid.UUID `json:"offerTagId,omitempty"`
	Brand              string     `json:"brand" validate:"required,min=2,max=50"`
	SKU                string     `json:"sku" validate:"required,min=6,max=50"`
	Colors             []Color    `json:"colors" validate:"min=1,dive"`
	Sizes              []Size     `json:"sizes" validate:"min=1,dive"`
	Keywords           []string   `json:"keywords" validate:"min=5,max=10,dive,required"`
	IsSale             bool       `json:"isSale"`
}

// ToDomain flattens the payload into the product and variant rows it writes
func (p ProductPayload) ToDomain(storeID uuid.UUID) (*domain.Product, *domain.ProductVariant) {
	product := &domain.Product{
		ID:            p.ProductID,
		Name:          strings.TrimSpace(p.Name),
		Description:   p.Description,
		Brand:         strings.TrimSpace(p.Brand),
		StoreID:       storeID,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		OfferTagID:    p.OfferTagID,
	}

	variant := &domain.ProductVariant{
		ID:                 p.VariantID,
		ProductID:          p.ProductID,
		VariantName:        strings.TrimSpace(p.VariantName),
		VariantDescription: p.VariantDescription,
		VariantImage:       p.VariantImage,
		IsSale:             p.IsSale,
		SKU:                strings.TrimSpace(p.SKU),
		Keywords:           append([]string(nil), p.Keywords...),
		Images:             make([]domain.VariantImage, 0, len(p.Images)),
		Colors:             make([]domain.Color, 0, len(p.Colors)),
		Sizes:              make([]domain.Size, 0, len(p.Sizes)),
	}
	for _, img := range p.Images {
		alt := img.Alt
		if alt == "" {
			alt = variant.VariantName
		}
		variant.Images = append(variant.Images, domain.VariantImage{URL: img.URL, Alt: alt})
	}
	for _, c := range p.Colors {
		variant.Colors = append(variant.Colors, domain.Color{Color: c.Color})
	}
	for _, s := range p.Sizes {
		variant.Sizes = append(variant.Sizes, domain.Size{
			Size:     s.Size,
			Quantity: s.Quantity,
			Price:    s.Price,
			Discount: s.Discount,
		})
	}

	return product, variant
}
