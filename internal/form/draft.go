package form

import (
	"strings"

	"marketplace/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxKeywords caps the keyword list of a variant
const MaxKeywords = 10

// DefaultSize is the row a new draft starts its size list with
func DefaultSize() Size {
	return Size{Quantity: 1, Price: decimal.RequireFromString("0.01"), Discount: decimal.Zero}
}

// ProductDraft is the in-progress state of the product form. Colors, sizes,
// keywords and images are edited through the Add/Remove methods and only
// merged into a ProductPayload by Payload.
type ProductDraft struct {
	fields ProductPayload

	colors   []Color
	sizes    []Size
	keywords []string
	images   []Image

	subCategoryOptions []*domain.SubCategory
}

// NewProductDraft starts an empty draft with one blank color and the default size row
func NewProductDraft() *ProductDraft {
	return &ProductDraft{
		colors: []Color{{}},
		sizes:  []Size{DefaultSize()},
	}
}

// DraftFromPayload loads a submitted or stored payload into a draft
func DraftFromPayload(p ProductPayload) *ProductDraft {
	d := NewProductDraft()
	d.fields = p
	if len(p.Colors) > 0 {
		d.colors = append([]Color(nil), p.Colors...)
	}
	if len(p.Sizes) > 0 {
		d.sizes = append([]Size(nil), p.Sizes...)
	}
	for _, img := range p.Images {
		d.addImage(img)
	}
	for _, k := range p.Keywords {
		d.AddKeyword(k)
	}
	return d
}

// DraftFromVariant opens the form for an existing product variant
func DraftFromVariant(product *domain.Product, variant *domain.ProductVariant) *ProductDraft {
	p := ProductPayload{
		ProductID:     product.ID,
		Name:          product.Name,
		Description:   product.Description,
		CategoryID:    product.CategoryID,
		SubCategoryID: product.SubCategoryID,
		OfferTagID:    product.OfferTagID,
		Brand:         product.Brand,
	}
	if variant != nil {
		p.VariantID = variant.ID
		p.VariantName = variant.VariantName
		p.VariantDescription = variant.VariantDescription
		p.VariantImage = variant.VariantImage
		p.SKU = variant.SKU
		p.IsSale = variant.IsSale
		p.Keywords = variant.Keywords
		for _, img := range variant.Images {
			p.Images = append(p.Images, Image{URL: img.URL, Alt: img.Alt})
		}
		for _, c := range variant.Colors {
			p.Colors = append(p.Colors, Color{Color: c.Color})
		}
		for _, s := range variant.Sizes {
			p.Sizes = append(p.Sizes, Size{Size: s.Size, Quantity: s.Quantity, Price: s.Price, Discount: s.Discount})
		}
	}
	return DraftFromPayload(p)
}

// IsNewVariant reports whether the draft adds a variant to an existing product
func (d *ProductDraft) IsNewVariant() bool {
	return d.fields.ProductID != uuid.Nil && d.fields.VariantID == uuid.Nil
}

// CategoryID returns the selected category, uuid.Nil when none is chosen
func (d *ProductDraft) CategoryID() uuid.UUID {
	return d.fields.CategoryID
}

// SubCategoryID returns the selected subcategory
func (d *ProductDraft) SubCategoryID() uuid.UUID {
	return d.fields.SubCategoryID
}

// SelectCategory sets the category and replaces the subcategory options with
// subCategories. A selected subcategory that is not among the new options is
// cleared.
func (d *ProductDraft) SelectCategory(categoryID uuid.UUID, subCategories []*domain.SubCategory) {
	d.fields.CategoryID = categoryID
	d.subCategoryOptions = make([]*domain.SubCategory, 0, len(subCategories))

	keep := false
	for _, s := range subCategories {
		if s.CategoryID != categoryID {
			continue
		}
		d.subCategoryOptions = append(d.subCategoryOptions, s)
		if s.ID == d.fields.SubCategoryID {
			keep = true
		}
	}

	if !keep {
		d.fields.SubCategoryID = uuid.Nil
	}
}

// SelectSubCategory picks one of the current options and reports whether it was accepted
func (d *ProductDraft) SelectSubCategory(id uuid.UUID) bool {
	for _, s := range d.subCategoryOptions {
		if s.ID == id {
			d.fields.SubCategoryID = id
			return true
		}
	}
	return false
}

// SubCategoryOptions returns the options of the dependent subcategory select
func (d *ProductDraft) SubCategoryOptions() []*domain.SubCategory {
	return d.subCategoryOptions
}

// SubCategoryDisabled reports whether the subcategory select is still locked
func (d *ProductDraft) SubCategoryDisabled() bool {
	return d.fields.CategoryID == uuid.Nil
}

func (d *ProductDraft) AddColor(color string) {
	d.colors = append(d.colors, Color{Color: color})
}

func (d *ProductDraft) RemoveColor(i int) {
	d.colors = removeAt(d.colors, i)
}

func (d *ProductDraft) Colors() []Color {
	return d.colors
}

func (d *ProductDraft) AddSize(size Size) {
	d.sizes = append(d.sizes, size)
}

func (d *ProductDraft) RemoveSize(i int) {
	d.sizes = removeAt(d.sizes, i)
}

func (d *ProductDraft) Sizes() []Size {
	return d.sizes
}

// AddKeyword appends a keyword. Blank and repeated keywords are ignored, and
// once MaxKeywords are held further additions are no-ops.
func (d *ProductDraft) AddKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(d.keywords) >= MaxKeywords {
		return false
	}
	for _, k := range d.keywords {
		if k == keyword {
			return false
		}
	}
	d.keywords = append(d.keywords, keyword)
	return true
}

func (d *ProductDraft) RemoveKeyword(i int) {
	d.keywords = removeAt(d.keywords, i)
}

func (d *ProductDraft) Keywords() []string {
	return d.keywords
}

// AddImage appends an uploaded image url unless it is already present
func (d *ProductDraft) AddImage(url string) {
	d.addImage(Image{URL: url})
}

func (d *ProductDraft) addImage(image Image) {
	if image.URL == "" {
		return
	}
	for _, img := range d.images {
		if img.URL == image.URL {
			return
		}
	}
	d.images = append(d.images, image)
}

// RemoveImage drops the image with the given url
func (d *ProductDraft) RemoveImage(url string) {
	kept := d.images[:0]
	for _, img := range d.images {
		if img.URL != url {
			kept = append(kept, img)
		}
	}
	d.images = kept
}

func (d *ProductDraft) Images() []Image {
	return d.images
}

// Payload merges the list state into the form fields. Blank colors and
// sizes are dropped. The result still has to pass validation.
func (d *ProductDraft) Payload() ProductPayload {
	p := d.fields

	p.Colors = make([]Color, 0, len(d.colors))
	for _, c := range d.colors {
		if c.Color = strings.TrimSpace(c.Color); c.Color != "" {
			p.Colors = append(p.Colors, c)
		}
	}

	p.Sizes = make([]Size, 0, len(d.sizes))
	for _, s := range d.sizes {
		if s.Size = strings.TrimSpace(s.Size); s.Size != "" {
			p.Sizes = append(p.Sizes, s)
		}
	}

	p.Keywords = append([]string{}, d.keywords...)
	p.Images = append([]Image{}, d.images...)

	return p
}

func removeAt[T any](items []T, i int) []T {
	if i < 0 || i >= len(items) {
		return items
	}
	return append(items[:i:i], items[i+1:]...)
}

// View is the JSON shape the product form renders from. Unlike Payload it
// keeps blank color and size rows so the inputs stay on screen.
type View struct {
	ProductPayload
	IsNewVariant        bool                  `json:"isNewVariant"`
	SubCategoryOptions  []*domain.SubCategory `json:"subCategoryOptions"`
	SubCategoryDisabled bool                  `json:"subCategoryDisabled"`
	MaxKeywords         int                   `json:"maxKeywords"`
}

func (d *ProductDraft) View() View {
	p := d.fields
	p.Colors = append([]Color{}, d.colors...)
	p.Sizes = append([]Size{}, d.sizes...)
	p.Keywords = append([]string{}, d.keywords...)
	p.Images = append([]Image{}, d.images...)

	options := d.subCategoryOptions
	if options == nil {
		options = []*domain.SubCategory{}
	}

	return View{
		ProductPayload:      p,
		IsNewVariant:        d.IsNewVariant(),
		SubCategoryOptions:  options,
		SubCategoryDisabled: d.SubCategoryDisabled(),
		MaxKeywords:         MaxKeywords,
	}
}
