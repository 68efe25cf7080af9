package form

import (
	"strconv"
	"strings"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/validation"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subCategoriesOf(categoryID uuid.UUID, n int) []*domain.SubCategory {
	out := make([]*domain.SubCategory, n)
	for i := range out {
		out[i] = &domain.SubCategory{ID: uuid.New(), Name: "Sub " + strconv.Itoa(i), CategoryID: categoryID}
	}
	return out
}

// Feature: marketplace-dashboard, Property 13: Selecting a category replaces the subcategory options
// Validates: Requirements 2.1
func TestProperty_SelectCategoryReplacesOptions(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("options after selecting B are exactly B's subcategories", prop.ForAll(
		func(countA, countB int) bool {
			a, b := uuid.New(), uuid.New()
			subsA := subCategoriesOf(a, countA)
			subsB := subCategoriesOf(b, countB)

			d := NewProductDraft()
			d.SelectCategory(a, subsA)
			if len(subsA) > 0 && !d.SelectSubCategory(subsA[0].ID) {
				return false
			}

			d.SelectCategory(b, subsB)

			if len(d.SubCategoryOptions()) != countB {
				return false
			}
			for i, s := range d.SubCategoryOptions() {
				if s.ID != subsB[i].ID || s.CategoryID != b {
					return false
				}
			}
			// the subcategory chosen under A no longer belongs
			return d.SubCategoryID() == uuid.Nil && d.CategoryID() == b
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: marketplace-dashboard, Property 14: Keywords never exceed the cap
// Validates: Requirements 2.2
func TestProperty_KeywordCap(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("adding any number of keywords keeps at most ten", prop.ForAll(
		func(keywords []string) bool {
			d := NewProductDraft()
			for _, k := range keywords {
				d.AddKeyword(k)
			}
			return len(d.Keywords()) <= MaxKeywords && len(d.Payload().Keywords) == len(d.Keywords())
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestEleventhKeywordIsNoop(t *testing.T) {
	d := NewProductDraft()
	for i := 0; i < MaxKeywords; i++ {
		require.True(t, d.AddKeyword("kw"+strconv.Itoa(i)))
	}
	assert.False(t, d.AddKeyword("one-too-many"))
	assert.Len(t, d.Keywords(), MaxKeywords)
	assert.NotContains(t, d.Keywords(), "one-too-many")
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewProductDraft()
	assert.True(t, d.SubCategoryDisabled())
	require.Len(t, d.Sizes(), 1)
	assert.Equal(t, 1, d.Sizes()[0].Quantity)
	assert.True(t, d.Sizes()[0].Price.Equal(decimal.RequireFromString("0.01")))
	require.Len(t, d.Colors(), 1)
	assert.Empty(t, d.Colors()[0].Color)

	d.SelectCategory(uuid.New(), nil)
	assert.False(t, d.SubCategoryDisabled())
	assert.Empty(t, d.SubCategoryOptions())
}

func TestRemoveOperations(t *testing.T) {
	d := NewProductDraft()
	d.AddColor("red")
	d.AddColor("blue")
	d.RemoveColor(0)
	d.RemoveColor(5)
	assert.Equal(t, []Color{{Color: "red"}, {Color: "blue"}}, d.Colors())

	d.AddImage("https://img/1.png")
	d.AddImage("https://img/1.png")
	d.AddImage("https://img/2.png")
	d.RemoveImage("https://img/1.png")
	assert.Equal(t, []Image{{URL: "https://img/2.png"}}, d.Images())

	d.AddSize(Size{Size: "L", Quantity: 2, Price: decimal.NewFromInt(3)})
	d.RemoveSize(0)
	require.Len(t, d.Sizes(), 1)
	assert.Equal(t, "L", d.Sizes()[0].Size)
}

func validPayload() ProductPayload {
	categoryID := uuid.New()
	return ProductPayload{
		Name:         "Trail Runner",
		Description:  strings.Repeat("A durable trail shoe. ", 12),
		VariantName:  "Blue",
		VariantImage: "https://img.example.com/v.png",
		Images: []Image{
			{URL: "https://img.example.com/1.png"},
			{URL: "https://img.example.com/2.png"},
			{URL: "https://img.example.com/3.png"},
		},
		CategoryID:    categoryID,
		SubCategoryID: uuid.New(),
		Brand:         "Acme",
		SKU:           "SKU-0001",
		Colors:        []Color{{Color: "blue"}, {Color: " "}},
		Sizes:         []Size{{Size: "42", Quantity: 3, Price: decimal.NewFromInt(80)}, DefaultSize()},
		Keywords:      []string{"shoe", "trail", "run", "outdoor", "sport", ""},
	}
}

func TestPayloadMergesAndValidates(t *testing.T) {
	d := DraftFromPayload(validPayload())
	p := d.Payload()

	assert.Len(t, p.Colors, 1, "blank color dropped")
	assert.Len(t, p.Sizes, 1, "blank size dropped")
	assert.Len(t, p.Keywords, 5, "blank keyword dropped")
	assert.NoError(t, validation.Validator().Struct(p))

	d.RemoveKeyword(0)
	assert.Error(t, validation.Validator().Struct(d.Payload()), "fewer than five keywords")
}

func TestToDomainAndBack(t *testing.T) {
	p := DraftFromPayload(validPayload()).Payload()
	storeID := uuid.New()

	product, variant := p.ToDomain(storeID)
	assert.Equal(t, storeID, product.StoreID)
	assert.Equal(t, "Blue", variant.Images[0].Alt)
	require.Len(t, variant.Sizes, 1)

	again := DraftFromVariant(product, variant).Payload()
	assert.Equal(t, p.Keywords, again.Keywords)
	assert.Equal(t, p.SubCategoryID, again.SubCategoryID)
	assert.True(t, DraftFromVariant(&domain.Product{ID: uuid.New()}, nil).SubCategoryDisabled())
}

func TestIsNewVariant(t *testing.T) {
	assert.False(t, DraftFromPayload(ProductPayload{}).IsNewVariant())
	assert.True(t, DraftFromPayload(ProductPayload{ProductID: uuid.New()}).IsNewVariant())
	assert.False(t, DraftFromPayload(ProductPayload{ProductID: uuid.New(), VariantID: uuid.New()}).IsNewVariant())
}

func TestDraftView_KeepsBlankRows(t *testing.T) {
	d := NewProductDraft()
	d.AddColor("")

	view := d.View()
	assert.Len(t, view.Colors, 2)
	assert.Len(t, view.Sizes, 1)
	assert.True(t, view.SubCategoryDisabled)
	assert.NotNil(t, view.SubCategoryOptions)
	assert.Equal(t, MaxKeywords, view.MaxKeywords)
	assert.Empty(t, d.Payload().Colors)
}
