package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slugForm struct {
	URL string `validate:"required,urlslug"`
}

type phoneForm struct {
	Phone string `validate:"required,phone"`
}

type priceForm struct {
	Price decimal.Decimal `validate:"gt=0"`
}

// Feature: marketplace-dashboard, Property 20: URL slugs accept only single separators
// Validates: Requirements 4.2
func TestProperty_URLSlugRule(t *testing.T) {
	v := New()
	properties := gopter.NewProperties(nil)

	properties.Property("hyphen joined lowercase words are valid slugs", prop.ForAll(
		func(a, b string) bool {
			return v.Struct(slugForm{URL: a + "-" + b}) == nil
		},
		gen.RegexMatch(`[a-z0-9]{1,10}`),
		gen.RegexMatch(`[a-z0-9]{1,10}`),
	))

	properties.Property("doubled separators are rejected", prop.ForAll(
		func(a, b string, sep string) bool {
			return v.Struct(slugForm{URL: a + sep + b}) != nil
		},
		gen.RegexMatch(`[a-z0-9]{1,10}`),
		gen.RegexMatch(`[a-z0-9]{1,10}`),
		gen.OneConstOf("--", "__", "-_", " ", "  "),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPhoneRule(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(phoneForm{Phone: "+15551234567"}))
	assert.NoError(t, v.Struct(phoneForm{Phone: "5551234"}))
	assert.Error(t, v.Struct(phoneForm{Phone: "555-123"}))
	assert.Error(t, v.Struct(phoneForm{Phone: "+12"}))
}

func TestDecimalRules(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(priceForm{Price: decimal.RequireFromString("0.01")}))

	err := v.Struct(priceForm{Price: decimal.Zero})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Value must be greater than 0", Message(verrs[0]))
}

func TestValidatorIsShared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
