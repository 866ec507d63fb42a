package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvalente/studiocms/internal/domain"
)

func TestNormalizeItemType(t *testing.T) {
	assert.Equal(t, domain.ItemTypePricing, NormalizeItemType("pricing"))
	assert.Equal(t, domain.ItemTypePricing, NormalizeItemType("Service"))
	assert.Equal(t, domain.ItemTypePricing, NormalizeItemType(""))
	assert.Equal(t, domain.ItemTypeCompanyService, NormalizeItemType("companyService"))
	assert.Equal(t, domain.ItemTypeCompanyService, NormalizeItemType("company_service"))
	assert.Equal(t, domain.ItemTypeCompanyService, NormalizeItemType("tenant"))
	assert.Equal(t, "bogus", NormalizeItemType(" Bogus "))
}

func TestMapCheckout(t *testing.T) {
	in := MapCheckout(CheckoutPayload{
		ItemType:   "companyService",
		ItemID:     42,
		Quantity:   2,
		BuyerEmail: " buyer@example.com ",
		SuccessURL: "https://a/ok",
	})
	assert.Equal(t, domain.ItemTypeCompanyService, in.ItemType)
	assert.Equal(t, int64(42), in.ItemID)
	assert.Equal(t, 2, in.Quantity)
	assert.Equal(t, "buyer@example.com", in.BuyerEmail)
	assert.Equal(t, "https://a/ok", in.SuccessURL)
}

func TestMapContactSlugFallback(t *testing.T) {
	in := MapContact(ContactPayload{Name: "Ada", Email: "a@b.c", Message: "hi", Company: "NorthPine"})
	assert.Equal(t, "northpine", in.CompanySlug)

	in = MapContact(ContactPayload{Name: "Ada", Email: "a@b.c", Message: "hi", Company: "x", CompanySlug: "Yardline"})
	assert.Equal(t, "yardline", in.CompanySlug, "companySlug wins over company")
}
