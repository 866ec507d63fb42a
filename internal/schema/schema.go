// Package schema maps external client payloads (camelCase, legacy
// aliases) onto internal input shapes. Handlers bind to these types
// and convert through the pure Map functions, nothing else remaps
// field names.
package schema

import (
	"strings"

	"github.com/nvalente/studiocms/internal/checkout"
	"github.com/nvalente/studiocms/internal/contact"
	"github.com/nvalente/studiocms/internal/domain"
)

// CheckoutPayload is the storefront checkout request shape
type CheckoutPayload struct {
	ItemType   string `json:"itemType"`
	ItemID     int64  `json:"itemId,string"`
	Quantity   int    `json:"quantity"`
	BuyerEmail string `json:"buyerEmail"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// NormalizeItemType folds the legacy type tags of both old shells
// into the two canonical tags.
func NormalizeItemType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "pricing", "service", "flat":
		return domain.ItemTypePricing
	case "company_service", "companyservice", "tenant":
		return domain.ItemTypeCompanyService
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

// MapCheckout converts the external checkout payload
func MapCheckout(p CheckoutPayload) checkout.InitiateInput {
	return checkout.InitiateInput{
		ItemType:   NormalizeItemType(p.ItemType),
		ItemID:     p.ItemID,
		Quantity:   p.Quantity,
		BuyerEmail: strings.TrimSpace(p.BuyerEmail),
		SuccessURL: strings.TrimSpace(p.SuccessURL),
		CancelURL:  strings.TrimSpace(p.CancelURL),
	}
}

// IntentPayload is the embedded form intent request shape
type IntentPayload struct {
	ItemType string `json:"itemType"`
	ItemID   int64  `json:"itemId,string"`
	Quantity int    `json:"quantity"`
}

// ConfirmPayload is the embedded form confirmation shape
type ConfirmPayload struct {
	Reference     string `json:"reference"`
	CardToken     string `json:"cardToken"`
	PaymentMethod string `json:"paymentMethod"`
	Installments  int    `json:"installments"`
	PayerEmail    string `json:"payerEmail"`
}

// MapConfirm converts the external confirmation payload
func MapConfirm(p ConfirmPayload) checkout.ConfirmInput {
	return checkout.ConfirmInput{
		Reference:     strings.TrimSpace(p.Reference),
		CardToken:     strings.TrimSpace(p.CardToken),
		PaymentMethod: strings.TrimSpace(p.PaymentMethod),
		Installments:  p.Installments,
		PayerEmail:    strings.TrimSpace(p.PayerEmail),
	}
}

// ContactPayload is the public contact form shape. Both "company" and
// "companySlug" appear in the wild, the first non empty one wins.
type ContactPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Company     string `json:"company"`
	CompanySlug string `json:"companySlug"`
	Kind        string `json:"type"`
}

// MapContact converts the external contact payload
func MapContact(p ContactPayload) contact.SubmitInput {
	slug := strings.TrimSpace(p.CompanySlug)
	if slug == "" {
		slug = strings.TrimSpace(p.Company)
	}
	return contact.SubmitInput{
		Name:        p.Name,
		Email:       p.Email,
		Subject:     p.Subject,
		Message:     p.Message,
		CompanySlug: strings.ToLower(slug),
		Kind:        strings.ToLower(strings.TrimSpace(p.Kind)),
	}
}
