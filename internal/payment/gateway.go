package payment

import (
	"context"
	"time"
)

// Provider payment statuses as reported by Mercado Pago
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// IsPaid reports whether a provider status counts as a confirmed payment
func IsPaid(status string) bool {
	return status == StatusApproved
}

// CheckoutRequest describes a hosted checkout session to create.
// UnitCents is the server resolved price, never a client supplied value.
type CheckoutRequest struct {
	Title       string
	Description string
	UnitCents   int64
	Currency    string
	Quantity    int
	Reference   string // external reference echoed back by the provider
	PayerEmail  string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the provider hosted session handle
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
	SandboxURL  string
}

// CardCharge is a direct card payment used by the embedded form path
type CardCharge struct {
	AmountCents   int64
	Currency      string
	Description   string
	Reference     string
	CardToken     string
	Installments  int
	PaymentMethod string
	PayerEmail    string
}

// PaymentInfo mirrors the provider's view of a single payment
type PaymentInfo struct {
	PaymentID    string
	Status       string
	StatusDetail string
	Reference    string
	AmountCents  int64
	Currency     string
	PayerEmail   string
	PayerName    string
	ApprovedAt   time.Time
}

// Gateway abstracts the hosted payment provider. The provider owns
// payment truth, implementations only relay it.
type Gateway interface {
	// CreateCheckout creates a hosted checkout session and returns
	// its id plus the redirect URL for the browser.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// GetPayment fetches current payment state by provider payment id
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)

	// FindPaymentByReference searches provider payments by external
	// reference. Returns nil without error when no payment exists yet,
	// which lets a polling client keep waiting.
	FindPaymentByReference(ctx context.Context, reference string) (*PaymentInfo, error)

	// ChargeCard performs a direct payment with a card token and
	// relays the resulting status.
	ChargeCard(ctx context.Context, req CardCharge) (*PaymentInfo, error)
}
