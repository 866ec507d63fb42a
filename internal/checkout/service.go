package checkout

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/events"
	"github.com/nvalente/studiocms/internal/payment"
	"github.com/nvalente/studiocms/pkg/common"
)

var (
	// ErrItemNotFound means the referenced catalog item does not exist
	ErrItemNotFound = errors.New("catalog item not found")

	// ErrItemUnavailable means the item exists but is not purchasable
	ErrItemUnavailable = errors.New("catalog item is not available")

	// ErrOrderNotFound means no order matches the given session id
	ErrOrderNotFound = errors.New("order not found")

	// ErrPaymentSetup hides the provider failure from the client, the
	// real cause is only logged server side
	ErrPaymentSetup = errors.New("payment setup failed")

	// ErrProviderFetch means the provider status lookup failed
	ErrProviderFetch = errors.New("payment status fetch failed")
)

// CatalogItem is a resolved purchasable item with its price in cents
type CatalogItem struct {
	Type      string
	ID        int64
	Title     string
	Summary   string
	UnitCents int64
	Currency  string
	Available bool
}

// Service implements the purchase flow: initiate a hosted checkout,
// reconcile completion against provider truth, and the direct card
// intent path for the embedded form.
type Service struct {
	orders     OrderRepository
	catalog    CatalogRepository
	gateway    payment.Gateway
	bus        EventBus.Bus
	successURL string
	cancelURL  string
}

func NewService(orders OrderRepository, catalog CatalogRepository, gateway payment.Gateway,
	bus EventBus.Bus, successURL, cancelURL string) *Service {
	return &Service{
		orders:     orders,
		catalog:    catalog,
		gateway:    gateway,
		bus:        bus,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// ResolveItem loads a catalog item and computes its current price in
// cents. The client never supplies a price.
func (s *Service) ResolveItem(ctx context.Context, itemType string, itemID int64) (*CatalogItem, error) {
	switch itemType {
	case domain.ItemTypePricing:
		p, err := s.catalog.GetPricing(ctx, itemID)
		if err != nil {
			return nil, ErrItemNotFound
		}
		cents, err := payment.ParsePriceCents(p.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "pricing %d", itemID)
		}
		return &CatalogItem{
			Type:      domain.ItemTypePricing,
			ID:        p.ID,
			Title:     p.Title,
			Summary:   p.Summary,
			UnitCents: cents,
			Currency:  common.TrimOrDefault(p.Currency, "usd"),
			Available: p.Available && (p.Stock == nil || *p.Stock > 0),
		}, nil
	case domain.ItemTypeCompanyService:
		cs, err := s.catalog.GetCompanyService(ctx, itemID)
		if err != nil {
			return nil, ErrItemNotFound
		}
		cents, err := payment.ParsePriceCents(cs.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "company service %d", itemID)
		}
		return &CatalogItem{
			Type:      domain.ItemTypeCompanyService,
			ID:        cs.ID,
			Title:     cs.Title,
			Summary:   cs.Summary,
			UnitCents: cents,
			Currency:  common.TrimOrDefault(cs.Currency, "usd"),
			Available: cs.Available && (cs.Stock == nil || *cs.Stock > 0),
		}, nil
	default:
		return nil, ErrItemNotFound
	}
}

// InitiateInput carries the storefront checkout request
type InitiateInput struct {
	ItemType   string
	ItemID     int64
	Quantity   int
	BuyerEmail string
	SuccessURL string
	CancelURL  string
}

// InitiateResult is what the browser needs to continue the flow
type InitiateResult struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// InitiateCheckout resolves the item, creates a provider checkout
// session and records a pending order keyed by the new session id.
func (s *Service) InitiateCheckout(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	item, err := s.ResolveItem(ctx, in.ItemType, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}

	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}
	reference := uuid.NewString()

	sess, err := s.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		Title:       item.Title,
		Description: item.Summary,
		UnitCents:   item.UnitCents,
		Currency:    item.Currency,
		Quantity:    qty,
		Reference:   reference,
		PayerEmail:  in.BuyerEmail,
		SuccessURL:  common.TrimOrDefault(in.SuccessURL, s.successURL),
		CancelURL:   common.TrimOrDefault(in.CancelURL, s.cancelURL),
	})
	if err != nil {
		zap.L().Error("checkout session create failed",
			zap.String("item_type", item.Type),
			zap.Int64("item_id", item.ID),
			zap.Error(err))
		return nil, ErrPaymentSetup
	}

	order := &domain.Order{
		ID:         common.UUIDint64(),
		ItemType:   item.Type,
		ItemID:     item.ID,
		ItemTitle:  item.Title,
		SessionID:  sess.SessionID,
		Reference:  reference,
		Status:     domain.OrderStatusPending,
		AmountPaid: item.UnitCents * int64(qty),
		Currency:   item.Currency,
		Quantity:   qty,
		UserEmail:  in.BuyerEmail,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "record pending order")
	}

	zap.L().Info("checkout session created",
		zap.String("session_id", sess.SessionID),
		zap.String("item_title", item.Title),
		zap.Int64("amount_cents", order.AmountPaid))

	return &InitiateResult{
		SessionID:   sess.SessionID,
		RedirectURL: sess.RedirectURL,
		AmountCents: order.AmountPaid,
		Currency:    order.Currency,
	}, nil
}

// SessionStatus is returned to the polling client
type SessionStatus struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// ReconcileSession re-fetches provider truth for a session and
// completes the matching order when the provider reports paid. The
// operation is idempotent: an already completed order is a no-op.
// Without a payment id the provider is searched by the order's
// external reference, so pure polling still converges.
func (s *Service) ReconcileSession(ctx context.Context, sessionID, paymentID string) (*SessionStatus, error) {
	order, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == domain.OrderStatusCompleted {
		return statusOf(order), nil
	}

	var info *payment.PaymentInfo
	if paymentID != "" {
		info, err = s.gateway.GetPayment(ctx, paymentID)
		if err != nil {
			zap.L().Error("payment status fetch failed",
				zap.String("session_id", sessionID),
				zap.String("payment_id", paymentID),
				zap.Error(err))
			return nil, ErrProviderFetch
		}
		if info.Reference != "" && info.Reference != order.Reference {
			zap.L().Warn("payment reference mismatch",
				zap.String("session_id", sessionID),
				zap.String("payment_id", paymentID))
			return nil, ErrProviderFetch
		}
	} else {
		info, err = s.gateway.FindPaymentByReference(ctx, order.Reference)
		if err != nil {
			zap.L().Error("payment search failed",
				zap.String("session_id", sessionID),
				zap.String("reference", order.Reference),
				zap.Error(err))
			return nil, ErrProviderFetch
		}
		if info == nil {
			// no payment recorded yet, keep polling
			return statusOf(order), nil
		}
	}

	st := statusOf(order)
	st.PaymentStatus = info.Status
	if payment.IsPaid(info.Status) {
		if err := s.complete(ctx, order, info); err != nil {
			return nil, err
		}
		st.Status = domain.OrderStatusCompleted
		st.UserEmail = firstNonEmpty(info.PayerEmail, order.UserEmail)
	}
	return st, nil
}

// IntentResult carries what the embedded card form needs
type IntentResult struct {
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CreateIntent computes the amount server side and records a pending
// order under a locally generated reference. No provider call happens
// until the card token arrives.
func (s *Service) CreateIntent(ctx context.Context, itemType string, itemID int64, qty int) (*IntentResult, error) {
	item, err := s.ResolveItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}
	if qty <= 0 {
		qty = 1
	}

	reference := uuid.NewString()
	order := &domain.Order{
		ID:         common.UUIDint64(),
		ItemType:   item.Type,
		ItemID:     item.ID,
		ItemTitle:  item.Title,
		SessionID:  reference,
		Reference:  reference,
		Status:     domain.OrderStatusPending,
		AmountPaid: item.UnitCents * int64(qty),
		Currency:   item.Currency,
		Quantity:   qty,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "record pending order")
	}

	return &IntentResult{
		Reference:   reference,
		AmountCents: order.AmountPaid,
		Currency:    order.Currency,
	}, nil
}

// ConfirmInput carries the embedded form confirmation
type ConfirmInput struct {
	Reference     string
	CardToken     string
	PaymentMethod string
	Installments  int
	PayerEmail    string
}

// ConfirmIntent charges the card for the recorded amount and relays
// the provider result. An already completed order returns its current
// state without charging again.
func (s *Service) ConfirmIntent(ctx context.Context, in ConfirmInput) (*SessionStatus, error) {
	order, err := s.orders.GetByReference(ctx, in.Reference)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == domain.OrderStatusCompleted {
		return statusOf(order), nil
	}

	info, err := s.gateway.ChargeCard(ctx, payment.CardCharge{
		AmountCents:   order.AmountPaid,
		Currency:      order.Currency,
		Description:   order.ItemTitle,
		Reference:     order.Reference,
		CardToken:     in.CardToken,
		Installments:  in.Installments,
		PaymentMethod: in.PaymentMethod,
		PayerEmail:    in.PayerEmail,
	})
	if err != nil {
		zap.L().Error("card charge failed",
			zap.String("reference", in.Reference),
			zap.Error(err))
		return nil, ErrPaymentSetup
	}

	st := statusOf(order)
	st.PaymentStatus = info.Status
	if payment.IsPaid(info.Status) {
		if info.PayerEmail == "" {
			info.PayerEmail = in.PayerEmail
		}
		if err := s.complete(ctx, order, info); err != nil {
			return nil, err
		}
		st.Status = domain.OrderStatusCompleted
		st.UserEmail = info.PayerEmail
	}
	return st, nil
}

func (s *Service) complete(ctx context.Context, order *domain.Order, info *payment.PaymentInfo) error {
	now := time.Now()
	email := firstNonEmpty(info.PayerEmail, order.UserEmail)
	transitioned, err := s.orders.Complete(ctx, order.ID, info.PaymentID, email, info.PayerName, now)
	if err != nil {
		return errors.Wrap(err, "complete order")
	}
	if !transitioned {
		// a concurrent reconciliation already completed this order, the
		// counters and the event belong to that call
		order.Status = domain.OrderStatusCompleted
		zap.L().Debug("order already completed",
			zap.String("session_id", order.SessionID),
			zap.String("payment_id", info.PaymentID))
		return nil
	}
	if err := s.catalog.IncrementSold(ctx, order.ItemType, order.ItemID, order.Quantity); err != nil {
		zap.L().Error("sold counter update failed",
			zap.String("item_type", order.ItemType),
			zap.Int64("item_id", order.ItemID),
			zap.Error(err))
	}

	order.Status = domain.OrderStatusCompleted
	order.PaymentID = info.PaymentID
	order.UserEmail = email
	order.UserName = info.PayerName
	order.CompletedAt = &now
	if s.bus != nil {
		s.bus.Publish(events.TopicOrderCompleted, order)
	}

	zap.L().Info("order completed",
		zap.String("session_id", order.SessionID),
		zap.String("payment_id", info.PaymentID),
		zap.Int64("amount_cents", order.AmountPaid))
	return nil
}

func statusOf(order *domain.Order) *SessionStatus {
	return &SessionStatus{
		SessionID:   order.SessionID,
		Status:      order.Status,
		UserEmail:   order.UserEmail,
		AmountCents: order.AmountPaid,
		Currency:    order.Currency,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
