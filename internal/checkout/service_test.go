package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/events"
	"github.com/nvalente/studiocms/internal/payment"
)

type memOrders struct {
	orders []*domain.Order
}

func (m *memOrders) Create(_ context.Context, order *domain.Order) error {
	m.orders = append(m.orders, order)
	return nil
}

func (m *memOrders) GetBySessionID(_ context.Context, sessionID string) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *memOrders) GetByReference(_ context.Context, reference string) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.Reference == reference {
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *memOrders) Complete(_ context.Context, orderID int64, paymentID, email, name string, when time.Time) (bool, error) {
	for _, o := range m.orders {
		if o.ID == orderID && o.Status == domain.OrderStatusPending {
			o.Status = domain.OrderStatusCompleted
			o.PaymentID = paymentID
			o.UserEmail = email
			o.UserName = name
			o.CompletedAt = &when
			return true, nil
		}
	}
	return false, nil
}

type memCatalog struct {
	pricing  map[int64]*domain.Pricing
	services map[int64]*domain.CompanyService
	sold     map[string]int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		pricing:  map[int64]*domain.Pricing{},
		services: map[int64]*domain.CompanyService{},
		sold:     map[string]int{},
	}
}

func (m *memCatalog) GetPricing(_ context.Context, id int64) (*domain.Pricing, error) {
	p, ok := m.pricing[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return p, nil
}

func (m *memCatalog) GetCompanyService(_ context.Context, id int64) (*domain.CompanyService, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return s, nil
}

func (m *memCatalog) IncrementSold(_ context.Context, itemType string, itemID int64, qty int) error {
	m.sold[fmt.Sprintf("%s:%d", itemType, itemID)] += qty
	return nil
}

type stubGateway struct {
	failCreate   bool
	lastCheckout payment.CheckoutRequest
	lastCharge   payment.CardCharge
	payments     map[string]*payment.PaymentInfo
	chargeStatus string
	sessions     int
}

func (g *stubGateway) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	if g.failCreate {
		return nil, fmt.Errorf("provider unavailable")
	}
	g.lastCheckout = req
	g.sessions++
	return &payment.CheckoutSession{
		SessionID:   fmt.Sprintf("pref-%d", g.sessions),
		RedirectURL: "https://provider.example/checkout",
	}, nil
}

func (g *stubGateway) GetPayment(_ context.Context, paymentID string) (*payment.PaymentInfo, error) {
	info, ok := g.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment not found")
	}
	return info, nil
}

func (g *stubGateway) FindPaymentByReference(_ context.Context, reference string) (*payment.PaymentInfo, error) {
	for _, p := range g.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, nil
}

func (g *stubGateway) ChargeCard(_ context.Context, req payment.CardCharge) (*payment.PaymentInfo, error) {
	g.lastCharge = req
	status := g.chargeStatus
	if status == "" {
		status = payment.StatusApproved
	}
	return &payment.PaymentInfo{
		PaymentID:   "charge-1",
		Status:      status,
		Reference:   req.Reference,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PayerEmail:  req.PayerEmail,
	}, nil
}

func intptr(v int) *int { return &v }

func newTestService(t *testing.T) (*Service, *memOrders, *memCatalog, *stubGateway) {
	t.Helper()
	orders := &memOrders{}
	catalog := newMemCatalog()
	catalog.pricing[1] = &domain.Pricing{ID: 1, Title: "Brand Kit", Price: "$75", Currency: "usd", Available: true}
	catalog.pricing[2] = &domain.Pricing{ID: 2, Title: "Retired Offer", Price: "$20", Currency: "usd", Available: false}
	catalog.pricing[3] = &domain.Pricing{ID: 3, Title: "Sold Out", Price: "$30", Currency: "usd", Available: true, Stock: intptr(0)}
	catalog.services[10] = &domain.CompanyService{ID: 10, CompanyID: 5, Title: "Site Redesign", Price: "$1,200", Currency: "usd", Available: true}
	gateway := &stubGateway{payments: map[string]*payment.PaymentInfo{}}
	svc := NewService(orders, catalog, gateway, EventBus.New(),
		"https://studio.example/thanks", "https://studio.example/cancel")
	return svc, orders, catalog, gateway
}

func TestInitiateCheckout(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1, BuyerEmail: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", res.SessionID)
	assert.Equal(t, "https://provider.example/checkout", res.RedirectURL)
	assert.Equal(t, int64(7500), res.AmountCents)
	assert.Equal(t, "usd", res.Currency)

	// exactly one pending order keyed by the provider session id
	require.Len(t, orders.orders, 1)
	order := orders.orders[0]
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "pref-1", order.SessionID)
	assert.Equal(t, int64(7500), order.AmountPaid)
	assert.Equal(t, "usd", order.Currency)

	// the stored amount equals what went to the provider
	assert.Equal(t, int64(7500), gateway.lastCheckout.UnitCents*int64(gateway.lastCheckout.Quantity))
	assert.Equal(t, order.Reference, gateway.lastCheckout.Reference)
}

func TestInitiateCheckoutDisplayPriceWithComma(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypeCompanyService, ItemID: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), res.AmountCents)
	assert.Equal(t, int64(120000), gateway.lastCheckout.UnitCents)
	assert.Equal(t, int64(120000), orders.orders[0].AmountPaid)
}

func TestInitiateCheckoutUnavailable(t *testing.T) {
	svc, orders, _, _ := newTestService(t)

	_, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 2,
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.Empty(t, orders.orders, "rejected checkout must not create an order row")

	// zero stock counts as unavailable
	_, err = svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 3,
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.Empty(t, orders.orders)
}

func TestInitiateCheckoutUnknownItem(t *testing.T) {
	svc, orders, _, _ := newTestService(t)

	_, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 999,
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, orders.orders)
}

func TestInitiateCheckoutProviderFailure(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)
	gateway.failCreate = true

	_, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	assert.ErrorIs(t, err, ErrPaymentSetup)
	assert.Empty(t, orders.orders)
}

func TestReconcilePaidSession(t *testing.T) {
	svc, orders, catalog, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)

	gateway.payments["pay-9"] = &payment.PaymentInfo{
		PaymentID:  "pay-9",
		Status:     payment.StatusApproved,
		Reference:  orders.orders[0].Reference,
		PayerEmail: "buyer@example.com",
		PayerName:  "Ada Buyer",
	}

	st, err := svc.ReconcileSession(context.Background(), res.SessionID, "pay-9")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, st.Status)
	assert.Equal(t, payment.StatusApproved, st.PaymentStatus)
	assert.Equal(t, "buyer@example.com", st.UserEmail)

	order := orders.orders[0]
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Equal(t, "pay-9", order.PaymentID)
	assert.Equal(t, "buyer@example.com", order.UserEmail)
	assert.Equal(t, "Ada Buyer", order.UserName)
	assert.NotNil(t, order.CompletedAt)
	assert.Equal(t, 1, catalog.sold["pricing:1"])
}

func TestReconcileIdempotent(t *testing.T) {
	svc, orders, catalog, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)

	gateway.payments["pay-9"] = &payment.PaymentInfo{
		PaymentID: "pay-9",
		Status:    payment.StatusApproved,
		Reference: orders.orders[0].Reference,
	}

	first, err := svc.ReconcileSession(context.Background(), res.SessionID, "pay-9")
	require.NoError(t, err)
	second, err := svc.ReconcileSession(context.Background(), res.SessionID, "pay-9")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 1, catalog.sold["pricing:1"], "second reconcile must not change state again")
}

func TestReconcilePendingWithoutPaymentID(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)

	st, err := svc.ReconcileSession(context.Background(), res.SessionID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, st.Status)
}

// staleOrders returns pending copies after completion, the way a
// reconciliation that read the row before a concurrent winner wrote
// it would see the order.
type staleOrders struct {
	*memOrders
	stale bool
}

func (s *staleOrders) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	o, err := s.memOrders.GetBySessionID(ctx, sessionID)
	if err == nil && s.stale {
		o.Status = domain.OrderStatusPending
	}
	return o, err
}

func TestReconcileLostRaceSkipsSideEffects(t *testing.T) {
	orders := &staleOrders{memOrders: &memOrders{}}
	catalog := newMemCatalog()
	catalog.pricing[1] = &domain.Pricing{ID: 1, Title: "Brand Kit", Price: "$75", Currency: "usd", Available: true}
	gateway := &stubGateway{payments: map[string]*payment.PaymentInfo{}}

	var publishCount int
	bus := EventBus.New()
	require.NoError(t, bus.Subscribe(events.TopicOrderCompleted, func(_ *domain.Order) {
		publishCount++
	}))
	svc := NewService(orders, catalog, gateway, bus,
		"https://studio.example/thanks", "https://studio.example/cancel")

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)
	gateway.payments["pay-9"] = &payment.PaymentInfo{
		PaymentID: "pay-9", Status: payment.StatusApproved, Reference: orders.orders[0].Reference,
	}

	_, err = svc.ReconcileSession(context.Background(), res.SessionID, "pay-9")
	require.NoError(t, err)
	require.Equal(t, 1, catalog.sold["pricing:1"])
	require.Equal(t, 1, publishCount)

	// a racer that read the order as pending before the winner wrote
	// completed must not repeat the counters or the event
	orders.stale = true
	st, err := svc.ReconcileSession(context.Background(), res.SessionID, "pay-9")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, st.Status)
	assert.Equal(t, 1, catalog.sold["pricing:1"], "losing racer must not double count sales")
	assert.Equal(t, 1, publishCount, "losing racer must not re-publish completion")
}

func TestReconcilePollsProviderByReference(t *testing.T) {
	svc, orders, catalog, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)

	// provider recorded the payment but the back URL was never followed
	gateway.payments["pay-7"] = &payment.PaymentInfo{
		PaymentID:  "pay-7",
		Status:     payment.StatusApproved,
		Reference:  orders.orders[0].Reference,
		PayerEmail: "buyer@example.com",
	}

	st, err := svc.ReconcileSession(context.Background(), res.SessionID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, st.Status)
	assert.Equal(t, "pay-7", orders.orders[0].PaymentID)
	assert.Equal(t, 1, catalog.sold["pricing:1"])
}

func TestReconcileUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ReconcileSession(context.Background(), "missing", "pay-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReconcileReferenceMismatch(t *testing.T) {
	svc, _, _, gateway := newTestService(t)

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)

	gateway.payments["pay-x"] = &payment.PaymentInfo{
		PaymentID: "pay-x",
		Status:    payment.StatusApproved,
		Reference: "someone-elses-order",
	}

	_, err = svc.ReconcileSession(context.Background(), res.SessionID, "pay-x")
	assert.ErrorIs(t, err, ErrProviderFetch)
}

func TestIntentFlow(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)

	intent, err := svc.CreateIntent(context.Background(), domain.ItemTypePricing, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), intent.AmountCents)
	require.Len(t, orders.orders, 1)
	assert.Equal(t, domain.OrderStatusPending, orders.orders[0].Status)

	st, err := svc.ConfirmIntent(context.Background(), ConfirmInput{
		Reference:  intent.Reference,
		CardToken:  "tok-123",
		PayerEmail: "card@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, st.Status)

	// amount charged equals the recorded amount, not anything client supplied
	assert.Equal(t, int64(15000), gateway.lastCharge.AmountCents)
	assert.Equal(t, "tok-123", gateway.lastCharge.CardToken)
	assert.Equal(t, domain.OrderStatusCompleted, orders.orders[0].Status)
	assert.Equal(t, "card@example.com", orders.orders[0].UserEmail)
}

func TestConfirmIntentRejected(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)
	gateway.chargeStatus = payment.StatusRejected

	intent, err := svc.CreateIntent(context.Background(), domain.ItemTypePricing, 1, 1)
	require.NoError(t, err)

	st, err := svc.ConfirmIntent(context.Background(), ConfirmInput{Reference: intent.Reference, CardToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, st.Status)
	assert.Equal(t, payment.StatusRejected, st.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPending, orders.orders[0].Status)
}

func TestOrderCompletedEventPublished(t *testing.T) {
	svc, orders, _, gateway := newTestService(t)

	var published *domain.Order
	bus := EventBus.New()
	require.NoError(t, bus.Subscribe(events.TopicOrderCompleted, func(o *domain.Order) {
		published = o
	}))
	svc.bus = bus

	res, err := svc.InitiateCheckout(context.Background(), InitiateInput{
		ItemType: domain.ItemTypePricing, ItemID: 1,
	})
	require.NoError(t, err)
	gateway.payments["pay-1"] = &payment.PaymentInfo{
		PaymentID: "pay-1", Status: payment.StatusApproved, Reference: orders.orders[0].Reference,
	}

	_, err = svc.ReconcileSession(context.Background(), res.SessionID, "pay-1")
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.Equal(t, domain.OrderStatusCompleted, published.Status)
}
