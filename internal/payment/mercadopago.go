package payment

import (
	"context"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/pkg/errors"
)

// MercadoPago implements Gateway with the official SDK
type MercadoPago struct {
	cfg *mpconfig.Config
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "mercadopago config")
	}
	return &MercadoPago{cfg: cfg}, nil
}

func (g *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	client := preference.NewClient(g.cfg)

	prefReq := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:       req.Title,
				Description: req.Description,
				Quantity:    req.Quantity,
				UnitPrice:   CentsToUnits(req.UnitCents),
				CurrencyID:  strings.ToUpper(req.Currency),
			},
		},
		ExternalReference: req.Reference,
		AutoReturn:        "approved",
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Failure: req.CancelURL,
			Pending: req.SuccessURL,
		},
	}
	if req.PayerEmail != "" {
		prefReq.Payer = &preference.PayerRequest{Email: req.PayerEmail}
	}

	result, err := client.Create(ctx, prefReq)
	if err != nil {
		return nil, errors.Wrap(err, "create preference")
	}
	return &CheckoutSession{
		SessionID:   result.ID,
		RedirectURL: result.InitPoint,
		SandboxURL:  result.SandboxInitPoint,
	}, nil
}

func (g *MercadoPago) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, errors.Errorf("invalid payment id %q", paymentID)
	}

	client := mppayment.NewClient(g.cfg)
	result, err := client.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}
	return paymentInfoFromResponse(paymentID, result), nil
}

func (g *MercadoPago) FindPaymentByReference(ctx context.Context, reference string) (*PaymentInfo, error) {
	client := mppayment.NewClient(g.cfg)
	result, err := client.Search(ctx, mppayment.SearchRequest{
		Filters: map[string]string{"external_reference": reference},
	})
	if err != nil {
		return nil, errors.Wrap(err, "search payments")
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	// prefer a confirmed payment over rejected retries
	for i := range result.Results {
		if IsPaid(result.Results[i].Status) {
			return paymentInfoFromResponse(strconv.Itoa(result.Results[i].ID), &result.Results[i]), nil
		}
	}
	return paymentInfoFromResponse(strconv.Itoa(result.Results[0].ID), &result.Results[0]), nil
}

func (g *MercadoPago) ChargeCard(ctx context.Context, req CardCharge) (*PaymentInfo, error) {
	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}

	client := mppayment.NewClient(g.cfg)
	result, err := client.Create(ctx, mppayment.Request{
		TransactionAmount: CentsToUnits(req.AmountCents),
		Token:             req.CardToken,
		Description:       req.Description,
		Installments:      installments,
		PaymentMethodID:   req.PaymentMethod,
		ExternalReference: req.Reference,
		Payer: &mppayment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create payment")
	}
	return paymentInfoFromResponse(strconv.Itoa(result.ID), result), nil
}

func paymentInfoFromResponse(paymentID string, r *mppayment.Response) *PaymentInfo {
	return &PaymentInfo{
		PaymentID:    paymentID,
		Status:       r.Status,
		StatusDetail: r.StatusDetail,
		Reference:    r.ExternalReference,
		AmountCents:  UnitsToCents(r.TransactionAmount),
		Currency:     strings.ToLower(r.CurrencyID),
		PayerEmail:   r.Payer.Email,
		PayerName:    strings.TrimSpace(r.Payer.FirstName + " " + r.Payer.LastName),
		ApprovedAt:   r.DateApproved,
	}
}
