package siteapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nvalente/studiocms/internal/checkout"
	"github.com/nvalente/studiocms/internal/schema"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/metrics"
)

func registerCheckoutRoutes() {
	webserver.PubPOST("/checkout", createCheckout)
	webserver.PubGET("/checkout/session/:id", getCheckoutSession)
	webserver.PubPOST("/payment-intents", createPaymentIntent)
	webserver.PubPOST("/payment-intents/confirm", confirmPaymentIntent)
}

// checkoutFail maps service errors onto public responses without
// leaking provider detail
func checkoutFail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, checkout.ErrItemNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Item not found")
	case errors.Is(err, checkout.ErrItemUnavailable):
		return fail(c, http.StatusConflict, "UNAVAILABLE", "Item is not available for purchase")
	case errors.Is(err, checkout.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, checkout.ErrPaymentSetup), errors.Is(err, checkout.ErrProviderFetch):
		return fail(c, http.StatusBadGateway, "PAYMENT_ERROR", "Payment provider error")
	default:
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Checkout failed")
	}
}

func createCheckout(c echo.Context) error {
	var payload schema.CheckoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout request")
	}
	if payload.ItemID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "itemId is required")
	}

	result, err := GetApp(c).Checkout().InitiateCheckout(c.Request().Context(), schema.MapCheckout(payload))
	if err != nil {
		zap.L().Warn("checkout initiation failed", zap.Error(err))
		return checkoutFail(c, err)
	}
	metrics.Incr(metrics.CheckoutCreated)
	return ok(c, result)
}

func getCheckoutSession(c echo.Context) error {
	sessionID := strings.TrimSpace(c.Param("id"))
	if sessionID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Session id is required")
	}
	paymentID := strings.TrimSpace(c.QueryParam("payment_id"))

	status, err := GetApp(c).Checkout().ReconcileSession(c.Request().Context(), sessionID, paymentID)
	if err != nil {
		return checkoutFail(c, err)
	}
	return ok(c, status)
}

func createPaymentIntent(c echo.Context) error {
	var payload schema.IntentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse intent request")
	}
	if payload.ItemID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "itemId is required")
	}

	result, err := GetApp(c).Checkout().CreateIntent(c.Request().Context(),
		schema.NormalizeItemType(payload.ItemType), payload.ItemID, payload.Quantity)
	if err != nil {
		return checkoutFail(c, err)
	}
	metrics.Incr(metrics.CheckoutCreated)
	return ok(c, result)
}

func confirmPaymentIntent(c echo.Context) error {
	var payload schema.ConfirmPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse confirmation")
	}
	in := schema.MapConfirm(payload)
	if in.Reference == "" || in.CardToken == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "reference and cardToken are required")
	}

	status, err := GetApp(c).Checkout().ConfirmIntent(c.Request().Context(), in)
	if err != nil {
		zap.L().Warn("intent confirmation failed", zap.Error(err))
		return checkoutFail(c, err)
	}
	return ok(c, status)
}
