package siteapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/contact"
	"github.com/nvalente/studiocms/internal/schema"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/metrics"
)

func registerContactRoutes() {
	webserver.PubPOST("/contact", submitContact)
}

func submitContact(c echo.Context) error {
	var payload schema.ContactPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse contact form")
	}

	submission, err := GetApp(c).Contact().Submit(c.Request().Context(), schema.MapContact(payload))
	if err != nil {
		var verr *contact.ErrValidation
		if errors.As(err, &verr) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", verr.Message)
		}
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Unable to record submission")
	}
	metrics.Incr(metrics.ContactReceived)
	// snowflake ids exceed the JS safe integer range, always a string
	// on the wire
	return ok(c, map[string]interface{}{
		"id":     strconv.FormatInt(submission.ID, 10),
		"status": submission.Status,
	})
}
