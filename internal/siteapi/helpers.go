// Package siteapi exposes the public storefront endpoints under
// /api/v1. Unlike the admin API it never leaks database errors to
// the caller.
package siteapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/app"
	"github.com/nvalente/studiocms/internal/webserver"
)

// Init registers the public site routes
func Init() {
	registerCatalogRoutes()
	registerCheckoutRoutes()
	registerContactRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

func GetApp(c echo.Context) app.AppContext {
	return webserver.GetAppCtx(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
	})
}

// fail returns an error without internal detail, public callers only
// ever see the code and message
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{
		"success":    false,
		"error_code": code,
		"error":      message,
	})
}
