package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/payment"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

type pricingPayload struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Features  string `json:"features"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Available *bool  `json:"available"`
	Stock     *int   `json:"stock"`
	Featured  *bool  `json:"featured"`
	Sort      int    `json:"sort"`
}

// registerPricingRoutes registers pricing catalog CRUD endpoints
func registerPricingRoutes() {
	webserver.ApiGET("/pricing", listPricing)
	webserver.ApiGET("/pricing/:id", getPricing)
	webserver.ApiPOST("/pricing", createPricing)
	webserver.ApiPUT("/pricing/:id", updatePricing)
	webserver.ApiDELETE("/pricing/:id", deletePricing)
}

func listPricing(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Sorting: field and order, whitelist allowed sort columns
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	allowed := map[string]string{
		"id":         "id",
		"title":      "title",
		"sort":       "sort",
		"sold_count": "sold_count",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, found := allowed[sortField]
	if !found || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Pricing{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pricing", err.Error())
	}

	var rows []domain.Pricing
	if err := db.Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pricing", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getPricing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pricing ID", nil)
	}
	var p domain.Pricing
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Pricing not found", nil)
	}
	return ok(c, p)
}

func validatePricingPayload(payload *pricingPayload) (string, bool) {
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return "Title is required", false
	}
	payload.Price = strings.TrimSpace(payload.Price)
	if _, err := payment.ParsePriceCents(payload.Price); err != nil {
		return "Price must be a parseable amount like $75 or $1,200", false
	}
	if payload.Stock != nil && *payload.Stock < 0 {
		return "Stock must be >= 0", false
	}
	return "", true
}

func createPricing(c echo.Context) error {
	var payload pricingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pricing", err.Error())
	}
	if msg, valid := validatePricingPayload(&payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	p := domain.Pricing{
		ID:        common.UUIDint64(),
		Title:     payload.Title,
		Summary:   payload.Summary,
		Features:  payload.Features,
		Price:     payload.Price,
		Currency:  common.TrimOrDefault(strings.ToLower(payload.Currency), "usd"),
		Available: payload.Available == nil || *payload.Available,
		Stock:     payload.Stock,
		Featured:  payload.Featured != nil && *payload.Featured,
		Sort:      payload.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create pricing", err.Error())
	}
	logOperation(c, "create_pricing", p.Title)
	return ok(c, p)
}

func updatePricing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pricing ID", nil)
	}
	var p domain.Pricing
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Pricing not found", nil)
	}

	var payload pricingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pricing", err.Error())
	}
	if msg, valid := validatePricingPayload(&payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	p.Title = payload.Title
	p.Summary = payload.Summary
	p.Features = payload.Features
	p.Price = payload.Price
	p.Currency = common.TrimOrDefault(strings.ToLower(payload.Currency), "usd")
	if payload.Available != nil {
		p.Available = *payload.Available
	}
	p.Stock = payload.Stock
	if payload.Featured != nil {
		p.Featured = *payload.Featured
	}
	p.Sort = payload.Sort
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update pricing", err.Error())
	}
	logOperation(c, "update_pricing", p.Title)
	return ok(c, p)
}

func deletePricing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pricing ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Pricing{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete pricing", err.Error())
	}
	logOperation(c, "delete_pricing", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
