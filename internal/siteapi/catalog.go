package siteapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

func registerCatalogRoutes() {
	webserver.PubGET("/pricing", publicPricing)
	webserver.PubGET("/projects", publicProjects)
	webserver.PubGET("/testimonials", publicTestimonials)
	webserver.PubGET("/companies/:slug", publicCompany)
	webserver.PubGET("/companies/:slug/services", publicCompanyServices)
}

func publicPricing(c echo.Context) error {
	var rows []domain.Pricing
	if err := GetDB(c).Where("available = ?", true).
		Order("sort ASC, id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Unable to load pricing")
	}
	return ok(c, rows)
}

func publicProjects(c echo.Context) error {
	var rows []domain.Project
	if err := GetDB(c).Where("published = ?", true).
		Order("sort ASC, id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Unable to load projects")
	}
	return ok(c, rows)
}

func publicTestimonials(c echo.Context) error {
	db := GetDB(c).Where("published = ?", true)
	if slug := strings.ToLower(strings.TrimSpace(c.QueryParam("company"))); slug != "" {
		db = db.Where("company_slug = ?", slug)
	}
	var rows []domain.Testimonial
	if err := db.Order("sort ASC, id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Unable to load testimonials")
	}
	return ok(c, rows)
}

func publicCompany(c echo.Context) error {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	var company domain.Company
	if err := GetDB(c).Where("slug = ? AND status = ?", slug, common.ENABLED).
		First(&company).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Company not found")
	}
	return ok(c, company)
}

func publicCompanyServices(c echo.Context) error {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	var company domain.Company
	if err := GetDB(c).Where("slug = ? AND status = ?", slug, common.ENABLED).
		First(&company).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Company not found")
	}
	var services []domain.CompanyService
	if err := GetDB(c).Where("company_id = ? AND available = ?", company.ID, true).
		Order("sort ASC, id ASC").Find(&services).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Unable to load services")
	}
	return ok(c, services)
}
