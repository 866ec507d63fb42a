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

func registerCompanyRoutes() {
	webserver.ApiGET("/companies", listCompanies)
	webserver.ApiGET("/companies/:id", getCompany)
	webserver.ApiPOST("/companies", createCompany)
	webserver.ApiPUT("/companies/:id", updateCompany)
	webserver.ApiDELETE("/companies/:id", deleteCompany)

	webserver.ApiGET("/company-services", listCompanyServices)
	webserver.ApiGET("/company-services/:id", getCompanyService)
	webserver.ApiPOST("/company-services", createCompanyService)
	webserver.ApiPUT("/company-services/:id", updateCompanyService)
	webserver.ApiDELETE("/company-services/:id", deleteCompanyService)
}

func listCompanies(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Company{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(base.Name(), "postgres") { //nolint:staticcheck
			base = base.Where("name ILIKE ? OR slug ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			base = base.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query companies", err.Error())
	}
	var companies []domain.Company
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&companies).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query companies", err.Error())
	}
	return paged(c, companies, total, page, pageSize)
}

func getCompany(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var company domain.Company
	if err := GetDB(c).Where("id = ?", id).First(&company).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Company not found", nil)
	}
	return ok(c, company)
}

type companyPayload struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Status  string `json:"status"`
	Remark  string `json:"remark"`
}

func createCompany(c echo.Context) error {
	var payload companyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse company parameters", nil)
	}
	payload.Slug = strings.ToLower(strings.TrimSpace(payload.Slug))
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Slug == "" || payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Company slug and name are required", nil)
	}
	var dup domain.Company
	if err := GetDB(c).Where("slug = ?", payload.Slug).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_COMPANY", "Company with this slug already exists", nil)
	}

	company := domain.Company{
		ID:        common.UUIDint64(),
		Slug:      payload.Slug,
		Name:      payload.Name,
		Tagline:   payload.Tagline,
		Email:     payload.Email,
		Website:   payload.Website,
		Status:    common.TrimOrDefault(payload.Status, common.ENABLED),
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&company).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create company", err.Error())
	}
	logOperation(c, "create_company", company.Slug)
	return ok(c, company)
}

func updateCompany(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var company domain.Company
	if err := GetDB(c).Where("id = ?", id).First(&company).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Company not found", nil)
	}
	var payload companyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse company parameters", nil)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if s := strings.ToLower(strings.TrimSpace(payload.Slug)); s != "" && s != company.Slug {
		var dup domain.Company
		if err := GetDB(c).Where("slug = ? AND id != ?", s, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_COMPANY", "Another company with this slug already exists", nil)
		}
		updates["slug"] = s
	}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Tagline != "" {
		updates["tagline"] = payload.Tagline
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Website != "" {
		updates["website"] = payload.Website
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	if err := GetDB(c).Model(&company).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update company", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&company)
	logOperation(c, "update_company", company.Slug)
	return ok(c, company)
}

func deleteCompany(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	if err := GetDB(c).Where("company_id = ?", id).Delete(&domain.CompanyService{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete company services", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Company{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete company", err.Error())
	}
	logOperation(c, "delete_company", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

type companyServicePayload struct {
	CompanyID int64  `json:"company_id,string"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Available *bool  `json:"available"`
	Stock     *int   `json:"stock"`
	Sort      int    `json:"sort"`
}

func listCompanyServices(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CompanyService{})
	if companyID := strings.TrimSpace(c.QueryParam("company_id")); companyID != "" {
		db = db.Where("company_id = ?", companyID)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query company services", err.Error())
	}
	var rows []domain.CompanyService
	if err := db.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query company services", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCompanyService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	var s domain.CompanyService
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	return ok(c, s)
}

func validateCompanyServicePayload(c echo.Context, payload *companyServicePayload) (string, bool) {
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return "Title is required", false
	}
	if payload.CompanyID == 0 {
		return "company_id is required", false
	}
	var company domain.Company
	if err := GetDB(c).Where("id = ?", payload.CompanyID).First(&company).Error; err != nil {
		return "Unknown company_id", false
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

func createCompanyService(c echo.Context) error {
	var payload companyServicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if msg, valid := validateCompanyServicePayload(c, &payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	s := domain.CompanyService{
		ID:        common.UUIDint64(),
		CompanyID: payload.CompanyID,
		Title:     payload.Title,
		Summary:   payload.Summary,
		Price:     payload.Price,
		Currency:  common.TrimOrDefault(strings.ToLower(payload.Currency), "usd"),
		Available: payload.Available == nil || *payload.Available,
		Stock:     payload.Stock,
		Sort:      payload.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create service", err.Error())
	}
	logOperation(c, "create_company_service", s.Title)
	return ok(c, s)
}

func updateCompanyService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	var s domain.CompanyService
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	var payload companyServicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if msg, valid := validateCompanyServicePayload(c, &payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	s.CompanyID = payload.CompanyID
	s.Title = payload.Title
	s.Summary = payload.Summary
	s.Price = payload.Price
	s.Currency = common.TrimOrDefault(strings.ToLower(payload.Currency), "usd")
	if payload.Available != nil {
		s.Available = *payload.Available
	}
	s.Stock = payload.Stock
	s.Sort = payload.Sort
	s.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update service", err.Error())
	}
	logOperation(c, "update_company_service", s.Title)
	return ok(c, s)
}

func deleteCompanyService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.CompanyService{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete service", err.Error())
	}
	logOperation(c, "delete_company_service", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
