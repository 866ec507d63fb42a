package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

func registerContentRoutes() {
	webserver.ApiGET("/projects", listProjects)
	webserver.ApiGET("/projects/:id", getProject)
	webserver.ApiPOST("/projects", createProject)
	webserver.ApiPUT("/projects/:id", updateProject)
	webserver.ApiDELETE("/projects/:id", deleteProject)

	webserver.ApiGET("/testimonials", listTestimonials)
	webserver.ApiPOST("/testimonials", createTestimonial)
	webserver.ApiPUT("/testimonials/:id", updateTestimonial)
	webserver.ApiDELETE("/testimonials/:id", deleteTestimonial)
}

func listProjects(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Project{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ? OR tags ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ? OR LOWER(tags) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if published := strings.TrimSpace(c.QueryParam("published")); published != "" {
		db = db.Where("published = ?", published == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query projects", err.Error())
	}
	var rows []domain.Project
	if err := db.Order("sort ASC, id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query projects", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID", nil)
	}
	var project domain.Project
	if err := GetDB(c).Where("id = ?", id).First(&project).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
	}
	return ok(c, project)
}

type projectPayload struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	Tags      string `json:"tags"`
	Published *bool  `json:"published"`
	Sort      int    `json:"sort"`
}

func createProject(c echo.Context) error {
	var payload projectPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse project", nil)
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Slug = strings.ToLower(strings.TrimSpace(payload.Slug))
	if payload.Title == "" || payload.Slug == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Project title and slug are required", nil)
	}
	var dup domain.Project
	if err := GetDB(c).Where("slug = ?", payload.Slug).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_PROJECT", "Project with this slug already exists", nil)
	}

	now := time.Now()
	project := domain.Project{
		ID:        common.UUIDint64(),
		Title:     payload.Title,
		Slug:      payload.Slug,
		Summary:   payload.Summary,
		Body:      payload.Body,
		Tags:      payload.Tags,
		Published: payload.Published != nil && *payload.Published,
		Sort:      payload.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&project).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create project", err.Error())
	}
	logOperation(c, "create_project", project.Slug)
	return ok(c, project)
}

func updateProject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID", nil)
	}
	var project domain.Project
	if err := GetDB(c).Where("id = ?", id).First(&project).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
	}
	var payload projectPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse project", nil)
	}

	if s := strings.ToLower(strings.TrimSpace(payload.Slug)); s != "" && s != project.Slug {
		var dup domain.Project
		if err := GetDB(c).Where("slug = ? AND id != ?", s, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_PROJECT", "Another project with this slug already exists", nil)
		}
		project.Slug = s
	}
	if payload.Title != "" {
		project.Title = strings.TrimSpace(payload.Title)
	}
	project.Summary = payload.Summary
	project.Body = payload.Body
	project.Tags = payload.Tags
	if payload.Published != nil {
		project.Published = *payload.Published
	}
	project.Sort = payload.Sort
	project.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&project).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update project", err.Error())
	}
	logOperation(c, "update_project", project.Slug)
	return ok(c, project)
}

func deleteProject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Project{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete project", err.Error())
	}
	logOperation(c, "delete_project", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

func listTestimonials(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Testimonial{})
	if slug := strings.ToLower(strings.TrimSpace(c.QueryParam("company_slug"))); slug != "" {
		db = db.Where("company_slug = ?", slug)
	}
	if published := strings.TrimSpace(c.QueryParam("published")); published != "" {
		db = db.Where("published = ?", published == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query testimonials", err.Error())
	}
	var rows []domain.Testimonial
	if err := db.Order("sort ASC, id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query testimonials", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

type testimonialPayload struct {
	Author      string `json:"author"`
	Role        string `json:"role"`
	Quote       string `json:"quote"`
	CompanySlug string `json:"company_slug"`
	Published   *bool  `json:"published"`
	Sort        int    `json:"sort"`
}

func createTestimonial(c echo.Context) error {
	var payload testimonialPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse testimonial", nil)
	}
	payload.Author = strings.TrimSpace(payload.Author)
	payload.Quote = strings.TrimSpace(payload.Quote)
	if payload.Author == "" || payload.Quote == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Testimonial author and quote are required", nil)
	}

	now := time.Now()
	testimonial := domain.Testimonial{
		ID:          common.UUIDint64(),
		Author:      payload.Author,
		Role:        payload.Role,
		Quote:       payload.Quote,
		CompanySlug: strings.ToLower(strings.TrimSpace(payload.CompanySlug)),
		Published:   payload.Published != nil && *payload.Published,
		Sort:        payload.Sort,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&testimonial).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create testimonial", err.Error())
	}
	logOperation(c, "create_testimonial", testimonial.Author)
	return ok(c, testimonial)
}

func updateTestimonial(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	var testimonial domain.Testimonial
	if err := GetDB(c).Where("id = ?", id).First(&testimonial).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Testimonial not found", nil)
	}
	var payload testimonialPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse testimonial", nil)
	}

	if payload.Author != "" {
		testimonial.Author = strings.TrimSpace(payload.Author)
	}
	testimonial.Role = payload.Role
	if payload.Quote != "" {
		testimonial.Quote = strings.TrimSpace(payload.Quote)
	}
	testimonial.CompanySlug = strings.ToLower(strings.TrimSpace(payload.CompanySlug))
	if payload.Published != nil {
		testimonial.Published = *payload.Published
	}
	testimonial.Sort = payload.Sort
	testimonial.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&testimonial).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update testimonial", err.Error())
	}
	logOperation(c, "update_testimonial", testimonial.Author)
	return ok(c, testimonial)
}

func deleteTestimonial(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Testimonial{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete testimonial", err.Error())
	}
	logOperation(c, "delete_testimonial", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
