package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

var contactStatuses = []string{
	domain.ContactStatusNew,
	domain.ContactStatusRead,
	domain.ContactStatusReplied,
	domain.ContactStatusArchived,
}

func registerContactRoutes() {
	webserver.ApiGET("/contacts", listContacts)
	webserver.ApiGET("/contacts/:id", getContact)
	webserver.ApiPUT("/contacts/:id/status", updateContactStatus)
	webserver.ApiDELETE("/contacts/:id", deleteContact)
	webserver.ApiGET("/contacts/export", exportContacts)
}

func contactListQuery(c echo.Context) *gorm.DB {
	db := GetDB(c).Model(&domain.ContactSubmission{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if slug := strings.ToLower(strings.TrimSpace(c.QueryParam("company_slug"))); slug != "" {
		db = db.Where("company_slug = ?", slug)
	}
	if kind := strings.TrimSpace(c.QueryParam("kind")); kind != "" {
		db = db.Where("kind = ?", kind)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?", lq, lq, lq)
		}
	}
	return parseDateRange(c, db, "created_at")
}

func listContacts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := contactListQuery(c)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query contact submissions", err.Error())
	}
	var rows []domain.ContactSubmission
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query contact submissions", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getContact(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID", nil)
	}
	var submission domain.ContactSubmission
	if err := GetDB(c).Where("id = ?", id).First(&submission).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Submission not found", nil)
	}
	// first admin read flips the status automatically
	if submission.Status == domain.ContactStatusNew {
		GetDB(c).Model(&submission).Updates(map[string]interface{}{
			"status":     domain.ContactStatusRead,
			"updated_at": time.Now(),
		})
		submission.Status = domain.ContactStatusRead
	}
	return ok(c, submission)
}

func updateContactStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID", nil)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	payload.Status = strings.TrimSpace(payload.Status)
	if !common.InSlice(payload.Status, contactStatuses) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown contact status", nil)
	}

	var submission domain.ContactSubmission
	if err := GetDB(c).Where("id = ?", id).First(&submission).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Submission not found", nil)
	}
	if err := GetDB(c).Model(&submission).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update submission", err.Error())
	}
	submission.Status = payload.Status
	logOperation(c, "update_contact_status", fmt.Sprintf("%d -> %s", id, payload.Status))
	return ok(c, submission)
}

func deleteContact(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ContactSubmission{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete submission", err.Error())
	}
	logOperation(c, "delete_contact", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

type contactCSVRow struct {
	ID          int64  `csv:"id"`
	Name        string `csv:"name"`
	Email       string `csv:"email"`
	Subject     string `csv:"subject"`
	Message     string `csv:"message"`
	CompanySlug string `csv:"company_slug"`
	Kind        string `csv:"kind"`
	Status      string `csv:"status"`
	CreatedAt   string `csv:"created_at"`
}

func exportContacts(c echo.Context) error {
	var submissions []domain.ContactSubmission
	if err := contactListQuery(c).Order("created_at DESC").Find(&submissions).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query contact submissions", err.Error())
	}

	rows := make([]contactCSVRow, 0, len(submissions))
	for _, s := range submissions {
		rows = append(rows, contactCSVRow{
			ID:          s.ID,
			Name:        s.Name,
			Email:       s.Email,
			Subject:     s.Subject,
			Message:     s.Message,
			CompanySlug: s.CompanySlug,
			Kind:        s.Kind,
			Status:      s.Status,
			CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}
	logOperation(c, "export_contacts", fmt.Sprintf("%d rows", len(rows)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contact_submissions.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
