package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSetting)

	webserver.ApiGET("/oprlogs", listOprLogs)
}

func listSettings(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysConfig{})
	if category := strings.TrimSpace(c.QueryParam("type")); category != "" {
		db = db.Where("type = ?", category)
	}
	var rows []domain.SysConfig
	if err := db.Order("type ASC, sort ASC, name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func updateSetting(c echo.Context) error {
	var payload struct {
		Type  string `json:"type"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", nil)
	}
	payload.Type = strings.TrimSpace(payload.Type)
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Type == "" || payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Setting type and name are required", nil)
	}

	app := GetApp(c)
	if err := app.ConfigMgr().SetValue(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}
	logOperation(c, "update_setting", fmt.Sprintf("%s.%s", payload.Type, payload.Name))
	return ok(c, map[string]string{
		"type":  payload.Type,
		"name":  payload.Name,
		"value": payload.Value,
	})
}

func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.SysOprLog{})
	if name := strings.TrimSpace(c.QueryParam("opr_name")); name != "" {
		db = db.Where("opr_name = ?", name)
	}
	if action := strings.TrimSpace(c.QueryParam("action")); action != "" {
		db = db.Where("opt_action = ?", action)
	}
	db = parseDateRange(c, db, "opt_time")

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}
	var rows []domain.SysOprLog
	if err := db.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
