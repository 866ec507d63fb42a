package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/app"
	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

// Init registers all admin routes
func Init() {
	registerAuthRoutes()
	registerPricingRoutes()
	registerCompanyRoutes()
	registerContentRoutes()
	registerOrderRoutes()
	registerContactRoutes()
	registerSettingsRoutes()
	registerMetricsRoutes()
}

// GetDB returns the request scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

// GetApp returns the application context
func GetApp(c echo.Context) app.AppContext {
	return webserver.GetAppCtx(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	resp := echo.Map{
		"success":    false,
		"error_code": code,
		"error":      message,
	}
	if detail != nil {
		resp["detail"] = detail
	}
	return c.JSON(status, resp)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	for _, param := range []string{"perPage", "pageSize"} {
		if ps, err := strconv.Atoi(c.QueryParam(param)); err == nil && ps > 0 && ps <= 500 {
			pageSize = ps
			break
		}
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseDateRange reads optional from/to query params with flexible
// date formats and applies them to the query on column
func parseDateRange(c echo.Context, db *gorm.DB, column string) *gorm.DB {
	if from := c.QueryParam("from"); from != "" {
		if t, err := dateparse.ParseAny(from); err == nil {
			db = db.Where(column+" >= ?", t)
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, err := dateparse.ParseAny(to); err == nil {
			db = db.Where(column+" < ?", t)
		}
	}
	return db
}

// logOperation records an admin action in the operator log
func logOperation(c echo.Context, action, desc string) {
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   webserver.OperatorName(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
