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
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiGET("/orders/export", exportOrders)
}

func orderListQuery(c echo.Context) *gorm.DB {
	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if itemType := strings.TrimSpace(c.QueryParam("item_type")); itemType != "" {
		db = db.Where("item_type = ?", itemType)
	}
	if email := strings.TrimSpace(c.QueryParam("email")); email != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("user_email ILIKE ?", "%"+email+"%")
		} else {
			db = db.Where("LOWER(user_email) LIKE ?", "%"+strings.ToLower(email)+"%")
		}
	}
	return parseDateRange(c, db, "created_at")
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := orderListQuery(c)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	var orders []domain.Order
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}

// orderCSVRow flattens an order for export, money rendered in major units
type orderCSVRow struct {
	ID          int64  `csv:"id"`
	ItemType    string `csv:"item_type"`
	ItemTitle   string `csv:"item_title"`
	SessionID   string `csv:"session_id"`
	PaymentID   string `csv:"payment_id"`
	Status      string `csv:"status"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Quantity    int    `csv:"quantity"`
	UserEmail   string `csv:"user_email"`
	UserName    string `csv:"user_name"`
	CompletedAt string `csv:"completed_at"`
	CreatedAt   string `csv:"created_at"`
}

func exportOrders(c echo.Context) error {
	var orders []domain.Order
	if err := orderListQuery(c).Order("created_at DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	rows := make([]orderCSVRow, 0, len(orders))
	for _, o := range orders {
		row := orderCSVRow{
			ID:        o.ID,
			ItemType:  o.ItemType,
			ItemTitle: o.ItemTitle,
			SessionID: o.SessionID,
			PaymentID: o.PaymentID,
			Status:    o.Status,
			Amount:    fmt.Sprintf("%.2f", float64(o.AmountPaid)/100),
			Currency:  o.Currency,
			Quantity:  o.Quantity,
			UserEmail: o.UserEmail,
			UserName:  o.UserName,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		}
		if o.CompletedAt != nil {
			row.CompletedAt = o.CompletedAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}
	logOperation(c, "export_orders", fmt.Sprintf("%d rows", len(rows)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
