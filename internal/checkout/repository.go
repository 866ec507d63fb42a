package checkout

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/domain"
)

// OrderRepository handles database operations for order records
type OrderRepository interface {
	// Create inserts a new order row
	Create(ctx context.Context, order *domain.Order) error

	// GetBySessionID retrieves an order by provider session id
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)

	// GetByReference retrieves an order by external reference
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)

	// Complete transitions a pending order to completed and fills in
	// buyer details. Completed orders are left untouched, which keeps
	// the call idempotent under concurrent reconciliation. Returns
	// whether this call performed the transition, so the caller can
	// skip completion side effects when a concurrent racer already won.
	Complete(ctx context.Context, orderID int64, paymentID, email, name string, when time.Time) (bool, error)
}

// CatalogRepository resolves purchasable items at checkout time
type CatalogRepository interface {
	GetPricing(ctx context.Context, id int64) (*domain.Pricing, error)
	GetCompanyService(ctx context.Context, id int64) (*domain.CompanyService, error)

	// IncrementSold bumps the sold counter and decrements stock when
	// the item tracks stock
	IncrementSold(ctx context.Context, itemType string, itemID int64, qty int) error
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) Complete(ctx context.Context, orderID int64, paymentID, email, name string, when time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, domain.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.OrderStatusCompleted,
			"payment_id":   paymentID,
			"user_email":   email,
			"user_name":    name,
			"completed_at": when,
			"updated_at":   when,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GormCatalogRepository is the GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetPricing(ctx context.Context, id int64) (*domain.Pricing, error) {
	var p domain.Pricing
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormCatalogRepository) GetCompanyService(ctx context.Context, id int64) (*domain.CompanyService, error) {
	var s domain.CompanyService
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormCatalogRepository) IncrementSold(ctx context.Context, itemType string, itemID int64, qty int) error {
	db := r.db.WithContext(ctx)
	var model interface{}
	switch itemType {
	case domain.ItemTypeCompanyService:
		model = &domain.CompanyService{}
	default:
		model = &domain.Pricing{}
	}
	err := db.Model(model).Where("id = ?", itemID).
		Update("sold_count", gorm.Expr("sold_count + ?", qty)).Error
	if err != nil {
		return err
	}
	return db.Model(model).
		Where("id = ? AND stock IS NOT NULL", itemID).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty)).Error
}
