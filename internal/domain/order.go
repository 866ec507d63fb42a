package domain

import "time"

// Order statuses. Transitions go pending -> completed only and are
// triggered solely by a provider confirmed paid state.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Catalog item type tags referenced by orders
const (
	ItemTypePricing        = "pricing"
	ItemTypeCompanyService = "company_service"
)

// Order mirrors a provider checkout session lifecycle. The provider
// stays the system of record for payment truth, the row only records
// what the provider has confirmed.
type Order struct {
	ID          int64      `json:"id,string" form:"id"`
	ItemType    string     `gorm:"size:32;index" json:"item_type"` // pricing | company_service
	ItemID      int64      `gorm:"index" json:"item_id,string"`
	ItemTitle   string     `json:"item_title"`
	SessionID   string     `gorm:"uniqueIndex;size:128" json:"session_id"` // provider checkout session id
	Reference   string     `gorm:"index;size:64" json:"reference"`         // external reference sent to the provider
	PaymentID   string     `gorm:"size:64" json:"payment_id"`              // provider payment id, set at completion
	Status      string     `gorm:"size:20;index;default:'pending'" json:"status"`
	AmountPaid  int64      `json:"amount_paid"` // integer cents, equals the amount sent to the provider
	Currency    string     `gorm:"size:8" json:"currency"`
	Quantity    int        `gorm:"default:1" json:"quantity"`
	UserEmail   string     `gorm:"index" json:"user_email"`
	UserName    string     `json:"user_name"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
