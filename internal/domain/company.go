package domain

import "time"

// Company is an affiliated micro-company with its own sub-site.
// The slug addresses the company on every public endpoint.
type Company struct {
	ID        int64     `json:"id,string" form:"id"`
	Slug      string    `gorm:"uniqueIndex;size:64" json:"slug" form:"slug"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Tagline   string    `json:"tagline" form:"tagline"`
	Email     string    `json:"email" form:"email"`
	Website   string    `json:"website" form:"website"`
	Status    string    `gorm:"size:20;default:'enabled'" json:"status" form:"status"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "company"
}

// CompanyService is a purchasable service offered by a tenant company
type CompanyService struct {
	ID        int64     `json:"id,string" form:"id"`
	CompanyID int64     `gorm:"index" json:"company_id,string" form:"company_id"`
	Title     string    `gorm:"index" json:"title" form:"title"`
	Summary   string    `gorm:"type:text" json:"summary" form:"summary"`
	Price     string    `gorm:"size:32" json:"price" form:"price"` // display price, e.g. "$1,200"
	Currency  string    `gorm:"size:8;default:'usd'" json:"currency" form:"currency"`
	Available bool      `gorm:"default:true" json:"available" form:"available"`
	Stock     *int      `json:"stock,omitempty" form:"stock"` // nil when the service has no stock limit
	SoldCount int       `gorm:"default:0" json:"sold_count"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CompanyService) TableName() string {
	return "company_services"
}
