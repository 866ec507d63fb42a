package domain

import "time"

// Pricing is a flat purchasable service of the site owner
type Pricing struct {
	ID        int64     `json:"id,string" form:"id"`
	Title     string    `gorm:"index" json:"title" form:"title"`
	Summary   string    `gorm:"type:text" json:"summary" form:"summary"`
	Features  string    `gorm:"type:text" json:"features" form:"features"` // newline separated bullet list
	Price     string    `gorm:"size:32" json:"price" form:"price"`         // display price, e.g. "$75"
	Currency  string    `gorm:"size:8;default:'usd'" json:"currency" form:"currency"`
	Available bool      `gorm:"default:true" json:"available" form:"available"`
	Stock     *int      `json:"stock,omitempty" form:"stock"`
	SoldCount int       `gorm:"default:0" json:"sold_count"`
	Featured  bool      `gorm:"default:false" json:"featured" form:"featured"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Pricing) TableName() string {
	return "pricing"
}
