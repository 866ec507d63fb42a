package domain

import "time"

// Project is a portfolio entry shown on the public site
type Project struct {
	ID        int64     `json:"id,string" form:"id"`
	Title     string    `gorm:"index" json:"title" form:"title"`
	Slug      string    `gorm:"uniqueIndex;size:64" json:"slug" form:"slug"`
	Summary   string    `gorm:"type:text" json:"summary" form:"summary"`
	Body      string    `gorm:"type:text" json:"body" form:"body"`
	Tags      string    `json:"tags" form:"tags"`
	Published bool      `gorm:"default:false;index" json:"published" form:"published"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Testimonial is a client quote, optionally tied to a tenant company
type Testimonial struct {
	ID          int64     `json:"id,string" form:"id"`
	Author      string    `json:"author" form:"author"`
	Role        string    `json:"role" form:"role"`
	Quote       string    `gorm:"type:text" json:"quote" form:"quote"`
	CompanySlug string    `gorm:"index;size:64" json:"company_slug" form:"company_slug"`
	Published   bool      `gorm:"default:false;index" json:"published" form:"published"`
	Sort        int       `json:"sort" form:"sort"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}
