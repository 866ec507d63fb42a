package domain

import "time"

// Contact submission statuses, admin mutated only
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// ContactSubmission is a message received through the public contact form
type ContactSubmission struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `json:"name" form:"name"`
	Email       string    `gorm:"index" json:"email" form:"email"`
	Subject     string    `json:"subject" form:"subject"`
	Message     string    `gorm:"type:text" json:"message" form:"message"`
	CompanySlug string    `gorm:"index;size:64" json:"company_slug" form:"company_slug"` // optional tenant tag
	Kind        string    `gorm:"size:32" json:"kind" form:"kind"`                       // submission type tag, e.g. "general", "quote"
	Status      string    `gorm:"size:20;index;default:'new'" json:"status" form:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
