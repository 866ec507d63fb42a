package contact

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/events"
	"github.com/nvalente/studiocms/pkg/common"
)

// ErrValidation carries the field level message for a 400 response
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// SubmissionRepository handles database operations for contact submissions
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.ContactSubmission) error
}

// GormSubmissionRepository is the GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

func (r *GormSubmissionRepository) Create(ctx context.Context, sub *domain.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Service stores contact form submissions
type Service struct {
	repo SubmissionRepository
	bus  EventBus.Bus
}

func NewService(repo SubmissionRepository, bus EventBus.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// SubmitInput is the raw form payload after schema mapping
type SubmitInput struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	CompanySlug string
	Kind        string
}

// Submit validates and stores a contact submission. Validation failure
// never inserts a row.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.ContactSubmission, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)

	if name == "" {
		return nil, &ErrValidation{Field: "name", Message: "name is required"}
	}
	if email == "" {
		return nil, &ErrValidation{Field: "email", Message: "email is required"}
	}
	if !strings.Contains(email, "@") {
		return nil, &ErrValidation{Field: "email", Message: "email is invalid"}
	}
	if message == "" {
		return nil, &ErrValidation{Field: "message", Message: "message is required"}
	}

	sub := &domain.ContactSubmission{
		ID:          common.UUIDint64(),
		Name:        name,
		Email:       email,
		Subject:     strings.TrimSpace(in.Subject),
		Message:     message,
		CompanySlug: strings.TrimSpace(in.CompanySlug),
		Kind:        common.TrimOrDefault(in.Kind, "general"),
		Status:      domain.ContactStatusNew,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, errors.Wrap(err, "store contact submission")
	}

	if s.bus != nil {
		s.bus.Publish(events.TopicContactReceived, sub)
	}
	zap.L().Info("contact submission stored",
		zap.Int64("id", sub.ID),
		zap.String("email", sub.Email),
		zap.String("company_slug", sub.CompanySlug))
	return sub, nil
}
