package contact

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/events"
)

type memRepo struct {
	rows []*domain.ContactSubmission
}

func (m *memRepo) Create(_ context.Context, sub *domain.ContactSubmission) error {
	m.rows = append(m.rows, sub)
	return nil
}

func TestSubmit(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, EventBus.New())

	sub, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Quote",
		Message: "Hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusNew, sub.Status)
	assert.Equal(t, "general", sub.Kind)
	require.Len(t, repo.rows, 1)
}

func TestSubmitValidation(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)

	cases := []struct {
		name  string
		in    SubmitInput
		field string
	}{
		{"missing name", SubmitInput{Email: "a@b.c", Message: "hi"}, "name"},
		{"missing email", SubmitInput{Name: "Ada", Message: "hi"}, "email"},
		{"bad email", SubmitInput{Name: "Ada", Email: "nope", Message: "hi"}, "email"},
		{"missing message", SubmitInput{Name: "Ada", Email: "a@b.c"}, "message"},
		{"blank message", SubmitInput{Name: "Ada", Email: "a@b.c", Message: "   "}, "message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.in)
			var verr *ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Empty(t, repo.rows, "validation failure must not insert a row")
}

func TestSubmitPublishesEvent(t *testing.T) {
	repo := &memRepo{}
	bus := EventBus.New()
	var got *domain.ContactSubmission
	require.NoError(t, bus.Subscribe(events.TopicContactReceived, func(s *domain.ContactSubmission) {
		got = s
	}))

	svc := NewService(repo, bus)
	_, err := svc.Submit(context.Background(), SubmitInput{
		Name: "Ada", Email: "ada@example.com", Message: "Hello", CompanySlug: "northpine",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "northpine", got.CompanySlug)
}
