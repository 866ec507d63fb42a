package siteapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalente/studiocms/internal/app"
	"github.com/nvalente/studiocms/internal/contact"
	"github.com/nvalente/studiocms/internal/domain"
)

type memSubmissions struct {
	rows []*domain.ContactSubmission
}

func (m *memSubmissions) Create(_ context.Context, sub *domain.ContactSubmission) error {
	m.rows = append(m.rows, sub)
	return nil
}

type stubAppCtx struct {
	app.AppContext
	contactSvc *contact.Service
}

func (s *stubAppCtx) Contact() *contact.Service {
	return s.contactSvc
}

func newContactContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, *memSubmissions) {
	t.Helper()
	repo := &memSubmissions{}
	svc := contact.NewService(repo, EventBus.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("appctx", app.AppContext(&stubAppCtx{contactSvc: svc}))
	return c, rec, repo
}

func TestSubmitContactReturnsStringID(t *testing.T) {
	c, rec, repo := newContactContext(t,
		`{"name":"Ada","email":"ada@example.com","message":"I need a website"}`)

	require.NoError(t, submitContact(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.rows, 1)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.ContactStatusNew, resp.Data.Status)

	// ids ride as decimal strings, they overflow the JS safe range as numbers
	_, err := strconv.ParseInt(resp.Data.ID, 10, 64)
	assert.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(repo.rows[0].ID, 10), resp.Data.ID)
}

func TestSubmitContactValidationFailure(t *testing.T) {
	c, rec, repo := newContactContext(t,
		`{"name":"Ada","email":"ada@example.com","message":"   "}`)

	require.NoError(t, submitContact(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.rows, "rejected submission must not be stored")
}
