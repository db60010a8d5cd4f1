package auditlog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/audit"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func TestHandler_list(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, slog.Default(), nil)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	svc.On("List", mock.Anything, audit.Filter{
		UserID: 4, Action: audit.ActionRetrievePassword, Since: since, Limit: 10,
	}).Return([]audit.Entry{{ID: "e1", UserID: 4, Action: audit.ActionRetrievePassword}}, nil)

	ctx := auth.WithUserID(context.Background(), 4)
	out, err := h.list(ctx, &listInput{Action: string(audit.ActionRetrievePassword), Since: since, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Body.Entries, 1)
	assert.Equal(t, "e1", out.Body.Entries[0].ID)
}

func TestHandler_list_Errors(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, slog.Default(), nil)

	_, err := h.list(context.Background(), &listInput{})
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.GetStatus())

	svc.On("List", mock.Anything, mock.Anything).Return([]audit.Entry(nil), errors.New("db down"))
	_, err = h.list(auth.WithUserID(context.Background(), 4), &listInput{})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.GetStatus())
}
