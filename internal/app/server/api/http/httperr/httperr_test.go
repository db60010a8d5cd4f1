package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/vaulterr"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{name: "validation", err: vaulterr.Validation("site is required"), status: http.StatusBadRequest, detail: "site is required"},
		{name: "not found", err: vaulterr.NotFound("credential"), status: http.StatusNotFound, detail: "credential not found"},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", vaulterr.NotFound("invitation")), status: http.StatusNotFound, detail: "invitation not found"},
		{name: "conflict", err: vaulterr.Conflict("already responded"), status: http.StatusConflict, detail: "already responded"},
		{name: "integrity", err: vaulterr.Integrity("tag mismatch"), status: http.StatusConflict, detail: "stored credential failed its integrity check"},
		{name: "configuration", err: vaulterr.Configuration("AES_KEY is not set"), status: http.StatusInternalServerError, detail: "internal error"},
		{name: "cipher", err: vaulterr.Cipher("invalid padding"), status: http.StatusInternalServerError, detail: "internal error"},
		{name: "foreign", err: errors.New("connection refused"), status: http.StatusInternalServerError, detail: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := From(slog.Default(), "test", tt.err)

			var se huma.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.GetStatus())

			var model *huma.ErrorModel
			require.ErrorAs(t, err, &model)
			assert.Equal(t, tt.detail, model.Detail)
		})
	}
}

func TestFrom_Nil(t *testing.T) {
	assert.NoError(t, From(slog.Default(), "test", nil))
}
