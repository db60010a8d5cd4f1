// Package httperr turns vault errors into HTTP problem responses.
package httperr

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/vaulterr"
)

// From maps err by kind. Unclassified, configuration and cipher errors are
// logged and reported as a bare 500 so no internals leak to the client.
func From(log *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	var de *vaulterr.DomainError
	if errors.As(err, &de) {
		msg = de.Error()
	}

	switch {
	case errors.Is(err, vaulterr.ErrValidation):
		return huma.Error400BadRequest(msg)
	case errors.Is(err, vaulterr.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, vaulterr.ErrConflict):
		return huma.Error409Conflict(msg)
	case errors.Is(err, vaulterr.ErrIntegrity):
		return huma.Error409Conflict("stored credential failed its integrity check")
	}

	log.Error("request failed", "op", op, "error", err)
	return huma.Error500InternalServerError("internal error")
}
