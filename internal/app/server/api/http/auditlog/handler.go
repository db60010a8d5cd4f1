package auditlog

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/api/http/httperr"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/audit"
)

type Handler struct {
	service    audit.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service audit.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

// list never accepts a user filter from the client: callers only see their
// own entries.
func (h *Handler) list(ctx context.Context, input *listInput) (*auditListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.List(ctx, audit.Filter{
		UserID:       userID,
		Action:       audit.Action(input.Action),
		CredentialID: input.CredentialID,
		Since:        input.Since,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, httperr.From(h.log, "audit-list", err)
	}

	return &auditListOutput{Body: auditListResponse{Entries: entries}}, nil
}
