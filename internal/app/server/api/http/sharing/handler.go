package sharing

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/api/http/httperr"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/api/http/middleware/clientip"
	"passvault/internal/domain/sharing"
)

type Handler struct {
	service    sharing.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sharing.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.acceptOp(), h.accept)
	huma.Register(api, h.rejectOp(), h.reject)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*sharedListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.ListShared(ctx, userID)
	if err != nil {
		return nil, httperr.From(h.log, "shares-list", err)
	}

	return &sharedListOutput{Body: sharedListResponse{Items: items}}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*invitationOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	inv, err := h.service.CreateInvitation(ctx, input.Body.CredentialID, userID, input.Body.To, clientip.FromContext(ctx))
	if err != nil {
		return nil, httperr.From(h.log, "shares-create", err)
	}

	return &invitationOutput{Body: inv}, nil
}

func (h *Handler) accept(ctx context.Context, input *invitationInput) (*acceptOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	copied, err := h.service.Accept(ctx, input.ID, userID, clientip.FromContext(ctx))
	if err != nil {
		return nil, httperr.From(h.log, "shares-accept", err)
	}

	return &acceptOutput{Body: copied}, nil
}

func (h *Handler) reject(ctx context.Context, input *invitationInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Reject(ctx, input.ID, userID, clientip.FromContext(ctx)); err != nil {
		return nil, httperr.From(h.log, "shares-reject", err)
	}

	return nil, nil
}
