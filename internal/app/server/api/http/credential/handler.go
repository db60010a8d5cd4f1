package credential

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/api/http/httperr"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/api/http/middleware/clientip"
	"passvault/internal/domain/credential"
)

type Handler struct {
	service    credential.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service credential.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.addOp(), h.add)
	huma.Register(api, h.deleteAllOp(), h.deleteAll)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.passwordOp(), h.password)
	huma.Register(api, h.shareOp(), h.share)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*credentialListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, httperr.From(h.log, "credentials-list", err)
	}

	return &credentialListOutput{Body: credentialListResponse{Credentials: items}}, nil
}

func (h *Handler) add(ctx context.Context, input *addInput) (*credentialOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	c, err := h.service.Add(ctx, userID, credential.AddInput{
		Site:      input.Body.Site,
		SiteURL:   input.Body.SiteURL,
		Username:  input.Body.Username,
		Password:  input.Body.Password,
		Notes:     input.Body.Notes,
		IPAddress: clientip.FromContext(ctx),
	})
	if err != nil {
		return nil, httperr.From(h.log, "credentials-add", err)
	}

	return &credentialOutput{Body: c}, nil
}

func (h *Handler) deleteAll(ctx context.Context, _ *struct{}) (*deleteAllOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	n, err := h.service.DeleteAll(ctx, userID, clientip.FromContext(ctx))
	if err != nil {
		return nil, httperr.From(h.log, "credentials-delete-all", err)
	}

	return &deleteAllOutput{Body: deleteAllResponse{Deleted: n}}, nil
}

func (h *Handler) get(ctx context.Context, input *idInput) (*credentialOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	c, err := h.service.GetOwned(ctx, input.ID, userID)
	if err != nil {
		return nil, httperr.From(h.log, "credentials-get", err)
	}

	return &credentialOutput{Body: c}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*credentialOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	c, err := h.service.Update(ctx, input.ID, userID, credential.UpdateInput{
		Site:      input.Body.Site,
		SiteURL:   input.Body.SiteURL,
		Username:  input.Body.Username,
		Password:  input.Body.Password,
		Notes:     input.Body.Notes,
		IPAddress: clientip.FromContext(ctx),
	})
	if err != nil {
		return nil, httperr.From(h.log, "credentials-update", err)
	}

	return &credentialOutput{Body: c}, nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, input.ID, userID, clientip.FromContext(ctx)); err != nil {
		return nil, httperr.From(h.log, "credentials-delete", err)
	}

	return nil, nil
}

func (h *Handler) password(ctx context.Context, input *idInput) (*passwordOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	plaintext, err := h.service.RetrievePassword(ctx, input.ID, userID, clientip.FromContext(ctx))
	if err != nil {
		return nil, httperr.From(h.log, "credentials-password", err)
	}

	return &passwordOutput{Body: passwordResponse{Password: plaintext}}, nil
}

func (h *Handler) share(ctx context.Context, input *shareInput) (*credentialOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	copied, err := h.service.Share(ctx, input.ID, userID, input.Body.To, clientip.FromContext(ctx))
	if err != nil {
		return nil, httperr.From(h.log, "credentials-share", err)
	}

	return &credentialOutput{Body: copied}, nil
}
