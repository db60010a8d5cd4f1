package credential

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-list",
		Method:      http.MethodGet,
		Path:        "/api/credentials",
		Summary:     "List the caller's credentials",
		Tags:        []string{"credentials"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) addOp() huma.Operation {
	return huma.Operation{
		OperationID:   "credentials-add",
		Method:        http.MethodPost,
		Path:          "/api/credentials",
		Summary:       "Add a credential",
		Tags:          []string{"credentials"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteAllOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-delete-all",
		Method:      http.MethodDelete,
		Path:        "/api/credentials",
		Summary:     "Delete every credential in the caller's vault",
		Tags:        []string{"credentials"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-get",
		Method:      http.MethodGet,
		Path:        "/api/credentials/{id}",
		Summary:     "Get credential metadata",
		Tags:        []string{"credentials"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-update",
		Method:      http.MethodPut,
		Path:        "/api/credentials/{id}",
		Summary:     "Update a credential",
		Tags:        []string{"credentials"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "credentials-delete",
		Method:        http.MethodDelete,
		Path:          "/api/credentials/{id}",
		Summary:       "Delete a credential",
		Tags:          []string{"credentials"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) passwordOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-password",
		Method:      http.MethodPost,
		Path:        "/api/credentials/{id}/password",
		Summary:     "Reveal the stored password",
		Description: "Verifies the integrity tag, decrypts and audits the access.",
		Tags:        []string{"credentials"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) shareOp() huma.Operation {
	return huma.Operation{
		OperationID:   "credentials-share",
		Method:        http.MethodPost,
		Path:          "/api/credentials/{id}/share",
		Summary:       "Copy a credential into another user's vault",
		Tags:          []string{"credentials", "sharing"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}
