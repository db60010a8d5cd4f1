package sharing

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "shares-list",
		Method:      http.MethodGet,
		Path:        "/api/shares",
		Summary:     "Pending invitations to the caller and copies accepted from the caller",
		Tags:        []string{"sharing"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "shares-create",
		Method:        http.MethodPost,
		Path:          "/api/shares",
		Summary:       "Invite another user to receive a copy of a credential",
		Tags:          []string{"sharing"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) acceptOp() huma.Operation {
	return huma.Operation{
		OperationID: "shares-accept",
		Method:      http.MethodPost,
		Path:        "/api/shares/{id}/accept",
		Summary:     "Accept an invitation",
		Description: "Copies the credential into the caller's vault. An invitation can be answered once.",
		Tags:        []string{"sharing"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) rejectOp() huma.Operation {
	return huma.Operation{
		OperationID:   "shares-reject",
		Method:        http.MethodPost,
		Path:          "/api/shares/{id}/reject",
		Summary:       "Reject an invitation",
		Tags:          []string{"sharing"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}
