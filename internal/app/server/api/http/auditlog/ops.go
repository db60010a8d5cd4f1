package auditlog

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "audit-list",
		Method:      http.MethodGet,
		Path:        "/api/audit",
		Summary:     "The caller's own audit trail",
		Tags:        []string{"audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
