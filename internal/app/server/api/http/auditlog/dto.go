package auditlog

import (
	"time"

	"passvault/internal/domain/audit"
)

type listInput struct {
	Action       string    `query:"action" doc:"Only entries with this action"`
	CredentialID string    `query:"credential_id" doc:"Only entries about this credential"`
	Since        time.Time `query:"since" doc:"Only entries at or after this RFC 3339 time"`
	Limit        int       `query:"limit" minimum:"0" maximum:"1000" doc:"Maximum entries, newest first"`
}

type auditListOutput struct {
	Body auditListResponse
}

type auditListResponse struct {
	Entries []audit.Entry `json:"entries"`
}
