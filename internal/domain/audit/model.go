package audit

import "time"

// Action tags what an audit entry records.
type Action string

const (
	ActionAddCredential         Action = "AddCredential"
	ActionRetrievePassword      Action = "RetrievePassword"
	ActionUpdateCredential      Action = "UpdateCredential"
	ActionDeleteCredential      Action = "DeleteCredential"
	ActionDeleteAllVaultItems   Action = "DeleteAllVaultItems"
	ActionShareCredential       Action = "ShareCredential"
	ActionAdminVaultReset       Action = "AdminVaultReset"
	ActionIntegrityFailure      Action = "IntegrityFailure"
	ActionCreateShareInvitation Action = "CreateShareInvitation"
	ActionAcceptShareInvitation Action = "AcceptShareInvitation"
	ActionRejectShareInvitation Action = "RejectShareInvitation"
)

// Entry is one append-only audit row. Username and Site are copied at write
// time so the trail stays readable after the user or credential is gone.
type Entry struct {
	ID           string    `json:"id"`
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	CredentialID string    `json:"credential_id,omitempty"`
	Action       Action    `json:"action"`
	Timestamp    time.Time `json:"timestamp"`
	IPAddress    string    `json:"ip_address,omitempty"`
	Site         string    `json:"site,omitempty"`
}

// Filter narrows List. Zero fields are ignored.
type Filter struct {
	UserID       int
	Action       Action
	CredentialID string
	Since        time.Time
	Limit        int
}
