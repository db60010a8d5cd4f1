package sharing

import "time"

// Status is the state of an invitation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Invitation offers one credential to one recipient. It leaves Pending
// exactly once, to Accepted or Rejected, and only by ToUserID.
type Invitation struct {
	ID           string     `json:"id"`
	CredentialID string     `json:"credential_id"`
	FromUserID   int        `json:"from_user_id"`
	ToUserID     int        `json:"to_user_id"`
	ToEmail      string     `json:"to_email,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Accepted     bool       `json:"accepted"`
	Rejected     bool       `json:"rejected"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// Status derives the state from the response flags.
func (i Invitation) Status() Status {
	switch {
	case i.Accepted:
		return StatusAccepted
	case i.Rejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// ItemKind tells the two kinds of SharedItem apart.
type ItemKind string

const (
	KindInvitation ItemKind = "invitation"
	KindCredential ItemKind = "credential"
)

// SharedItem is one row of a user's sharing overview: either a pending
// invitation addressed to them or a copy someone accepted from them.
type SharedItem struct {
	Kind         ItemKind   `json:"kind"`
	InvitationID string     `json:"invitation_id,omitempty"`
	CredentialID string     `json:"credential_id"`
	Site         string     `json:"site"`
	FromUserID   int        `json:"from_user_id"`
	ToUserID     int        `json:"to_user_id"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	SharedAt     *time.Time `json:"shared_at,omitempty"`
}
