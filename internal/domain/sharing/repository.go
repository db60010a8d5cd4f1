package sharing

import (
	"context"
	"time"
)

// Repository stores invitations.
type Repository interface {
	// Create returns ErrDuplicatePending when a pending invitation for the
	// same credential and recipient exists.
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (Invitation, error)
	HasPending(ctx context.Context, credentialID string, toUserID int) (bool, error)
	ListPendingFor(ctx context.Context, toUserID int) ([]Invitation, error)
	// Claim moves a pending invitation addressed to recipientID into its
	// terminal state with a single conditional update. It reports false when
	// no pending row matched.
	Claim(ctx context.Context, id string, recipientID int, accept bool, at time.Time) (bool, error)
}
