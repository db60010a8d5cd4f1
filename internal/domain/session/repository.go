package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid session")

// Repository stores sessions by the hex SHA-256 of the bearer token. Validate
// returns ErrInvalidSession for unknown or expired tokens.
type Repository interface {
	Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (int, error)
}
