package user

import (
	"context"
)

// Repository lookups return ErrNotFound when no row matches. Create returns
// ErrLoginTaken on a duplicate login or email.
type Repository interface {
	Create(ctx context.Context, login, email, passwordHash string) (int, error)
	FindByID(ctx context.Context, id int) (User, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
