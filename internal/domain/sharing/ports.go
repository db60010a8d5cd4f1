package sharing

import (
	"context"

	"passvault/internal/domain/credential"
	"passvault/internal/domain/user"
)

// Vault is the part of the credential store the sharing protocol drives.
type Vault interface {
	GetOwned(ctx context.Context, id string, userID int) (credential.Credential, error)
	GetByID(ctx context.Context, id string) (credential.Credential, error)
	CopyTo(ctx context.Context, src credential.Credential, recipientID int) (credential.Credential, error)
	ListSharedFrom(ctx context.Context, userID int) ([]credential.Credential, error)
}

// Directory resolves recipients and audit usernames.
type Directory interface {
	FindByID(ctx context.Context, id int) (user.User, error)
	Resolve(ctx context.Context, identifier string) (user.User, error)
}
