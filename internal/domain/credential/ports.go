package credential

import (
	"context"

	"passvault/internal/domain/user"
)

// Cipher encrypts secrets at rest and tags the ciphertext.
type Cipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
	ComputeIntegrityTag(ctx context.Context, ciphertext string) (string, error)
	VerifyIntegrityTag(ctx context.Context, ciphertext, tag string) (bool, error)
}

// Directory resolves account identities for recipients and audit usernames.
type Directory interface {
	FindByID(ctx context.Context, id int) (user.User, error)
	FindByLogin(ctx context.Context, login string) (user.User, error)
}

// PasswordPolicy rejects weak secrets. A nil policy accepts everything.
type PasswordPolicy interface {
	ValidatePassword(password string) error
}
