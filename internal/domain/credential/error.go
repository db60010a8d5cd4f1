package credential

import "passvault/internal/domain/vaulterr"

var (
	ErrNotFound  = vaulterr.NotFound("credential")
	ErrIntegrity = vaulterr.Integrity("stored credential failed integrity verification")
)
