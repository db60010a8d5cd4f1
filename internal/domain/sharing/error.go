package sharing

import "passvault/internal/domain/vaulterr"

var (
	ErrNotFound         = vaulterr.NotFound("invitation")
	ErrAlreadyResponded = vaulterr.Conflict("invitation has already been responded to")
	ErrDuplicatePending = vaulterr.Conflict("a pending invitation for this credential and recipient already exists")
)
