package user

import (
	"errors"

	"passvault/internal/domain/vaulterr"
)

var (
	ErrNotFound    = vaulterr.NotFound("user")
	ErrLoginTaken  = vaulterr.Conflict("login or email already registered")
	ErrInvalidAuth = errors.New("invalid credentials")
)
