// Package vaulterr holds the error kinds shared by the vault services.
// Every error returned by the core matches exactly one kind via errors.Is.
package vaulterr

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrIntegrity     = errors.New("integrity check failed")
	ErrConflict      = errors.New("conflict")
	ErrCipher        = errors.New("cipher error")
)

// DomainError wraps one of the kind sentinels with a caller-facing message.
type DomainError struct {
	Err     error
	Message string
	Code    string
}

// Error returns the message.
func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap exposes the kind sentinel to errors.Is.
func (e *DomainError) Unwrap() error {
	return e.Err
}

func newError(kind error, code, format string, args ...any) error {
	return &DomainError{
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// Configuration reports missing or malformed key material.
func Configuration(format string, args ...any) error {
	return newError(ErrConfiguration, "configuration", format, args...)
}

// Validation reports bad input.
func Validation(format string, args ...any) error {
	return newError(ErrValidation, "validation", format, args...)
}

// NotFound never says whether the record exists for someone else.
func NotFound(what string) error {
	return newError(ErrNotFound, "not_found", "%s not found", what)
}

// Integrity reports a stored ciphertext that fails its tag.
func Integrity(format string, args ...any) error {
	return newError(ErrIntegrity, "integrity", format, args...)
}

// Conflict reports a state that forbids the operation.
func Conflict(format string, args ...any) error {
	return newError(ErrConflict, "conflict", format, args...)
}

// Cipher reports ciphertext that cannot be decrypted.
func Cipher(format string, args ...any) error {
	return newError(ErrCipher, "cipher", format, args...)
}

// Kind returns the sentinel the error belongs to, or nil for foreign errors.
func Kind(err error) error {
	for _, kind := range []error{ErrConfiguration, ErrValidation, ErrNotFound, ErrIntegrity, ErrConflict, ErrCipher} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
