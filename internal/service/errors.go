package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is the parent of every token rejection
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidToken   = fmt.Errorf("invalid token: %w", ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("token expired: %w", ErrUnauthorized)
	ErrWrongTokenType = fmt.Errorf("wrong token type: %w", ErrUnauthorized)
	ErrTokenRevoked   = fmt.Errorf("token revoked: %w", ErrUnauthorized)
	ErrRoleMismatch   = fmt.Errorf("role mismatch: %w", ErrUnauthorized)

	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound    = errors.New("user not found")
	ErrAbsenceNotFound = errors.New("absence not found")

	ErrAbsenceConflict = errors.New("absence with this status already recorded today")
	ErrEmailTaken      = errors.New("user with this email already exists")

	ErrForbidden = errors.New("forbidden: user does not have permission for this action")

	ErrPasswordConfirmation = errors.New("password confirmation does not match")
	ErrWeakPassword         = errors.New("password must be at least 8 characters and contain letters and numbers")
	ErrInvalidStatus        = errors.New("status must be 'in' or 'out'")
)
