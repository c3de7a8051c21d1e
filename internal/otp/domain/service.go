package domain

import (
	"context"
	"errors"
	"time"
)

// Service issues and verifies one-time passwords for email ownership checks.
type Service interface {
	Request(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

// Store holds code hashes with an expiry. Only the bcrypt hash is stored;
// the plain code exists solely in the outbound email.
type Store interface {
	Save(ctx context.Context, email, codeHash string, ttl time.Duration) error
	// Get returns ErrCodeExpired when no live code exists for the address.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

var (
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrRateLimited    = errors.New("too many verification requests")
	ErrCodeExpired    = errors.New("verification code expired or was never requested")
	ErrCodeMismatch   = errors.New("verification code does not match")
	ErrDeliveryFailed = errors.New("could not deliver the verification code")
)
