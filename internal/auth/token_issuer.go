package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenIssuer defines the interface for opaque token operations.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint, name string, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, plaintext string) (userID uint, tokenID uuid.UUID, err error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
}

// Ensure Issuer implements TokenIssuer
var _ TokenIssuer = (*Issuer)(nil)
