package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"authgate/internal/cache"
	"authgate/internal/model"
	"authgate/internal/repository"
)

// Plaintext token format: <token-uuid>|<40-hex-secret>
// The uuid gives O(1) lookup of the stored record; only the SHA-256 of the
// secret is persisted, so the full credential is shown once and never again.
const (
	tokenSecretBytes    = 20
	tokenCacheKeyPrefix = "access_token:"
	tokenCacheTTL       = 5 * time.Minute
)

// ErrTokenInvalid is returned for any token that does not resolve to a user:
// malformed, unknown, hash mismatch, expired, or revoked. Callers cannot
// distinguish the cases.
var ErrTokenInvalid = errors.New("invalid or expired token")

// Issuer creates, resolves, and revokes opaque access tokens.
type Issuer struct {
	tokens repository.AccessTokenRepository
	cache  *cache.Client
	now    func() time.Time
}

// NewIssuer builds an issuer backed by the token repository, with an
// optional redis cache for resolution.
func NewIssuer(tokens repository.AccessTokenRepository, cache *cache.Client) *Issuer {
	return &Issuer{tokens: tokens, cache: cache, now: time.Now}
}

// cachedToken is the redis representation of a resolvable token.
type cachedToken struct {
	UserID    uint       `json:"user_id"`
	TokenHash string     `json:"token_hash"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Issue creates a new token for the user and returns its plaintext form.
// A zero ttl issues a non-expiring token.
func (i *Issuer) Issue(ctx context.Context, userID uint, name string, ttl time.Duration) (string, error) {
	secretBytes := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	token := &model.AccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		TokenHash: hashSecret(secret),
	}
	if ttl > 0 {
		expiresAt := i.now().Add(ttl)
		token.ExpiresAt = &expiresAt
	}

	if err := i.tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token.ID.String() + "|" + secret, nil
}

// Resolve validates a plaintext token and returns the owning user ID and the
// token ID. All failure modes collapse to ErrTokenInvalid.
func (i *Issuer) Resolve(ctx context.Context, plaintext string) (uint, uuid.UUID, error) {
	idPart, secret, ok := strings.Cut(plaintext, "|")
	if !ok || secret == "" {
		return 0, uuid.Nil, ErrTokenInvalid
	}
	tokenID, err := uuid.Parse(idPart)
	if err != nil {
		return 0, uuid.Nil, ErrTokenInvalid
	}

	record, err := i.lookup(ctx, tokenID)
	if err != nil {
		return 0, uuid.Nil, ErrTokenInvalid
	}

	if subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(hashSecret(secret))) != 1 {
		return 0, uuid.Nil, ErrTokenInvalid
	}
	if record.ExpiresAt != nil && i.now().After(*record.ExpiresAt) {
		return 0, uuid.Nil, ErrTokenInvalid
	}

	// Best effort; a stale last_used_at is acceptable.
	_ = i.tokens.Touch(ctx, tokenID, i.now())

	return record.UserID, tokenID, nil
}

// Revoke deletes exactly the given token. Subsequent resolution of the same
// plaintext fails with ErrTokenInvalid.
func (i *Issuer) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	if err := i.tokens.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	_ = i.cache.Delete(ctx, tokenCacheKey(tokenID))
	return nil
}

// lookup fetches the resolvable form of a token, cache-aside over the
// repository.
func (i *Issuer) lookup(ctx context.Context, tokenID uuid.UUID) (*cachedToken, error) {
	key := tokenCacheKey(tokenID)
	if data, _ := i.cache.Get(ctx, key); data != nil {
		var cached cachedToken
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	token, err := i.tokens.FindByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	record := &cachedToken{
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
	}

	ttl := tokenCacheTTL
	if token.ExpiresAt != nil {
		if remaining := token.ExpiresAt.Sub(i.now()); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		if payload, err := json.Marshal(record); err == nil {
			_ = i.cache.Set(ctx, key, payload, ttl)
		}
	}

	return record, nil
}

func tokenCacheKey(tokenID uuid.UUID) string {
	return tokenCacheKeyPrefix + tokenID.String()
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
