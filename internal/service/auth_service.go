package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"authgate/internal/auth"
	"authgate/internal/cache"
	apperrors "authgate/internal/errors"
	"authgate/internal/model"
	"authgate/internal/repository"
)

const (
	bcryptCost = 10
	tokenName  = "auth_token"

	userCacheTTL = 5 * time.Minute
)

// dummyPasswordHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths cost the same.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Config holds the expiry policy for issued tokens.
type Config struct {
	// LoginTokenTTL is the lifetime of tokens issued by Login.
	LoginTokenTTL time.Duration
	// RegisterTokenTTL is the lifetime of tokens issued by Register.
	// Zero issues a non-expiring token.
	RegisterTokenTTL time.Duration
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	Authenticate(ctx context.Context, bearer string) (*model.User, uuid.UUID, error)
	Logout(ctx context.Context, tokenID uuid.UUID) error
}

type authService struct {
	users  repository.UserRepository
	issuer auth.TokenIssuer
	cache  *cache.Client
	cfg    Config
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, issuer auth.TokenIssuer, cache *cache.Client, cfg Config) AuthService {
	return &authService{
		users:  users,
		issuer: issuer,
		cache:  cache,
		cfg:    cfg,
	}
}

// Register creates a user with a hashed password and issues an access token.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email existence: %w", err)
	}
	if exists {
		return nil, "", apperrors.NewValidationError("email", "The email has already been taken.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issuer.Issue(ctx, user.ID, tokenName, s.cfg.RegisterTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues an access token with the login TTL.
// Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Equalize timing with the wrong-password path.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, user.ID, tokenName, s.cfg.LoginTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to its owning user. Any failure is
// reported as ErrUnauthenticated.
func (s *authService) Authenticate(ctx context.Context, bearer string) (*model.User, uuid.UUID, error) {
	userID, tokenID, err := s.issuer.Resolve(ctx, bearer)
	if err != nil {
		return nil, uuid.Nil, apperrors.ErrUnauthenticated
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, uuid.Nil, apperrors.ErrUnauthenticated
	}

	return user, tokenID, nil
}

// Logout revokes exactly the token used by the current request.
func (s *authService) Logout(ctx context.Context, tokenID uuid.UUID) error {
	return s.issuer.Revoke(ctx, tokenID)
}

func (s *authService) userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// getUser fetches a user, cache-aside over the repository.
func (s *authService) getUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.userCacheKey(user.ID), payload, userCacheTTL)
	}
	return user, nil
}
