package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "authgate/internal/errors"
	"authgate/internal/middleware"
	"authgate/internal/model"
	"authgate/internal/validation"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, bearer string) (*model.User, uuid.UUID, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, uuid.Nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, tokenID uuid.UUID) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.Echo{}
	return e
}

func doJSON(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Alice", "a@x.com", "secret123").
			Return(&model.User{ID: 1, Name: "Alice", Email: "a@x.com", PasswordHash: "$2a$10$x"}, "tok-id|secret", nil)

		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		e.POST("/v1/register", h.Register)

		rec := doJSON(e, http.MethodPost, "/v1/register",
			`{"name":"Alice","email":"a@x.com","password":"secret123","password_confirmation":"secret123"}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp RegisterResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Registered Successfully", resp.Message)
		assert.Equal(t, "tok-id|secret", resp.AccessToken)
		assert.Equal(t, model.PublicUser{ID: 1, Name: "Alice", Email: "a@x.com"}, resp.User)

		// The projection never leaks the password in any form.
		assert.NotContains(t, rec.Body.String(), "password")
		svc.AssertExpectations(t)
	})

	t.Run("validation failure returns field errors", func(t *testing.T) {
		svc := new(MockAuthService)

		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		e.POST("/v1/register", h.Register)

		rec := doJSON(e, http.MethodPost, "/v1/register",
			`{"name":"Alice","email":"not-an-email","password":"short","password_confirmation":"short"}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp apperrors.ValidationResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Message)
		assert.Contains(t, resp.Errors, "email")
		assert.Contains(t, resp.Errors, "password")

		// No user is created on a validation failure.
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate email returns 422", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Alice", "a@x.com", "secret123").
			Return(nil, "", apperrors.NewValidationError("email", "The email has already been taken."))

		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		e.POST("/v1/register", h.Register)

		rec := doJSON(e, http.MethodPost, "/v1/register",
			`{"name":"Alice","email":"a@x.com","password":"secret123","password_confirmation":"secret123"}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp apperrors.ValidationResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"The email has already been taken."}, resp.Errors["email"])
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "secret123").Return("tok-id|secret", nil)

		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		e.POST("/v1/login", h.Login)

		rec := doJSON(e, http.MethodPost, "/v1/login",
			`{"email":"a@x.com","password":"secret123"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, "tok-id|secret", resp.Token)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "5 hours", resp.ExpiresIn)
	})

	t.Run("invalid credentials return 422 with uniform message", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "wrong").
			Return("", apperrors.ErrInvalidCredentials)

		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		e.POST("/v1/login", h.Login)

		rec := doJSON(e, http.MethodPost, "/v1/login",
			`{"email":"a@x.com","password":"wrong"}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp apperrors.ValidationResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, []string{"The provided credentials are incorrect"}, resp.Errors["email"])
	})
}

func TestAuthHandler_SecuredRoutes(t *testing.T) {
	user := &model.User{ID: 1, Name: "Alice", Email: "a@x.com"}
	tokenID := uuid.New()

	newSecuredEcho := func(svc *MockAuthService) *echo.Echo {
		e := newTestEcho()
		h := NewAuthHandler(svc, 5*time.Hour)
		secured := e.Group("/v1", middleware.Auth(svc))
		secured.POST("/logout", h.Logout)
		secured.GET("/user", h.Me)
		return e
	}

	t.Run("missing authorization header", func(t *testing.T) {
		svc := new(MockAuthService)
		e := newSecuredEcho(svc)

		rec := doJSON(e, http.MethodGet, "/v1/user", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp apperrors.MessageResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Unauthenticated.", resp.Message)
		svc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("whoami returns the reduced projection", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Authenticate", mock.Anything, "tok-id|secret").Return(user, tokenID, nil)

		e := newSecuredEcho(svc)
		rec := doJSON(e, http.MethodGet, "/v1/user", "", map[string]string{
			echo.HeaderAuthorization: "Bearer tok-id|secret",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			User model.PublicUser `json:"user"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.PublicUser{ID: 1, Name: "Alice", Email: "a@x.com"}, resp.User)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("logout revokes the current token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Authenticate", mock.Anything, "tok-id|secret").Return(user, tokenID, nil)
		svc.On("Logout", mock.Anything, tokenID).Return(nil)

		e := newSecuredEcho(svc)
		rec := doJSON(e, http.MethodPost, "/v1/logout", "", map[string]string{
			echo.HeaderAuthorization: "Bearer tok-id|secret",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp apperrors.MessageResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Successfully logged out", resp.Message)
		svc.AssertExpectations(t)
	})

	t.Run("revoked token no longer authenticates", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Authenticate", mock.Anything, "tok-id|secret").
			Return(nil, uuid.Nil, apperrors.ErrUnauthenticated)

		e := newSecuredEcho(svc)
		rec := doJSON(e, http.MethodPost, "/v1/logout", "", map[string]string{
			echo.HeaderAuthorization: "Bearer tok-id|secret",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
