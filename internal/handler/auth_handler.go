package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "authgate/internal/errors"
	"authgate/internal/middleware"
	"authgate/internal/model"
	"authgate/internal/service"
)

// AuthHandler handles the authentication endpoints.
type AuthHandler struct {
	authService   service.AuthService
	loginTokenTTL time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, loginTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, loginTokenTTL: loginTokenTTL}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse represents a successful registration response.
type RegisterResponse struct {
	Message     string           `json:"message"`
	AccessToken string           `json:"access_token"`
	User        model.PublicUser `json:"user"`
}

// LoginResponse represents a successful login response.
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn string `json:"expires_in"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /v1/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message:     "Registered Successfully",
		AccessToken: token,
		User:        user.Public(),
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 429 {object} errors.MessageResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /v1/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: humanizeDuration(h.loginTokenTTL),
	})
}

// Logout godoc
// @Summary Revoke the current access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.MessageResponse
// @Failure 401 {object} errors.MessageResponse
// @Router /v1/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, ok := middleware.TokenIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Unauthenticated."})
	}

	if err := h.authService.Logout(c.Request().Context(), tokenID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apperrors.MessageResponse{
		Message: "Successfully logged out",
	})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]model.PublicUser
// @Failure 401 {object} errors.MessageResponse
// @Router /v1/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Unauthenticated."})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": user.Public(),
	})
}

// writeError renders service errors with the right status and body shape.
func writeError(c echo.Context, err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusUnprocessableEntity, verr.ToResponse())
	}
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		// Same body whether the email was unknown or the password wrong.
		verr := apperrors.NewValidationError("email", "The provided credentials are incorrect")
		return c.JSON(http.StatusUnprocessableEntity, verr.ToResponse())
	}
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Unauthenticated."})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// humanizeDuration renders a TTL the way the API documents it ("5 hours").
func humanizeDuration(d time.Duration) string {
	if d == 0 {
		return "never"
	}
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
