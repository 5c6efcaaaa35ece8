package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "authgate/internal/errors"
	"authgate/internal/model"
	"authgate/internal/service"
)

const (
	// ContextUserKey is the echo context key for the authenticated user.
	ContextUserKey = "auth_user"
	// ContextTokenIDKey is the echo context key for the current token ID.
	ContextTokenIDKey = "auth_token_id"

	bearerPrefix = "Bearer "
)

// Auth returns middleware that resolves the bearer token on the request and
// stashes the user and token ID in the context. Requests without a valid,
// unexpired, unrevoked token get a 401.
func Auth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return unauthenticated(c)
			}
			bearer := strings.TrimPrefix(header, bearerPrefix)

			user, tokenID, err := authService.Authenticate(c.Request().Context(), bearer)
			if err != nil {
				return unauthenticated(c)
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenIDKey, tokenID)
			return next(c)
		}
	}
}

// UserFrom returns the authenticated user stored by Auth.
func UserFrom(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}

// TokenIDFrom returns the current request's token ID stored by Auth.
func TokenIDFrom(c echo.Context) (uuid.UUID, bool) {
	tokenID, ok := c.Get(ContextTokenIDKey).(uuid.UUID)
	return tokenID, ok
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{
		Message: "Unauthenticated.",
	})
}
