package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

const (
	principalKey = "principal"
	userIDKey    = "user_id"
)

// TokenVerifier turns a bearer token into the principal it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Principal, error)
}

// Authorize is the authorization gate. It requires a valid bearer token and,
// when allowed is non-empty, a principal whose role is in allowed.
// Missing, malformed or expired tokens get 401; a disallowed role gets 403.
func Authorize(verifier TokenVerifier, allowed ...models.Role) gin.HandlerFunc {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		authErr := services.ErrTokenInvalid
		if errors.Is(err, services.ErrTokenExpired) {
			authErr = services.ErrTokenExpired
		}
		slog.Debug("rejected bearer token", "path", r.URL.Path, "error", err)

		body, _ := json.Marshal(gin.H{"message": authErr.Message, "code": authErr.Code})
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write(body); writeErr != nil {
			slog.Warn("failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		func(ctx context.Context, token string) (interface{}, error) {
			return verifier.Verify(ctx, token)
		},
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var principal models.Principal
		authenticated := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			p, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(models.Principal)
			if !ok {
				return
			}
			principal = p
			authenticated = true
			c.Request = r
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// CheckJWT has already written the 401
		if !authenticated {
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": services.ErrTokenInvalid.Message,
					"code":    services.ErrTokenInvalid.Code,
				})
				return
			}
			c.Abort()
			return
		}

		if !principal.HasRole(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": services.ErrInsufficientRole.Message,
				"code":    services.ErrInsufficientRole.Code,
			})
			return
		}

		c.Set(principalKey, principal)
		c.Set(userIDKey, principal.UserID)
		c.Next()
	}
}

// SetPrincipal attaches p to the request context
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
	c.Set(userIDKey, p.UserID)
}

// GetPrincipal extracts the authenticated principal from the Gin context
func GetPrincipal(c *gin.Context) (models.Principal, error) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, &AuthError{Code: "MISSING_PRINCIPAL", Message: "Principal not found in context"}
	}

	principal, ok := value.(models.Principal)
	if !ok {
		return models.Principal{}, &AuthError{Code: "INVALID_PRINCIPAL", Message: "Principal is not in the expected format"}
	}

	return principal, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a uint"}
	}

	return id, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
