package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

const (
	TestSecret   = "test-secret"
	TestIssuer   = "legal-sheba-test"
	TestAudience = "legal-sheba-test-clients"
	TestTokenTTL = time.Hour
)

// NewTestCodec returns a token codec matching NewTestConfig
func NewTestCodec(t *testing.T) *services.TokenCodec {
	t.Helper()

	codec, err := services.NewTokenCodec(services.TokenConfig{
		Secret:   TestSecret,
		Issuer:   TestIssuer,
		Audience: TestAudience,
		TTL:      TestTokenTTL,
	})
	require.NoError(t, err)
	return codec
}

// BearerToken issues a token for user and returns it as an Authorization header value
func BearerToken(t *testing.T, codec *services.TokenCodec, user models.User) string {
	t.Helper()

	token, err := codec.Issue(user.Principal())
	require.NoError(t, err)
	return "Bearer " + token
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}
