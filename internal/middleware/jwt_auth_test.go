package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/models"
)

func signTestToken(t *testing.T, secret string, userID uint, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invokeWithAuth(t *testing.T, authHeader string) (uint, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seenUserID uint
	handler := JWTAuthMiddleware()(func(c echo.Context) error {
		seenUserID = c.Get("user").(*models.JwtCustomClaims).UserID
		return c.NoContent(http.StatusOK)
	})
	return seenUserID, handler(c)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signTestToken(t, "test-secret", 42, time.Now().Add(time.Hour))

	userID, err := invokeWithAuth(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestJWTAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer "} {
		_, err := invokeWithAuth(t, header)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signTestToken(t, "test-secret", 42, time.Now().Add(-time.Hour))

	_, err := invokeWithAuth(t, "Bearer "+token)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "token expired", he.Message)
}

func TestJWTAuthRejectsWrongSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signTestToken(t, "another-secret", 42, time.Now().Add(time.Hour))

	_, err := invokeWithAuth(t, "Bearer "+token)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
