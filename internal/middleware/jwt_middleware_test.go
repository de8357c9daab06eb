package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho() *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		claims := GetClaims(c)
		return c.JSON(http.StatusOK, echo.Map{"admin_id": claims.AdminID, "email": claims.Email})
	}, JWTMiddleware())
	return e
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin_id":42`)
	assert.Contains(t, rec.Body.String(), "admin@example.com")
}

func TestJWTMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	protectedEcho().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMalformedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	protectedEcho().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com", -1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
