package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "clave-de-prueba"

func signToken(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   "3f1c9a52-8a41-4f2e-9d7b-111111111111",
		Username: "cajero1",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.JWTAuth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/protegido", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	w := doRequest(newProtectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, "staff", time.Hour)
	w := doRequest(newProtectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cajero1")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "otra-clave", "staff", time.Hour)
	w := doRequest(newProtectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, "staff", -time.Minute)
	w := doRequest(newProtectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleForbidden(t *testing.T) {
	token := signToken(t, testSecret, "staff", time.Hour)
	w := doRequest(newProtectedRouter("admin"), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowed(t *testing.T) {
	token := signToken(t, testSecret, "admin", time.Hour)
	w := doRequest(newProtectedRouter("admin", "manager"), token)
	assert.Equal(t, http.StatusOK, w.Code)
}
