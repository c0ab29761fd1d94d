package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order-admin-service/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func setupAuthRouter(t *testing.T, adminOnly bool) *gin.Engine {
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.AuthMiddleware()}
	if adminOnly {
		handlers = append(handlers, middleware.AdminOnly())
	}
	handlers = append(handlers, func(c *gin.Context) {
		userID, err := middleware.GetUserID(c)
		assert.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	r.GET("/protected", handlers...)
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := setupAuthRouter(t, false)

	token := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	w := request(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	r := setupAuthRouter(t, false)

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	w = request(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	r := setupAuthRouter(t, true)

	adminToken := signToken(t, jwt.MapClaims{
		"sub":  "admin-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	w := request(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	customerToken := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	w = request(r, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
