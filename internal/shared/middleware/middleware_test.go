package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatlock/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	return cfg
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", handler, func(c *gin.Context) {
		holderID, _ := HolderID(c)
		c.JSON(http.StatusOK, gin.H{"holder_id": holderID})
	})
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	engine := newAuthRouter(JWTAuth(cfg))

	token := signToken(t, cfg.JWT.Secret, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(engine, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	engine := newAuthRouter(JWTAuth(testConfig()))

	w := doRequest(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	engine := newAuthRouter(JWTAuth(cfg))

	token := signToken(t, "another-secret", jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(engine, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsMissingSubject(t *testing.T) {
	cfg := testConfig()
	engine := newAuthRouter(JWTAuth(cfg))

	token := signToken(t, cfg.JWT.Secret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(engine, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	engine := newAuthRouter(OptionalAuth(testConfig()))

	w := doRequest(engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	engine := newAuthRouter(OptionalAuth(testConfig()))

	w := doRequest(engine, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthSetsHolderWhenPresent(t *testing.T) {
	cfg := testConfig()
	engine := newAuthRouter(OptionalAuth(cfg))

	token := signToken(t, cfg.JWT.Secret, jwt.MapClaims{
		"sub": "carol",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(engine, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carol")
}
