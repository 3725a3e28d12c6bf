package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdo/shopcart-api/configs"
)

func testConfig() configs.Config {
	var cfg configs.Config
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "shop-api"
	cfg.Security.Audience = "shop-clients"
	cfg.Security.TTL = 15 * time.Minute
	return cfg
}

func signToken(t *testing.T, cfg configs.Config, mutate func(jwt.MapClaims)) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   cfg.Security.Issuer,
		"aud":   cfg.Security.Audience,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(15 * time.Minute).Unix(),
		"sub":   "user-1",
		"email": "user@example.com",
		"role":  "customer",
		"perms": []string{"cart.read", "cart.write"},
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.Security.JWTSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(cfg configs.Config, token string, perms ...string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()

	var captured *gin.Context
	r := gin.New()
	r.GET("/protected", NewAuthz(cfg).Require(perms...), func(c *gin.Context) {
		captured = c.Copy()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec, captured
}

func TestRequireSetsIdentity(t *testing.T) {
	cfg := testConfig()
	rec, c := doRequest(cfg, signToken(t, cfg, nil), "cart.read")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c)
	assert.Equal(t, "user-1", UserID(c))
	assert.Equal(t, "user@example.com", Email(c))
	assert.Equal(t, "customer", c.GetString(CtxRole))
}

func TestRequireMissingToken(t *testing.T) {
	rec, _ := doRequest(testConfig(), "", "cart.read")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireWrongSecret(t *testing.T) {
	cfg := testConfig()
	other := testConfig()
	other.Security.JWTSecret = "another-secret"
	rec, _ := doRequest(cfg, signToken(t, other, nil), "cart.read")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIssuerMismatch(t *testing.T) {
	cfg := testConfig()
	token := signToken(t, cfg, func(c jwt.MapClaims) { c["iss"] = "someone-else" })
	rec, _ := doRequest(cfg, token, "cart.read")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireMissingPermission(t *testing.T) {
	cfg := testConfig()
	rec, _ := doRequest(cfg, signToken(t, cfg, nil), "orders.admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireExpiredToken(t *testing.T) {
	cfg := testConfig()
	token := signToken(t, cfg, func(c jwt.MapClaims) {
		c["exp"] = time.Now().Add(-2 * time.Minute).Unix()
	})
	rec, _ := doRequest(cfg, token, "cart.read")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
