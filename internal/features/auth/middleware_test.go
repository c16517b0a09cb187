package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/pkg/token"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpireHours: 1}
}

func TestRequired_NoHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	r := gin.New()
	r.GET("/protected", Required(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestRequired_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	signed, err := token.Generate(cfg.JWTSecret, cfg.JWTExpireHours, "64f0c1a2b3d4e5f601234567", "asha")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Required(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "64f0c1a2b3d4e5f601234567")
}

func TestRequired_WrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	signed, err := token.Generate("other-secret", 1, "id", "user")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Required(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestOptional_AnonymousPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	r := gin.New()
	r.GET("/open", Optional(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), `"userID":""`)
}

func TestOptional_AttributesWhenTokenPresent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	signed, err := token.Generate(cfg.JWTSecret, cfg.JWTExpireHours, "abc123", "asha")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/open", Optional(cfg), func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", signed) // raw token, no Bearer prefix
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "abc123")
}
