package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/pkg/response"
	"github.com/streetpulse/streetpulse/internal/pkg/token"
)

// Required rejects requests without a valid bearer token.
func Required(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(cfg, c)
		if !ok {
			response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// Optional attributes the request to a user when a valid token is present
// and lets it through anonymously otherwise.
func Optional(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(cfg, c); ok {
			c.Set("userID", claims.UserID)
			c.Set("username", claims.Username)
		}
		c.Next()
	}
}

func parseBearer(cfg *config.Config, c *gin.Context) (*token.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Support both "Bearer <token>" (case-insensitive) and a raw token
	fields := strings.Fields(authHeader)
	tokenString := authHeader
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		tokenString = fields[1]
	}

	claims, err := token.Validate(cfg.JWTSecret, tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}
