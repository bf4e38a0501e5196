package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"seatlock/internal/shared/config"
	"seatlock/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const HolderIDKey = "holder_id"

// JWTAuth verifies the bearer token and stores the subject as the holder id
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		holderID, err := holderFromRequest(c, cfg)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized,
				err.Error(), nil, nil)
			c.Abort()
			return
		}

		c.Set(HolderIDKey, holderID)
		c.Next()
	}
}

// OptionalAuth stores the holder id when a valid token is present,
// and lets the request through anonymously otherwise
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if holderID, err := holderFromRequest(c, cfg); err == nil {
			c.Set(HolderIDKey, holderID)
		}
		c.Next()
	}
}

// HolderID returns the authenticated holder id for the request
func HolderID(c *gin.Context) (string, bool) {
	holderID, exists := c.Get(HolderIDKey)
	if !exists {
		return "", false
	}
	id, ok := holderID.(string)
	return id, ok && id != ""
}

func holderFromRequest(c *gin.Context, cfg *config.Config) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", fmt.Errorf("bearer token required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", fmt.Errorf("token missing subject")
	}

	return subject, nil
}
