package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const userContextKey = "user"

// UserLookup loads the account a token refers to.
type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware accepts HS256 bearer tokens carrying a userId claim and
// stores the referenced user on the context.
func AuthMiddleware(secret []byte, users UserLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		userID, err := parseUserID(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			return
		}

		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				logger.Error("Failed to load token user",
					zap.String("trace_id", GetTraceID(c.Request.Context())),
					zap.Error(err),
				)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func parseUserID(token string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	for _, key := range []string{"userId", "user_id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("token has no user id claim")
}

// RequireRole rejects authenticated users whose role differs from role.
func RequireRole(role models.Role) gin.HandlerFunc {
	label := strings.ToUpper(string(role[:1])) + string(role[1:])
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Access denied. %s role required.", label)})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
