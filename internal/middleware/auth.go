package middleware

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/internal/utils/jwt"
	"github.com/devamrit/learnhub-server-go/pkg/response"
)

const userContextKey = "user"

// Authenticate validates the bearer token and loads the caller into context.
// Every endpoint except the gateway verification callback runs behind this.
func Authenticate(db *gorm.DB, jwtSecret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}

		claims, err := jwt.VerifyToken(token, jwtSecret)
		if err != nil {
			status := http.StatusUnauthorized
			message := "Invalid or malformed token"
			if err == jwt.ErrExpiredToken {
				message = "Token has expired"
			}
			response.ErrorWithLog(logger, c, status, message, err)
			c.Abort()
			return
		}

		usr, err := user.Get(db, claims.UserID)
		if err != nil {
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, "User not found", err)
			c.Abort()
			return
		}

		c.Set(userContextKey, &usr)
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}

	usr, ok := value.(*user.User)
	return usr, ok
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}
