package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

// AuthMiddleware accepts access tokens whose session is still present in the
// session store. It sets user_id and session_id on the gin context.
func AuthMiddleware(authService domain.AuthenticationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "Authorization header required", "MISSING_AUTH_HEADER")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Bearer token required", "INVALID_AUTH_FORMAT")
			return
		}
		tokenString = strings.TrimSpace(tokenString)

		info, err := authService.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, domain.ErrSessionExpired):
				abortJSON(c, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
			case errors.Is(err, domain.ErrInvalidToken):
				abortJSON(c, http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
			default:
				log.Error().Err(err).Msg("access token validation failed")
				abortJSON(c, http.StatusInternalServerError, "Failed to validate token", "AUTH_UNAVAILABLE")
			}
			return
		}

		c.Set("user_id", info.UserID)
		c.Set("session_id", info.SessionID)
		c.Next()
	}
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
}
