package middleware

import (
	"net/http"
	"strings"

	"feed-api/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the gin context key holding the acting user id. Zero means anonymous.
const UserIDKey = "userId"

// IdentityMiddleware resolves the acting user from a bearer token. Requests
// without an Authorization header continue anonymously; a malformed or
// invalid token is rejected.
func IdentityMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(UserIDKey, 0)
			c.Next()
			return
		}
		userID, msg := parseBearer(authHeader, secret)
		if msg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeInvalidToken, msg))
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests. It must run after IdentityMiddleware.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt(UserIDKey) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeUnauthorized, "Authorization header required"))
			return
		}
		c.Next()
	}
}

func parseBearer(header, secret string) (int, string) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "Invalid authorization header"
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "Invalid token"
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "Invalid token claims"
	}
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, "userId not found in token"
	}
	return int(userID), ""
}
