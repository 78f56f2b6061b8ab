package middleware

import (
	"log"
	"net/http"
	"strings"

	"devmatch/auth"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "token"

	userIDKey = "userId"
)

type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

func deny(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access Denied"})
}

// JWTAuthMiddleware verifies the session token and stores the caller's id in
// the gin context. The token is read from the session cookie, falling back
// to an "Authorization: Bearer" header.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip middleware for OPTIONS requests (CORS preflight)
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				deny(c)
				return
			}
			tokenString = parts[1]
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			log.Printf("[Auth] %s token validation error: %v", RequestIDFrom(c), err)
			deny(c)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			log.Printf("[Auth] %s token carries invalid user id %q", RequestIDFrom(c), claims.UserID)
			deny(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller set by JWTAuthMiddleware.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
