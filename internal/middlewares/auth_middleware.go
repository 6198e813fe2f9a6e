package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"umlforge/internal/utils"
)

const (
	UserIDKey = "userId"
	JTIKey    = "jti"
)

func Authenticate(c *gin.Context) {
	claims, ok := claimsFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing access token"})
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token subject"})
		return
	}

	c.Set(UserIDKey, userID)
	c.Set(JTIKey, claims.ID)

	c.Next()
}

// OptionalAuthenticate resolves the user when a token is present but lets
// anonymous requests through. Share-link endpoints authorize by token, not
// by user.
func OptionalAuthenticate(c *gin.Context) {
	if claims, ok := claimsFromRequest(c); ok {
		if userID, err := uuid.Parse(claims.Subject); err == nil {
			c.Set(UserIDKey, userID)
			c.Set(JTIKey, claims.ID)
		}
	}
	c.Next()
}

func claimsFromRequest(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.VerifyJWT(parts[1], utils.AccessTokenSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// UserID pulls the authenticated user from the context, if any.
func UserID(c *gin.Context) *uuid.UUID {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
