package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"
)

// Claims is the signed, stateless identity token payload: who the caller is
// and which roles they held when the token was issued. There is no
// server-side session or revocation list; a token stays valid until expiry.
type Claims struct {
	UserID int      `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

const identityKey = "identity"

// AuthMiddleware validates the bearer token and stores the verified identity
// in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check the user still exists and is active
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL AND is_active = ?", claims.UserID, true).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or deactivated"})
			c.Abort()
			return
		}

		c.Set(identityKey, services.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Roles:  claims.Roles,
		})

		c.Next()
	}
}

// GetIdentity extracts the verified identity stored by AuthMiddleware.
func GetIdentity(c *gin.Context) (services.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return services.Identity{}, false
	}
	identity, ok := value.(services.Identity)
	return identity, ok
}

// RequireCapability gates a route group on one capability from the
// permission table. Finer ownership checks stay inside the services.
func RequireCapability(capability services.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Identity not found"})
			c.Abort()
			return
		}

		if !services.HasCapability(identity, capability) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
