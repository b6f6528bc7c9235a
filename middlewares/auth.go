package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"groupbuy-service/auth"
	"groupbuy-service/models"
)

const principalKey = "principal"

// AuthMiddleware extracts the bearer token, verifies it and stores the
// resulting principal on the request context. Missing token is 401, invalid
// or expired token is 403.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		principal := tokens.Verify(token)
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}

// RequireAdmin admits admins only.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(func(role string) bool {
		return role == models.RoleAdmin
	})
}

// RequireOperator admits operators and admins; an admin counts as an
// operator everywhere.
func RequireOperator() gin.HandlerFunc {
	return requireRole(func(role string) bool {
		return role == models.RoleOperator || role == models.RoleAdmin
	})
}

// RequireCustomer admits storefront customers only.
func RequireCustomer() gin.HandlerFunc {
	return requireRole(func(role string) bool {
		return role == models.RoleCustomer
	})
}

func requireRole(allowed func(role string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok || !allowed(principal.Role()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
