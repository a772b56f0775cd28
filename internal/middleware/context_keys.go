package middleware

import "github.com/gin-gonic/gin"

// Keys used to store authenticated caller identity in the Gin context.
const (
	userIDKey = contextKey("userID")
	orgIDKey  = contextKey("orgID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and whether it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}

// GetOrgIDFromContext retrieves the caller's organization ID from the
// Gin context. The finance event validator compares event organizations
// against this value.
func GetOrgIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(orgIDKey))
	if !exists {
		return "", false
	}
	orgID, ok := val.(string)
	return orgID, ok
}
