package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogger-platform/internal/results"
	"blogger-platform/internal/security"
)

// UserIDKey is the gin context key under which Auth stores the authenticated
// user id.
const UserIDKey = "userID"

// Auth guards routes behind a Bearer access token. On success the user id is
// placed in the gin context under UserIDKey; on any failure the request is
// aborted with 401.
func Auth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "bearer "
		if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
			abortUnauthorized(c)
			return
		}
		userID, err := tokens.ValidateAccess(strings.TrimSpace(authz[len(prefix):]))
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	res := results.Unauthorizedf("access token is missing or invalid")
	c.AbortWithStatusJSON(http.StatusUnauthorized, res.Body())
}
