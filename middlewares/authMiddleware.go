package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the caller from an optional bearer token.
// A missing or invalid token leaves the request anonymous and never blocks it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if len(auth) <= len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
			c.Next()
			return
		}

		token, err := utils.JwtValidate(strings.TrimSpace(auth[len(bearerPrefix):]))
		if err != nil || !token.Valid {
			config.LoggerFromContext(c.Request.Context()).WithField("path", c.FullPath()).
				Debug("ignoring invalid bearer token")
			c.Next()
			return
		}

		claim, ok := token.Claims.(*utils.JwtCustomClaim)
		if !ok || claim.ID <= 0 {
			c.Next()
			return
		}

		ctx := utils.SetUserIdInContext(c.Request.Context(), claim.ID)
		ctx = utils.SetUserNameInContext(ctx, claim.Name)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
