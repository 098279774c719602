package middlewares

import (
	"net/http"
	"strconv"

	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationMiddleware attaches a correlation id to every request context,
// reusing the caller's x-correlation-id header when present so ids propagate
// across service hops.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Header("x-correlation-id", cid)
		c.Next()
	}
}

// OrganizationMiddleware resolves the tenant from the x-organization-id header
// set by the upstream API gateway (which owns authentication) and rejects
// requests without one. The tenant guard on the DB layer scopes every query to
// this id.
func OrganizationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationId := c.GetHeader("x-organization-id")
		if organizationId == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "x-organization-id header is required"})
			return
		}
		ctx := utils.SetOrganizationIdInContext(c.Request.Context(), organizationId)
		// x-user-id is optional; the gateway only sets it for authenticated
		// interactive callers, not service-to-service triggers.
		if userId, err := strconv.Atoi(c.GetHeader("x-user-id")); err == nil && userId > 0 {
			ctx = utils.SetUserIdInContext(ctx, userId)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
