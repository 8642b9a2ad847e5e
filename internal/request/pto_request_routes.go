package request

import (
	"go-pto/internal/middleware"
	"go-pto/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/pto-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "write"),
			middleware.RateLimitByUser(rate.Limit(1), 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.POST("/historical",
			middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "admin"),
			handler.SubmitHistorical,
		)

		requests.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "read"), handler.ListMine)
		requests.GET("/pending-approvals", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "read"), handler.PendingApprovals)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "read"), handler.GetById)
		requests.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "write"), handler.Update)

		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "approve"), handler.Approve)
		requests.POST("/:id/deny", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "approve"), handler.Deny)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, rbac.ResourceRequest, "write"), handler.Cancel)
	}
}
