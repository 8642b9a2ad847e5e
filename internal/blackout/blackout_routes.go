package blackout

import (
	"go-pto/internal/middleware"
	"go-pto/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	blackouts := r.Group("/pto-blackouts")
	blackouts.Use(middleware.AuthMiddleware())
	{
		blackouts.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceBlackout, "read"), handler.GetAll)
		blackouts.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceBlackout, "read"), handler.GetById)
		blackouts.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceBlackout, "admin"), handler.Create)
		blackouts.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceBlackout, "admin"), handler.Update)
		blackouts.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceBlackout, "admin"), handler.Delete)
	}
}
