package ptotype

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
	types := r.Group("/pto-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceType, "read"), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceType, "read"), handler.GetById)
		types.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceType, "admin"), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceType, "admin"), handler.Update)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceType, "admin"), handler.Delete)
	}
}
