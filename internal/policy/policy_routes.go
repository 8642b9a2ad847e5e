package policy

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
	policies := r.Group("/pto-policies")
	policies.Use(middleware.AuthMiddleware())
	{
		policies.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, "read"), handler.GetAll)
		policies.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, "read"), handler.GetById)
		policies.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, "admin"), handler.Create)
		policies.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, "admin"), handler.Update)
	}

	// The annual projection writes balances, so it lives under the balance
	// surface but is implemented by the policy projector.
	balances := r.Group("/pto-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.POST("/reset-for-new-year", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, "admin"), handler.ResetForNewYear)
	}
}
