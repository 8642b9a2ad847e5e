package balance

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
	balances := r.Group("/pto-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, "read"), handler.Summary)
		balances.GET("/detail", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, "read"), handler.GetBalance)
		balances.GET("/history", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, "read"), handler.History)
		balances.POST("/adjust", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, "admin"), handler.Adjust)
	}
}
