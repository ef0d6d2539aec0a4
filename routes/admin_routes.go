package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aquadrop/commission_backend/controllers"
	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
)

// RegisterAdminRoutes sets up the admin policy, earner and payout routes
func RegisterAdminRoutes(e *echo.Echo, policyController *controllers.PolicyController, earnerController *controllers.EarnerController, withdrawalController *controllers.WithdrawalController) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType(models.RoleAdmin))

	// Commission policy management
	admin.GET("/commission-policy", policyController.GetPolicy)
	admin.PUT("/commission-policy", policyController.UpdatePolicy)

	// Earner provisioning
	admin.POST("/earners", earnerController.CreateEarner)

	// Withdrawal processing
	admin.GET("/withdrawals", withdrawalController.ListWithdrawals)
	admin.POST("/withdrawals/:id/process", withdrawalController.ProcessWithdrawal)
}
