package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aquadrop/commission_backend/controllers"
	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
)

// RegisterSalesRoutes sets up the sale ingestion routes used by the order
// pipeline. The pipeline authenticates with an admin service token.
func RegisterSalesRoutes(e *echo.Echo, commissionController *controllers.CommissionController) {
	sales := e.Group("/api/sales")
	sales.Use(middleware.JWTMiddleware())
	sales.Use(middleware.RequireUserType(models.RoleAdmin))

	sales.POST("/commissions", commissionController.RecordSale)
	sales.POST("/commissions/:saleId/void", commissionController.VoidSale)
}
