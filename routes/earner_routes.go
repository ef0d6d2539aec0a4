package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/controllers"
	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/websocket"
)

// RegisterEarnerRoutes sets up the earner-facing ledger and withdrawal routes
func RegisterEarnerRoutes(e *echo.Echo, commissionController *controllers.CommissionController, withdrawalController *controllers.WithdrawalController, hub *websocket.Hub) {
	earner := e.Group("/api/earner")
	earner.Use(middleware.JWTMiddleware())
	earner.Use(middleware.RequireUserType(models.RoleAffiliate, models.RoleMarketer))

	earner.GET("/commissions", commissionController.GetMyCommissions)
	earner.GET("/withdrawals", withdrawalController.GetMyWithdrawals)
	earner.POST("/withdrawals", withdrawalController.RequestWithdrawal)

	// Live ledger notifications
	earner.GET("/ws", func(c echo.Context) error {
		earnerID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
			})
		}
		return websocket.HandleWebSocket(c, hub, earnerID)
	})
}
