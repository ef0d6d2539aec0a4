package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aquadrop/commission_backend/models"
)

// RequireUserType restricts a route to the given user types. It runs after
// JWTMiddleware, which stores the claims in the context.
func RequireUserType(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)
			if userType == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}

			for _, t := range allowed {
				if userType == t {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "You do not have permission to access this resource",
			})
		}
	}
}
