// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/repositories"
	"github.com/aquadrop/commission_backend/services"
)

type AuthController struct {
	earners *repositories.EarnerRepository
}

func NewAuthController(earners *repositories.EarnerRepository) *AuthController {
	return &AuthController{earners: earners}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an earner or admin and returns a JWT token pair.
func (ac *AuthController) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	earner, err := ac.earners.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err == services.ErrUnknownEarner {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		log.Printf("Login lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process login",
		})
	}

	if !earner.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(earner.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(earner.ID.Hex(), earner.Email, earner.Role)
	if err != nil {
		log.Printf("Failed to generate JWT for %s: %v", earner.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := ac.earners.UpdateLastLogin(ctx, earner.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", earner.Email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"earner": map[string]interface{}{
				"id":           earner.ID.Hex(),
				"fullName":     earner.FullName,
				"email":        earner.Email,
				"role":         earner.Role,
				"referralCode": earner.ReferralCode,
			},
		},
	})
}
