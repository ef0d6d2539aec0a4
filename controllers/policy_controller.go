// controllers/policy_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/services"
)

type PolicyController struct {
	policies *services.PolicyService
}

func NewPolicyController(policies *services.PolicyService) *PolicyController {
	return &PolicyController{policies: policies}
}

// GetPolicy returns the commission policy currently in force.
func (pc *PolicyController) GetPolicy(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policy, err := pc.policies.Get(ctx)
	if err != nil {
		log.Printf("Failed to load commission policy: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission policy",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission policy retrieved successfully",
		Data:    policy,
	})
}

// UpdatePolicy applies a partial update to the commission policy. Fields
// omitted from the body keep their current values.
func (pc *PolicyController) UpdatePolicy(c echo.Context) error {
	var update models.PolicyUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policy, err := pc.policies.Update(ctx, update)
	if err != nil {
		switch err {
		case services.ErrInvalidRate:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Commission rate must be between 0 and 100",
			})
		case services.ErrInvalidRole:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Excluded roles must be known platform roles",
			})
		case services.ErrInvalidWindow:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Withdrawal window days must satisfy 1 <= startDay <= endDay <= 31",
			})
		}
		log.Printf("Failed to update commission policy: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission policy",
		})
	}

	log.Printf("Commission policy updated: rate=%.2f window=%d-%d excludedRoles=%v",
		policy.Rate, policy.WithdrawalWindow.StartDay, policy.WithdrawalWindow.EndDay, policy.ExcludedRoles)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission policy updated successfully",
		Data:    policy,
	})
}
