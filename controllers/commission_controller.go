// controllers/commission_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/services"
	"github.com/aquadrop/commission_backend/utils"
	"github.com/aquadrop/commission_backend/websocket"
)

type CommissionController struct {
	commissions *services.CommissionService
	hub         *websocket.Hub
}

func NewCommissionController(commissions *services.CommissionService, hub *websocket.Hub) *CommissionController {
	return &CommissionController{commissions: commissions, hub: hub}
}

// RecordSale ingests a completed sale from the order pipeline and credits
// the earner's pending balance. Redeliveries of the same sale return the
// original entry.
func (cc *CommissionController) RecordSale(c echo.Context) error {
	var sale models.SaleEvent
	if err := c.Bind(&sale); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&sale); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "earnerId, earnerRole, saleId and a positive saleAmount are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := cc.commissions.RecordSale(ctx, sale)
	if err != nil {
		switch err {
		case services.ErrInvalidSaleAmount:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Sale amount must be greater than zero",
			})
		case services.ErrUnknownEarner:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Earner not found",
			})
		}
		log.Printf("Failed to record sale %s for earner %s: %v", sale.SaleID, sale.EarnerID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record sale",
		})
	}

	if entry == nil {
		// Excluded role: acknowledged, nothing credited.
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Sale acknowledged; earner role is excluded from commission",
		})
	}

	if err := cc.hub.NotifyCommissionRecorded(entry.EarnerID, entry); err != nil {
		log.Printf("Could not push commission notification to earner %s: %v", entry.EarnerID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commission recorded successfully",
		Data:    entry,
	})
}

// VoidSale voids the pending commission entry for a cancelled sale.
func (cc *CommissionController) VoidSale(c echo.Context) error {
	saleID := c.Param("saleId")
	earnerID, err := primitive.ObjectIDFromHex(c.QueryParam("earnerId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid earnerId query parameter is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := cc.commissions.VoidSale(ctx, earnerID, saleID)
	if err != nil {
		switch err {
		case services.ErrSaleNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No commission entry found for this sale",
			})
		case services.ErrEntryNotVoidable:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Commission entry has already entered a withdrawal and cannot be voided",
			})
		}
		log.Printf("Failed to void sale %s for earner %s: %v", saleID, earnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to void commission entry",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission entry voided successfully",
		Data:    entry,
	})
}

// GetMyCommissions lists the authenticated earner's ledger, newest first,
// with optional status and minimum-amount filters.
func (cc *CommissionController) GetMyCommissions(c echo.Context) error {
	earnerID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	minAmount, err := utils.ParseFloat(c.QueryParam("minAmount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "minAmount must be a number",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := cc.commissions.EntriesForEarner(ctx, earnerID, c.QueryParam("status"), (page-1)*limit, limit)
	if err != nil {
		log.Printf("Failed to list commissions for earner %s: %v", earnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission entries",
		})
	}

	if minAmount > 0 {
		filtered := make([]models.CommissionEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.CommissionAmount >= minAmount {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	var pendingTotal float64
	for _, entry := range entries {
		if entry.Status == models.CommissionStatusPending {
			pendingTotal += entry.CommissionAmount
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission entries retrieved successfully",
		Data: map[string]interface{}{
			"entries":      entries,
			"pendingTotal": utils.RoundToCents(pendingTotal),
			"page":         page,
			"limit":        limit,
		},
	})
}
