// controllers/withdrawal_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/repositories"
	"github.com/aquadrop/commission_backend/services"
	"github.com/aquadrop/commission_backend/utils"
	"github.com/aquadrop/commission_backend/websocket"
)

type WithdrawalController struct {
	withdrawals *services.WithdrawalService
	earners     *repositories.EarnerRepository
	hub         *websocket.Hub
}

func NewWithdrawalController(withdrawals *services.WithdrawalService, earners *repositories.EarnerRepository, hub *websocket.Hub) *WithdrawalController {
	return &WithdrawalController{withdrawals: withdrawals, earners: earners, hub: hub}
}

// RequestWithdrawal submits a withdrawal request for the authenticated
// earner's entire pending balance. The request only succeeds inside the
// policy's monthly withdrawal window.
func (wc *WithdrawalController) RequestWithdrawal(c echo.Context) error {
	earnerID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, err := wc.withdrawals.RequestWithdrawal(ctx, earnerID, time.Now())
	if err != nil {
		var outside *services.OutsideWindowError
		if errors.As(err, &outside) {
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "Withdrawals are closed right now",
				Data: map[string]interface{}{
					"window":          outside.Window,
					"nextWindowStart": outside.NextStart,
				},
			})
		}
		switch err {
		case services.ErrRequestAlreadyOutstanding:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A withdrawal request is already awaiting processing",
			})
		case services.ErrNoPendingBalance:
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "No pending commission balance to withdraw",
			})
		}
		log.Printf("Failed to create withdrawal request for earner %s: %v", earnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create withdrawal request",
		})
	}

	if err := wc.hub.NotifyWithdrawalSubmitted(earnerID, request); err != nil {
		log.Printf("Could not push withdrawal notification to earner %s: %v", earnerID.Hex(), err)
	}

	log.Printf("Withdrawal request %s submitted by earner %s for %.2f",
		request.Reference, earnerID.Hex(), request.TotalAmount)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request submitted successfully",
		Data:    request,
	})
}

// GetMyWithdrawals returns the authenticated earner's withdrawal history
// together with their current withdrawal state and the next window opening.
func (wc *WithdrawalController) GetMyWithdrawals(c echo.Context) error {
	earnerID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	state, nextStart, err := wc.withdrawals.StateForEarner(ctx, earnerID, now)
	if err != nil {
		log.Printf("Failed to derive withdrawal state for earner %s: %v", earnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load withdrawal state",
		})
	}

	history, err := wc.withdrawals.HistoryForEarner(ctx, earnerID)
	if err != nil {
		log.Printf("Failed to load withdrawal history for earner %s: %v", earnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load withdrawal history",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data: map[string]interface{}{
			"state":           state,
			"nextWindowStart": nextStart,
			"requests":        history,
		},
	})
}

// ListWithdrawals lists withdrawal requests for the admin dashboard,
// optionally filtered by status.
func (wc *WithdrawalController) ListWithdrawals(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" &&
		status != models.WithdrawalStatusSubmitted &&
		status != models.WithdrawalStatusApproved &&
		status != models.WithdrawalStatusRejected {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status must be one of submitted, approved, rejected",
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	requests, total, err := wc.withdrawals.RequestsByStatus(ctx, status, (page-1)*limit, limit)
	if err != nil {
		log.Printf("Failed to list withdrawal requests: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load withdrawal requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal requests retrieved successfully",
		Data: map[string]interface{}{
			"requests": requests,
			"total":    total,
			"page":     page,
			"limit":    limit,
		},
	})
}

type processWithdrawalRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=approved rejected"`
	Note    string `json:"note"`
}

// ProcessWithdrawal records the admin's decision on a submitted withdrawal
// request. Approval marks the claimed entries paid; rejection returns them
// to the earner's pending balance.
func (wc *WithdrawalController) ProcessWithdrawal(c echo.Context) error {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal request ID",
		})
	}

	var req processWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "outcome must be approved or rejected",
		})
	}

	var adminID *primitive.ObjectID
	if id, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c)); err == nil {
		adminID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, err := wc.withdrawals.SettleWithdrawal(ctx, requestID, req.Outcome, adminID, req.Note)
	if err != nil {
		switch err {
		case services.ErrInvalidOutcome:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "outcome must be approved or rejected",
			})
		case services.ErrRequestNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Withdrawal request not found",
			})
		case services.ErrRequestNotSettleable:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Withdrawal request has already been processed",
			})
		}
		log.Printf("Failed to process withdrawal request %s: %v", requestID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process withdrawal request",
		})
	}

	if err := wc.hub.NotifyWithdrawalSettled(request.EarnerID, request); err != nil {
		log.Printf("Could not push settlement notification to earner %s: %v", request.EarnerID.Hex(), err)
	}

	// Email delivery is best-effort; the settlement already happened.
	go func(request models.WithdrawalRequest) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		earner, err := wc.earners.FindByID(ctx, request.EarnerID)
		if err != nil {
			log.Printf("Failed to load earner %s for settlement email: %v", request.EarnerID.Hex(), err)
			return
		}
		if err := utils.SendWithdrawalOutcomeEmail(earner.Email, earner.FullName, request); err != nil {
			log.Printf("Failed to send settlement email for request %s: %v", request.Reference, err)
		}
	}(*request)

	log.Printf("Withdrawal request %s %s", request.Reference, request.Status)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal request processed successfully",
		Data:    request,
	})
}
