// controllers/earner_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/repositories"
	"github.com/aquadrop/commission_backend/services"
	"github.com/aquadrop/commission_backend/utils"
)

type EarnerController struct {
	earners *repositories.EarnerRepository
}

func NewEarnerController(earners *repositories.EarnerRepository) *EarnerController {
	return &EarnerController{earners: earners}
}

type createEarnerRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=affiliate marketer"`
}

// CreateEarner provisions a new affiliate or marketer account with a
// generated referral code the earner shares to attribute sales.
func (ec *EarnerController) CreateEarner(c echo.Context) error {
	var req createEarnerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "fullName, email, a password of at least 8 characters and a role of affiliate or marketer are required",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create earner",
		})
	}

	var referralCode string
	switch req.Role {
	case models.RoleAffiliate:
		referralCode, err = utils.GenerateAffiliateReferralCode()
	case models.RoleMarketer:
		referralCode, err = utils.GenerateMarketerReferralCode()
	}
	if err != nil {
		log.Printf("Failed to generate referral code for %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create earner",
		})
	}

	now := time.Now()
	earner := models.Earner{
		ID:           primitive.NewObjectID(),
		FullName:     req.FullName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  req.PhoneNumber,
		Password:     string(hashedPassword),
		Role:         req.Role,
		ReferralCode: referralCode,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ec.earners.Insert(ctx, earner); err != nil {
		if err == services.ErrEmailTaken {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		log.Printf("Failed to insert earner %s: %v", earner.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create earner",
		})
	}

	log.Printf("Earner %s created with referral code %s", earner.Email, earner.ReferralCode)

	earner.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Earner created successfully",
		Data:    earner,
	})
}
