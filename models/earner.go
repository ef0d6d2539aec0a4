package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Earner roles known to the platform. Excluded-role configuration in the
// commission policy may only reference these values.
const (
	RoleAdmin     = "admin"
	RoleAffiliate = "affiliate"
	RoleMarketer  = "marketer"
	RoleCustomer  = "customer"
)

// KnownRole reports whether role is one of the platform's role identifiers.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAffiliate, RoleMarketer, RoleCustomer:
		return true
	}
	return false
}

// Earner is an affiliate or marketer account that can accrue commission.
type Earner struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	Password     string             `json:"password,omitempty" bson:"password"`
	Role         string             `json:"role" bson:"role"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
