package dto

import (
	"time"

	"realvest/internal/entity"
)

type SignupRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Address         string `json:"address" validate:"omitempty"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type RecoveryRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type RecoveryCompleteRequest struct {
	Identifier      string `json:"identifier" validate:"required"`
	Code            string `json:"code" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type VerifyRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

type VerifyResendRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type VerifyResponse struct {
	Message    string `json:"message"`
	InvestorID string `json:"investor_id,omitempty"`
}

type AccountResponse struct {
	ID              string     `json:"id"`
	InvestorID      string     `json:"investor_id,omitempty"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	Address         string     `json:"address,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func AccountResponseFromEntity(account *entity.UserAccount) AccountResponse {
	response := AccountResponse{
		ID:              account.ID.String(),
		FirstName:       account.FirstName,
		LastName:        account.LastName,
		Email:           account.Email,
		PhoneNumber:     account.Phone(),
		Address:         account.Address,
		EmailVerifiedAt: account.EmailVerifiedAt,
		PhoneVerifiedAt: account.PhoneVerifiedAt,
		CreatedAt:       account.CreatedAt,
	}
	if account.InvestorID != nil {
		response.InvestorID = *account.InvestorID
	}
	return response
}
