package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateIdentity   = errors.New("email or phone number already registered")
	ErrNoActiveRequest     = errors.New("no active recovery request")
	ErrRecoveryExpired     = errors.New("recovery code has expired")
	ErrInvalidRecoveryCode = errors.New("invalid recovery code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrChannelNotVerified  = errors.New("channel not verified")
	ErrChannelVerified     = errors.New("channel already verified")
	ErrNotificationFailure = errors.New("failed to dispatch notification")
)
