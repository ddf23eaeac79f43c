package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"realvest/api/middleware"
	"realvest/internal/dto"
	"realvest/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	Service  *service.AccountService
	Validate *validator.Validate
}

func NewAccountHandler(svc *service.AccountService, validate *validator.Validate) *AccountHandler {
	return &AccountHandler{
		Service:  svc,
		Validate: validate,
	}
}

func (h *AccountHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.SignupInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := h.Service.Signup(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: "Account created. A verification code has been sent to your email address.",
	})
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (h *AccountHandler) RequestRecovery(c echo.Context) error {
	var req dto.RecoveryRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.RequestRecovery(c.Request().Context(), req.Identifier); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "A recovery code has been sent. Check your inbox or messages.",
	})
}

func (h *AccountHandler) CompleteRecovery(c echo.Context) error {
	var req dto.RecoveryCompleteRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.CompleteRecoveryInput{
		Identifier:      req.Identifier,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := h.Service.CompleteRecovery(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset successfully."})
}

func (h *AccountHandler) VerifyChannel(c echo.Context) error {
	var req dto.VerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.VerifyChannel(c.Request().Context(), req.Identifier, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VerifyResponse{
		Message:    "Verified successfully.",
		InvestorID: result.InvestorID,
	})
}

func (h *AccountHandler) RequestVerification(c echo.Context) error {
	var req dto.VerifyResendRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.RequestVerification(c.Request().Context(), req.Identifier); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "A verification code has been sent."})
}

func (h *AccountHandler) Me(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	account, err := h.Service.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if account == nil {
		return writeError(c, http.StatusNotFound, service.ErrAccountNotFound)
	}
	return c.JSON(http.StatusOK, dto.AccountResponseFromEntity(account))
}

func (h *AccountHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

// writeServiceError maps domain errors to their statuses; anything
// unrecognized is infrastructure and surfaces as a generic 500 with the
// detail left to the request logger.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrNoActiveRequest),
		errors.Is(err, service.ErrRecoveryExpired),
		errors.Is(err, service.ErrInvalidRecoveryCode):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrAccountNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrDuplicateIdentity),
		errors.Is(err, service.ErrChannelVerified):
		return writeError(c, http.StatusConflict, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrChannelNotVerified):
		return writeError(c, http.StatusForbidden, err)
	case errors.Is(err, service.ErrNotificationFailure):
		// the body carries only the sentinel; the provider cause goes to
		// the request logger
		_ = writeError(c, http.StatusBadGateway, service.ErrNotificationFailure)
		return err
	default:
		_ = writeError(c, http.StatusInternalServerError, errors.New("internal error"))
		return err
	}
}
