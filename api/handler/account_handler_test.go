package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"realvest/api/handler"
	"realvest/api/middleware"
	"realvest/api/routes"
	"realvest/internal/entity"
	"realvest/internal/identity"
	"realvest/internal/repository"
	"realvest/internal/service"
	"realvest/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	accounts map[uuid.UUID]*entity.UserAccount
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[uuid.UUID]*entity.UserAccount)}
}

func (r *memoryRepo) Create(_ context.Context, account *entity.UserAccount) error {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateIdentity
		}
		if account.PhoneNumber != nil && existing.PhoneNumber != nil && *existing.PhoneNumber == *account.PhoneNumber {
			return repository.ErrDuplicateIdentity
		}
	}
	account.ID = uuid.New()
	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.UserAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *memoryRepo) FindByIdentifier(_ context.Context, id identity.Identifier) (*entity.UserAccount, error) {
	for _, account := range r.accounts {
		if id.Channel() == identity.ChannelEmail && account.Email == id.Value() {
			copied := *account
			return &copied, nil
		}
		if id.Channel() == identity.ChannelPhone && account.Phone() == id.Value() {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) SetRecovery(_ context.Context, accountID uuid.UUID, token *string, code *string, expiry time.Time) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	account.RecoveryToken = token
	account.RecoveryCode = code
	account.RecoveryExpiry = &expiry
	return nil
}

func (r *memoryRepo) ResetCredential(_ context.Context, accountID uuid.UUID, passwordHash string) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	account.PasswordHash = passwordHash
	return r.ClearRecovery(context.Background(), accountID)
}

func (r *memoryRepo) ClearRecovery(_ context.Context, accountID uuid.UUID) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	account.RecoveryToken = nil
	account.RecoveryCode = nil
	account.RecoveryExpiry = nil
	return nil
}

func (r *memoryRepo) MarkVerified(_ context.Context, accountID uuid.UUID, channel identity.Channel, at time.Time, investorID *string) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	if channel == identity.ChannelPhone {
		account.PhoneVerifiedAt = &at
	} else {
		account.EmailVerifiedAt = &at
	}
	if investorID != nil {
		account.InvestorID = investorID
	}
	return r.ClearRecovery(context.Background(), accountID)
}

func (r *memoryRepo) InTx(_ context.Context, fn func(repository.AccountRepository) error) error {
	return fn(r)
}

type silentSender struct {
	lastSecret string
	fail       bool
}

func (s *silentSender) SendRecovery(_ context.Context, _ *entity.UserAccount, secret string, _ time.Duration) error {
	if s.fail {
		return errors.New("provider down")
	}
	s.lastSecret = secret
	return nil
}

func (s *silentSender) SendVerification(_ context.Context, _ *entity.UserAccount, code string, _ time.Duration) error {
	s.lastSecret = code
	return nil
}

func (s *silentSender) SendWelcome(_ context.Context, _ *entity.UserAccount) error {
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (plainHasher) Verify(hash string, password string) bool {
	return hash == "h:"+password
}

func newTestApp(t *testing.T) (*echo.Echo, *memoryRepo, *silentSender) {
	t.Helper()
	repo := newMemoryRepo()
	sender := &silentSender{}
	manager := utils.JWTManager{Secret: []byte("test-secret"), AccessTokenTTL: 15 * time.Minute}
	svc := service.NewAccountService(
		repo,
		sender,
		sender,
		plainHasher{},
		service.JWTAccessIssuer{Manager: &manager},
		service.RealClock{},
		service.AccountConfig{RecoveryTTL: 15 * time.Minute},
	)

	app := echo.New()
	router := routes.NewRouter(
		app,
		handler.NewAccountHandler(svc, validator.New()),
		middleware.AuthMiddleware{JWT: &manager},
	)
	router.RegisterRoutes()
	return app, repo, sender
}

func doJSON(app *echo.Echo, method string, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	app.ServeHTTP(recorder, request)
	return recorder
}

const signupBody = `{
	"first_name": "Ada",
	"last_name": "Lovelace",
	"email": "a@example.com",
	"password": "OldPass1!",
	"confirm_password": "OldPass1!"
}`

func TestSignup_Created(t *testing.T) {
	app, repo, _ := newTestApp(t)

	response := doJSON(app, http.MethodPost, "/api/signup", signupBody, nil)

	assert.Equal(t, http.StatusCreated, response.Code)
	assert.Len(t, repo.accounts, 1)
}

func TestSignup_MismatchedConfirmation(t *testing.T) {
	app, repo, _ := newTestApp(t)

	body := strings.Replace(signupBody, `"confirm_password": "OldPass1!"`, `"confirm_password": "nope1234"`, 1)
	response := doJSON(app, http.MethodPost, "/api/signup", body, nil)

	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Empty(t, repo.accounts)
}

func TestSignup_Duplicate(t *testing.T) {
	app, _, _ := newTestApp(t)
	require.Equal(t, http.StatusCreated, doJSON(app, http.MethodPost, "/api/signup", signupBody, nil).Code)

	response := doJSON(app, http.MethodPost, "/api/signup", signupBody, nil)
	assert.Equal(t, http.StatusConflict, response.Code)
}

func TestRequestRecovery_UnknownIdentifier(t *testing.T) {
	app, _, _ := newTestApp(t)

	response := doJSON(app, http.MethodPost, "/api/password/forgot", `{"identifier": "unknown@example.com"}`, nil)
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestRequestRecovery_DispatchFailureStaysOutOfBody(t *testing.T) {
	repo := newMemoryRepo()
	sender := &silentSender{}
	svc := service.NewAccountService(
		repo,
		sender,
		sender,
		plainHasher{},
		nil,
		service.RealClock{},
		service.AccountConfig{RecoveryTTL: 15 * time.Minute},
	)
	require.NoError(t, svc.Signup(context.Background(), service.SignupInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "a@example.com",
		Password:        "OldPass1!",
		ConfirmPassword: "OldPass1!",
	}))
	sender.fail = true

	h := handler.NewAccountHandler(svc, validator.New())
	request := httptest.NewRequest(http.MethodPost, "/api/password/forgot", strings.NewReader(`{"identifier": "a@example.com"}`))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()

	err := h.RequestRecovery(echo.New().NewContext(request, recorder))

	// the wrapped provider cause is handed back for the request logger,
	// while the response body carries only the sentinel
	require.ErrorIs(t, err, service.ErrNotificationFailure)
	assert.Contains(t, err.Error(), "provider down")
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "provider down")
}

func TestCompleteRecovery_InvalidCode(t *testing.T) {
	app, _, _ := newTestApp(t)
	require.Equal(t, http.StatusCreated, doJSON(app, http.MethodPost, "/api/signup", signupBody, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(app, http.MethodPost, "/api/password/forgot", `{"identifier": "a@example.com"}`, nil).Code)

	response := doJSON(app, http.MethodPost, "/api/password/reset", `{
		"identifier": "a@example.com",
		"code": "wrong-code",
		"new_password": "NewPass1!",
		"confirm_password": "NewPass1!"
	}`, nil)
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestLogin_StatusMapping(t *testing.T) {
	app, _, sender := newTestApp(t)
	require.Equal(t, http.StatusCreated, doJSON(app, http.MethodPost, "/api/signup", signupBody, nil).Code)

	// unverified account
	response := doJSON(app, http.MethodPost, "/api/login", `{"identifier": "a@example.com", "password": "OldPass1!"}`, nil)
	assert.Equal(t, http.StatusForbidden, response.Code)

	verify := doJSON(app, http.MethodPost, "/api/verify", `{"identifier": "a@example.com", "code": "`+sender.lastSecret+`"}`, nil)
	require.Equal(t, http.StatusOK, verify.Code)
	assert.Contains(t, verify.Body.String(), "investor_id")

	response = doJSON(app, http.MethodPost, "/api/login", `{"identifier": "a@example.com", "password": "wrongpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)

	response = doJSON(app, http.MethodPost, "/api/login", `{"identifier": "missing@example.com", "password": "OldPass1!"}`, nil)
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = doJSON(app, http.MethodPost, "/api/login", `{"identifier": "a@example.com", "password": "OldPass1!"}`, nil)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "access_token")
}

func TestMe_RequiresAuth(t *testing.T) {
	app, _, sender := newTestApp(t)
	require.Equal(t, http.StatusCreated, doJSON(app, http.MethodPost, "/api/signup", signupBody, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(app, http.MethodPost, "/api/verify", `{"identifier": "a@example.com", "code": "`+sender.lastSecret+`"}`, nil).Code)

	response := doJSON(app, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)

	login := doJSON(app, http.MethodPost, "/api/login", `{"identifier": "a@example.com", "password": "OldPass1!"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)

	var loginResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	response = doJSON(app, http.MethodGet, "/api/me", "", map[string]string{
		"Authorization": "Bearer " + loginResponse.AccessToken,
	})
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "a@example.com")
}
