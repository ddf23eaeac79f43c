package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"realvest/internal/entity"
	"realvest/internal/identity"
	"realvest/internal/repository"

	"github.com/google/uuid"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// AccountService drives signup, login and the two-phase credential-recovery
// and channel-verification workflows over a single account row. Expiry of an
// issued code is enforced lazily, at the moment a submission is checked.
type AccountService struct {
	accounts repository.AccountRepository

	emailSender  NotificationSender
	phoneSender  NotificationSender
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	clock        Clock
	config       AccountConfig
}

func NewAccountService(
	accounts repository.AccountRepository,
	emailSender NotificationSender,
	phoneSender NotificationSender,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	clock Clock,
	config AccountConfig,
) *AccountService {
	return &AccountService{
		accounts:     accounts,
		emailSender:  emailSender,
		phoneSender:  phoneSender,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		clock:        clock,
		config:       config,
	}
}

func (s *AccountService) Signup(ctx context.Context, input SignupInput) error {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Password) == "" {
		return ErrInvalidInput
	}
	if input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	email := identity.NormalizeEmail(input.Email)
	phone := identity.NormalizePhone(input.PhoneNumber)

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return err
	}

	account := &entity.UserAccount{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Address:      strings.TrimSpace(input.Address),
		Email:        email,
		PasswordHash: hash,
	}
	if phone != "" {
		account.PhoneNumber = &phone
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			return ErrDuplicateIdentity
		}
		return err
	}

	return s.issueVerification(ctx, account, identity.ChannelEmail)
}

// RequestRecovery issues a fresh one-time secret for the account matching the
// identifier and dispatches it on the matching channel: an opaque reset token
// for email, a numeric code for phone. A previous pair, live or stale, is
// overwritten. The secret is persisted before dispatch; if dispatch fails the
// stored pair stays in place and the caller re-requests for a fresh one.
func (s *AccountService) RequestRecovery(ctx context.Context, rawIdentifier string) error {
	id, err := identity.Parse(rawIdentifier)
	if err != nil {
		return ErrInvalidInput
	}

	account, err := s.accounts.FindByIdentifier(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	var secret string
	var token, code *string
	if id.Channel() == identity.ChannelEmail {
		secret = GenerateRecoveryToken()
		token = &secret
	} else {
		secret, err = GenerateOTP()
		if err != nil {
			return err
		}
		code = &secret
	}

	ttl := s.recoveryTTL()
	expiry := s.now().Add(ttl)
	if err := s.accounts.SetRecovery(ctx, account.ID, token, code, expiry); err != nil {
		return err
	}

	if err := s.sender(id.Channel()).SendRecovery(ctx, account, secret, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailure, err)
	}
	return nil
}

// CompleteRecovery checks the submitted secret against the stored one and, on
// success, replaces the password hash and clears the recovery columns as one
// transaction. The stored pair is single-use: it is also cleared when found
// expired, so a later retry reports no active request rather than expired.
func (s *AccountService) CompleteRecovery(ctx context.Context, input CompleteRecoveryInput) error {
	id, err := identity.Parse(input.Identifier)
	if err != nil {
		return ErrInvalidInput
	}
	if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.NewPassword) == "" {
		return ErrInvalidInput
	}

	var accountID uuid.UUID
	err = s.accounts.InTx(ctx, func(tx repository.AccountRepository) error {
		account, err := tx.FindByIdentifier(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		accountID = account.ID
		if err := s.checkSubmission(account, input.Code); err != nil {
			return err
		}
		if input.NewPassword != input.ConfirmPassword {
			return ErrPasswordMismatch
		}

		hash, err := s.passwordHash.Hash(input.NewPassword)
		if err != nil {
			return err
		}
		return tx.ResetCredential(ctx, account.ID, hash)
	})
	s.clearIfExpired(ctx, err, accountID)
	return err
}

// VerifyChannel consumes a verification code and stamps the channel's
// verified flag. The verification that completes onboarding also assigns the
// immutable public investor id and triggers a best-effort welcome email.
func (s *AccountService) VerifyChannel(ctx context.Context, rawIdentifier string, submitted string) (*VerifyResult, error) {
	id, err := identity.Parse(rawIdentifier)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(submitted) == "" {
		return nil, ErrInvalidInput
	}

	var verified *entity.UserAccount
	var accountID uuid.UUID
	result := &VerifyResult{}
	err = s.accounts.InTx(ctx, func(tx repository.AccountRepository) error {
		account, err := tx.FindByIdentifier(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		accountID = account.ID
		if err := s.checkSubmission(account, submitted); err != nil {
			return err
		}

		now := s.now()
		var investorID *string
		if completesOnboarding(account, id.Channel(), now) && account.InvestorID == nil {
			value := GenerateInvestorID()
			investorID = &value
			result.InvestorID = value
		}
		if err := tx.MarkVerified(ctx, account.ID, id.Channel(), now, investorID); err != nil {
			return err
		}
		if id.Channel() == identity.ChannelPhone {
			account.PhoneVerifiedAt = &now
		} else {
			account.EmailVerifiedAt = &now
		}
		if investorID != nil {
			account.InvestorID = investorID
		}
		verified = account
		return nil
	})
	if err != nil {
		s.clearIfExpired(ctx, err, accountID)
		return nil, err
	}

	if result.InvestorID != "" && verified != nil {
		// best-effort; the verified flag is already committed
		_ = s.emailSender.SendWelcome(ctx, verified)
	}
	return result, nil
}

// RequestVerification re-issues a verification code for a channel that has
// not been confirmed yet, for when the signup-time code expired unseen.
func (s *AccountService) RequestVerification(ctx context.Context, rawIdentifier string) error {
	id, err := identity.Parse(rawIdentifier)
	if err != nil {
		return ErrInvalidInput
	}

	account, err := s.accounts.FindByIdentifier(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if channelVerifiedAt(account, id.Channel()) != nil {
		return ErrChannelVerified
	}

	return s.issueVerification(ctx, account, id.Channel())
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}
	id, err := identity.Parse(input.Identifier)
	if err != nil {
		return nil, ErrInvalidInput
	}

	account, err := s.accounts.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		return nil, ErrAccountNotFound
	}
	if !s.passwordHash.Verify(account.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}
	if channelVerifiedAt(account, id.Channel()) == nil {
		return nil, ErrChannelNotVerified
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(expiresIn.Seconds()),
	}, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*entity.UserAccount, error) {
	return s.accounts.FindByID(ctx, accountID)
}

// checkSubmission applies the shared validation order for consuming a stored
// secret: no active request, then expiry, then the constant-time code match.
func (s *AccountService) checkSubmission(account *entity.UserAccount, submitted string) error {
	if !account.HasActiveRecovery() {
		return ErrNoActiveRequest
	}
	if s.now().After(*account.RecoveryExpiry) {
		return ErrRecoveryExpired
	}
	if !SecretsEqual(submitted, account.RecoverySecret()) {
		return ErrInvalidRecoveryCode
	}
	return nil
}

// clearIfExpired enforces lazy expiry. The consuming transaction rolls back
// on ErrRecoveryExpired, so the stale pair is cleared in its own write; a
// retry then reports no active request.
func (s *AccountService) clearIfExpired(ctx context.Context, err error, accountID uuid.UUID) {
	if errors.Is(err, ErrRecoveryExpired) && accountID != uuid.Nil {
		_ = s.accounts.ClearRecovery(ctx, accountID)
	}
}

func (s *AccountService) issueVerification(ctx context.Context, account *entity.UserAccount, channel identity.Channel) error {
	code, err := GenerateOTP()
	if err != nil {
		return err
	}
	ttl := s.recoveryTTL()
	if err := s.accounts.SetRecovery(ctx, account.ID, nil, &code, s.now().Add(ttl)); err != nil {
		return err
	}
	if err := s.sender(channel).SendVerification(ctx, account, code, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailure, err)
	}
	return nil
}

func (s *AccountService) sender(channel identity.Channel) NotificationSender {
	if channel == identity.ChannelPhone {
		return s.phoneSender
	}
	return s.emailSender
}

func channelVerifiedAt(account *entity.UserAccount, channel identity.Channel) *time.Time {
	if channel == identity.ChannelPhone {
		return account.PhoneVerifiedAt
	}
	return account.EmailVerifiedAt
}

// completesOnboarding reports whether verifying the given channel is the
// final step for this account: with this channel stamped, onboarding is done.
func completesOnboarding(account *entity.UserAccount, channel identity.Channel, at time.Time) bool {
	pending := *account
	if channel == identity.ChannelPhone {
		pending.PhoneVerifiedAt = &at
	} else {
		pending.EmailVerifiedAt = &at
	}
	return pending.OnboardingComplete()
}

func (s *AccountService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AccountService) recoveryTTL() time.Duration {
	if s.config.RecoveryTTL > 0 {
		return s.config.RecoveryTTL
	}
	return 15 * time.Minute
}
