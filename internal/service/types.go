package service

import (
	"context"
	"time"

	"realvest/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AccountConfig struct {
	// RecoveryTTL bounds how long an issued recovery code or reset token
	// stays valid. Defaults to 15 minutes.
	RecoveryTTL time.Duration
}

// NotificationSender delivers one-time secrets out-of-band. The email and
// phone channels each provide an implementation; the workflow picks one from
// the identifier shape and only depends on the send succeeding.
type NotificationSender interface {
	SendRecovery(ctx context.Context, account *entity.UserAccount, secret string, ttl time.Duration) error
	SendVerification(ctx context.Context, account *entity.UserAccount, code string, ttl time.Duration) error
	SendWelcome(ctx context.Context, account *entity.UserAccount) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueAccessToken(account *entity.UserAccount) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
