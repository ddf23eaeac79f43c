package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserAccount is one investor identity plus its current recovery state. The
// recovery columns hold at most one live secret: an opaque reset token for the
// email channel or a short numeric code for the phone channel, both governed
// by the shared expiry.
type UserAccount struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// InvestorID is the immutable public identifier, assigned once when
	// onboarding verification completes.
	InvestorID *string `gorm:"type:varchar(20);uniqueIndex"`

	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Address   string `gorm:"type:text"`

	Email string `gorm:"type:varchar(255);uniqueIndex;not null"`

	// PhoneNumber is nil when the account has no phone on file. It must not
	// be stored as an empty string: the unique index would reject every
	// second phoneless account.
	PhoneNumber *string `gorm:"type:varchar(20);uniqueIndex"`

	PasswordHash string `gorm:"type:text;not null"`

	RecoveryToken  *string `gorm:"type:varchar(64)"`
	RecoveryCode   *string `gorm:"type:varchar(6)"`
	RecoveryExpiry *time.Time

	EmailVerifiedAt *time.Time
	PhoneVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveRecovery reports whether a recovery secret is on file at all;
// expiry is judged separately so the caller can tell the two cases apart.
func (u *UserAccount) HasActiveRecovery() bool {
	if u.RecoveryExpiry == nil {
		return false
	}
	return u.RecoveryToken != nil || u.RecoveryCode != nil
}

// RecoverySecret returns whichever recovery secret is currently stored.
func (u *UserAccount) RecoverySecret() string {
	if u.RecoveryToken != nil {
		return *u.RecoveryToken
	}
	if u.RecoveryCode != nil {
		return *u.RecoveryCode
	}
	return ""
}

// Phone returns the phone number, or the empty string when none is on file.
func (u *UserAccount) Phone() string {
	if u.PhoneNumber == nil {
		return ""
	}
	return *u.PhoneNumber
}

// OnboardingComplete reports whether every channel the account carries has
// been verified. Accounts without a phone number finish on email alone.
func (u *UserAccount) OnboardingComplete() bool {
	if u.EmailVerifiedAt == nil {
		return false
	}
	if u.PhoneNumber != nil && u.PhoneVerifiedAt == nil {
		return false
	}
	return true
}
