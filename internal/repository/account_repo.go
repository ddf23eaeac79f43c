package repository

import (
	"context"
	"errors"
	"time"

	"realvest/internal/entity"
	"realvest/internal/identity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateIdentity is returned by Create when the email or phone number
// already belongs to another account.
var ErrDuplicateIdentity = errors.New("identity key already registered")

type AccountRepository interface {
	Create(ctx context.Context, account *entity.UserAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserAccount, error)
	FindByIdentifier(ctx context.Context, id identity.Identifier) (*entity.UserAccount, error)

	// SetRecovery stores a fresh (secret, expiry) pair on the account,
	// overwriting whatever pair was live before. Exactly one of token and
	// code is non-nil.
	SetRecovery(ctx context.Context, accountID uuid.UUID, token *string, code *string, expiry time.Time) error

	// ResetCredential replaces the password hash and clears the recovery
	// columns in one statement.
	ResetCredential(ctx context.Context, accountID uuid.UUID, passwordHash string) error

	ClearRecovery(ctx context.Context, accountID uuid.UUID) error

	// MarkVerified stamps the channel's verified flag, clears the consumed
	// recovery columns and, when investorID is non-nil, assigns the public
	// identifier, all in one statement.
	MarkVerified(ctx context.Context, accountID uuid.UUID, channel identity.Channel, at time.Time, investorID *string) error

	// InTx runs fn against a repository bound to one transaction. Lookups
	// inside fn take a row lock, so read-validate-write sequences on a
	// single account cannot interleave with other writers.
	InTx(ctx context.Context, fn func(AccountRepository) error) error
}

type accountRepository struct {
	db     *gorm.DB
	locked bool
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.UserAccount) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateIdentity
	}
	return err
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserAccount, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *accountRepository) FindByIdentifier(ctx context.Context, id identity.Identifier) (*entity.UserAccount, error) {
	switch id.Channel() {
	case identity.ChannelPhone:
		return r.findOne(ctx, "phone_number = ?", id.Value())
	default:
		return r.findOne(ctx, "email = ?", id.Value())
	}
}

func (r *accountRepository) findOne(ctx context.Context, query string, arg any) (*entity.UserAccount, error) {
	var account entity.UserAccount
	tx := r.db.WithContext(ctx)
	if r.locked {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := tx.Where(query, arg).First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) SetRecovery(
	ctx context.Context,
	accountID uuid.UUID,
	token *string,
	code *string,
	expiry time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"recovery_token":  token,
			"recovery_code":   code,
			"recovery_expiry": &expiry,
		}).
		Error
}

func (r *accountRepository) ResetCredential(ctx context.Context, accountID uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"password_hash":   passwordHash,
			"recovery_token":  nil,
			"recovery_code":   nil,
			"recovery_expiry": nil,
		}).
		Error
}

func (r *accountRepository) ClearRecovery(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"recovery_token":  nil,
			"recovery_code":   nil,
			"recovery_expiry": nil,
		}).
		Error
}

func (r *accountRepository) MarkVerified(
	ctx context.Context,
	accountID uuid.UUID,
	channel identity.Channel,
	at time.Time,
	investorID *string,
) error {
	updates := map[string]any{
		"recovery_token":  nil,
		"recovery_code":   nil,
		"recovery_expiry": nil,
	}
	if channel == identity.ChannelPhone {
		updates["phone_verified_at"] = &at
	} else {
		updates["email_verified_at"] = &at
	}
	if investorID != nil {
		updates["investor_id"] = investorID
	}
	return r.db.WithContext(ctx).
		Model(&entity.UserAccount{}).
		Where("id = ?", accountID).
		Updates(updates).
		Error
}

func (r *accountRepository) InTx(ctx context.Context, fn func(AccountRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&accountRepository{db: tx, locked: true})
	})
}
