package store

import (
	"context"
	"errors"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	"gorm.io/gorm"
)

// ErrEmailTaken reports a signup against an email that already has an
// account.
var ErrEmailTaken = errors.New("email already registered")

// Accounts is the write side of account records that is not balance
// mutation: creation, PIN updates. Balances only change through the
// transfer transaction in LedgerStore.
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

func (a *Accounts) Create(ctx context.Context, acc *models.Account) error {
	err := a.db.WithContext(ctx).Create(acc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (a *Accounts) ByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *Accounts) SetPINHash(ctx context.Context, id, pinHash string) error {
	return a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("pin_hash", pinHash).Error
}
