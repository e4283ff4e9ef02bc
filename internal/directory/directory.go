package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	"gorm.io/gorm"
)

// Directory is the read-only account lookup used by the send-money flow.
// It never mutates balances.
type Directory struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// FindByEmail resolves an account by email. Lookup is case-insensitive;
// email is a uniqueness key so at most one account can match.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	err := d.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return &acc, nil
}

// Get resolves an account by id.
func (d *Directory) Get(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return &acc, nil
}

// RejectIfSelf fails when the candidate recipient is the sender's own
// account.
func (d *Directory) RejectIfSelf(senderID string, candidate *models.Account) error {
	if candidate != nil && candidate.ID == senderID {
		return ErrSelfTransfer
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address. Emails are stored
// normalized, so lookups normalize their input too.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
