package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one wallet holder. Balance is mutated exclusively by the
// transfer engine and must never go negative.
type Account struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"size:50;not null" json:"name"`
	Email     string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string          `gorm:"size:255" json:"-"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"balance"`
	KYCStatus string          `gorm:"size:16;not null;default:unverified" json:"kycStatus"`
	PINHash   string          `gorm:"size:255" json:"-"`
	Phone     string          `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Transaction is an append-only record of one completed transfer. FromName
// and ToName are captured at transfer time and intentionally keep their old
// values if an account is renamed later.
type Transaction struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID string          `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	FromID    string          `gorm:"type:uuid;index;not null" json:"from"`
	ToID      string          `gorm:"type:uuid;index;not null" json:"to"`
	FromName  string          `gorm:"size:50;not null" json:"fromName"`
	ToName    string          `gorm:"size:50;not null" json:"toName"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Charge    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"charge"`
	Type      string          `gorm:"size:16;not null" json:"type"`
	Category  string          `gorm:"size:32" json:"category,omitempty"`
	Note      string          `gorm:"size:500" json:"note,omitempty"`
	Timestamp time.Time       `gorm:"index;not null" json:"timestamp"`
}

// Participants returns both endpoints of the transfer.
func (t Transaction) Participants() [2]string {
	return [2]string{t.FromID, t.ToID}
}

// Involves reports whether accountID is either endpoint.
func (t Transaction) Involves(accountID string) bool {
	return t.FromID == accountID || t.ToID == accountID
}
