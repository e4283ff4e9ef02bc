package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rakibul966222/Rakib-pay/internal/ledger"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres SQLSTATEs that mean the unit lost a race and is safe to rerun.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// LedgerStore backs the transfer engine with Postgres transactions. Row
// locks on the two account rows make the read-then-write consistent under
// concurrent transfers.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InTransaction(ctx context.Context, fn func(tx ledger.Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
	return translateConflict(err)
}

// ListByParticipant returns transactions where accountID is either
// endpoint, newest first, ties broken by id. limit <= 0 means no cap.
func (s *LedgerStore) ListByParticipant(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).
		Where("from_id = ? OR to_id = ?", accountID, accountID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

type ledgerTx struct {
	tx *gorm.DB
}

func (t *ledgerTx) AccountForUpdate(id string) (*models.Account, error) {
	var acc models.Account
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountVanished
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (t *ledgerTx) Account(id string) (*models.Account, bool, error) {
	var acc models.Account
	err := t.tx.Where("id = ?", id).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &acc, true, nil
}

func (t *ledgerTx) TransactionByAttemptID(attemptID string) (*models.Transaction, bool, error) {
	var txn models.Transaction
	err := t.tx.Where("attempt_id = ?", attemptID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &txn, true, nil
}

func (t *ledgerTx) SaveBalance(accountID string, balance decimal.Decimal) error {
	return t.tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", balance).Error
}

func (t *ledgerTx) InsertTransaction(txn *models.Transaction) error {
	return t.tx.Create(txn).Error
}

func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	// Two racers with the same attempt id: the loser reruns and lands on
	// the replay path.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ledger.ErrTransferConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected:
			return ledger.ErrTransferConflict
		}
	}
	return err
}
