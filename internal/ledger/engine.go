package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rakibul966222/Rakib-pay/internal/directory"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tx is one atomic unit of work against the account/transaction store.
// Implementations must guarantee that everything done through a Tx commits
// together or not at all, and that AccountForUpdate reads are isolated from
// concurrent transfers touching the same rows.
type Tx interface {
	// AccountForUpdate re-reads an account fresh, locked for the duration
	// of the unit. Returns ErrAccountVanished when the record is gone.
	AccountForUpdate(id string) (*models.Account, error)
	// Account reads an account without locking it. ok is false when the
	// record is gone.
	Account(id string) (acc *models.Account, ok bool, err error)
	// TransactionByAttemptID looks up a previously committed transfer for
	// idempotent replay. ok is false when no attempt with that id exists.
	TransactionByAttemptID(attemptID string) (txn *models.Transaction, ok bool, err error)
	SaveBalance(accountID string, balance decimal.Decimal) error
	InsertTransaction(txn *models.Transaction) error
}

// Store runs one atomic unit. A returned error means nothing was applied,
// except context.DeadlineExceeded, whose outcome is unknown.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Publisher receives every newly committed transaction. It must not block.
type Publisher interface {
	Publish(txn models.Transaction)
}

type Options struct {
	// MaxRetries bounds automatic retries on ErrTransferConflict.
	MaxRetries int
	// AttemptTimeout bounds a single atomic-unit attempt.
	AttemptTimeout time.Duration
}

// Engine executes atomic peer-to-peer transfers: debit sender, credit
// recipient, record the transaction, all-or-nothing. It holds no in-process
// lock; isolation comes from the store.
type Engine struct {
	store Store
	feed  Publisher
	log   *zap.Logger
	opts  Options
}

func New(store Store, feed Publisher, log *zap.Logger, opts Options) *Engine {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 10 * time.Second
	}
	return &Engine{store: store, feed: feed, log: log, opts: opts}
}

// Request describes one logical transfer attempt. AttemptID is the
// idempotency key: retrying with the same AttemptID after an ambiguous
// outcome can never double-apply. When empty, a fresh one is generated.
type Request struct {
	SenderID    string
	RecipientID string
	Amount      decimal.Decimal
	Note        string
	Category    string
	AttemptID   string
}

// Result carries the committed transaction and both updated balances, so
// the initiating flow sees its write without waiting for the feed.
type Result struct {
	Transaction      models.Transaction
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
	// Replayed is true when the attempt id matched an already committed
	// transfer and nothing new was applied.
	Replayed bool
}

// ParseAmount converts external amount input into the engine's fixed-point
// representation. Rejects non-numeric input, non-positive values, and
// sub-cent precision.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	// Trailing zeros are fine ("1.100"); an amount that loses value when
	// rounded to cents is not.
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Transfer runs the atomic unit, retrying a bounded number of times on
// conflict. On any error except ErrTransferTimeout, no balance changed and
// no transaction record exists.
func (e *Engine) Transfer(ctx context.Context, req Request) (*Result, error) {
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, ErrInvalidAmount
	}
	if req.SenderID == req.RecipientID {
		return nil, directory.ErrSelfTransfer
	}
	if req.AttemptID == "" {
		req.AttemptID = uuid.NewString()
	}

	var lastErr error
	for attempt := 0; attempt < e.opts.MaxRetries; attempt++ {
		res, err := e.attempt(ctx, req)
		if err == nil {
			if !res.Replayed {
				e.feed.Publish(res.Transaction)
			}
			return res, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, ErrTransferTimeout) {
			// Outcome unknown: the context died while the unit was in
			// flight and the commit may have landed. Do not auto-retry;
			// the caller reconciles via the feed and may resend with
			// the same attempt id.
			e.log.Warn("transfer attempt timed out",
				zap.String("attempt_id", req.AttemptID),
				zap.Int("attempt", attempt+1))
			return nil, ErrTransferTimeout
		}
		if !errors.Is(err, ErrTransferConflict) {
			return nil, err
		}
		lastErr = err
		e.log.Info("transfer conflict, retrying",
			zap.String("attempt_id", req.AttemptID),
			zap.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

func (e *Engine) attempt(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AttemptTimeout)
	defer cancel()

	var res Result
	err := e.store.InTransaction(ctx, func(tx Tx) error {
		if existing, ok, err := tx.TransactionByAttemptID(req.AttemptID); err != nil {
			return err
		} else if ok {
			return e.replay(tx, existing, &res)
		}

		// Lock both rows in a fixed order so overlapping transfers
		// serialize instead of deadlocking.
		accounts := make(map[string]*models.Account, 2)
		for _, id := range lockOrder(req.SenderID, req.RecipientID) {
			acc, err := tx.AccountForUpdate(id)
			if err != nil {
				return err
			}
			accounts[id] = acc
		}
		sender := accounts[req.SenderID]
		recipient := accounts[req.RecipientID]

		// Authoritative funds check against the fresh balance. The
		// caller's pre-check may have seen a stale one.
		newSenderBalance := sender.Balance.Sub(req.Amount)
		if newSenderBalance.IsNegative() {
			return ErrInsufficientFunds
		}
		newRecipientBalance := recipient.Balance.Add(req.Amount)

		if err := tx.SaveBalance(sender.ID, newSenderBalance); err != nil {
			return err
		}
		if err := tx.SaveBalance(recipient.ID, newRecipientBalance); err != nil {
			return err
		}

		txn := models.Transaction{
			ID:        uuid.NewString(),
			AttemptID: req.AttemptID,
			FromID:    sender.ID,
			ToID:      recipient.ID,
			FromName:  sender.Name,
			ToName:    recipient.Name,
			Amount:    req.Amount,
			Charge:    decimal.Zero,
			Type:      "send",
			Category:  req.Category,
			Note:      req.Note,
			Timestamp: time.Now().UTC(),
		}
		if err := tx.InsertTransaction(&txn); err != nil {
			return err
		}

		res = Result{
			Transaction:      txn,
			SenderBalance:    newSenderBalance,
			RecipientBalance: newRecipientBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// replay reproduces the result of an already committed attempt without
// applying anything. Balances are reported unlocked and best effort: the
// transfer itself succeeded, so an account vanishing afterwards must not
// turn the replay into an error.
func (e *Engine) replay(tx Tx, existing *models.Transaction, res *Result) error {
	*res = Result{
		Transaction: *existing,
		Replayed:    true,
	}
	if sender, ok, err := tx.Account(existing.FromID); err != nil {
		return err
	} else if ok {
		res.SenderBalance = sender.Balance
	}
	if recipient, ok, err := tx.Account(existing.ToID); err != nil {
		return err
	} else if ok {
		res.RecipientBalance = recipient.Balance
	}
	return nil
}

func lockOrder(a, b string) []string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids
}
