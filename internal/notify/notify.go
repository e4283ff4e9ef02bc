package notify

import (
	"context"
	"fmt"

	"github.com/rakibul966222/Rakib-pay/internal/feed"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Alert is the local "money received" notification shown to the recipient.
type Alert struct {
	Title         string          `json:"title"`
	Body          string          `json:"body"`
	TransactionID string          `json:"transactionId"`
	FromName      string          `json:"fromName"`
	Amount        decimal.Decimal `json:"amount"`
}

// Alerter delivers an alert to whatever the account holder is looking at.
// Delivery is best effort.
type Alerter interface {
	Alert(accountID string, alert Alert) error
}

// Hook watches a transaction feed and fires an alert for every transaction
// that newly appears with the account as recipient. The pre-existing
// history delivered on first load never triggers alerts. Alert failures are
// logged and dropped; they must never reach the transfer engine or the
// feed.
type Hook struct {
	accountID string
	alerts    Alerter
	log       *zap.Logger

	seen   map[string]struct{}
	loaded bool
}

func NewHook(accountID string, alerts Alerter, log *zap.Logger) *Hook {
	return &Hook{
		accountID: accountID,
		alerts:    alerts,
		log:       log,
		seen:      make(map[string]struct{}),
	}
}

// Observe diffs a feed snapshot against everything seen so far and alerts
// on new incoming transactions.
func (h *Hook) Observe(txs []models.Transaction) {
	if !h.loaded {
		for _, txn := range txs {
			h.seen[txn.ID] = struct{}{}
		}
		h.loaded = true
		return
	}

	for _, txn := range txs {
		if _, ok := h.seen[txn.ID]; ok {
			continue
		}
		h.seen[txn.ID] = struct{}{}
		if txn.ToID != h.accountID {
			continue
		}
		alert := Alert{
			Title:         "Money received",
			Body:          fmt.Sprintf("You received $%s from %s", txn.Amount.StringFixed(2), txn.FromName),
			TransactionID: txn.ID,
			FromName:      txn.FromName,
			Amount:        txn.Amount,
		}
		if err := h.alerts.Alert(h.accountID, alert); err != nil {
			h.log.Warn("alert delivery failed",
				zap.String("account_id", h.accountID),
				zap.String("transaction_id", txn.ID),
				zap.Error(err))
		}
	}
}

// Run consumes a subscription until it closes or ctx is done, passing every
// snapshot through Observe.
func (h *Hook) Run(ctx context.Context, sub *feed.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			h.Observe(snapshot)
		}
	}
}
