package notify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/rakibul966222/Rakib-pay/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureAlerter struct {
	alerts []notify.Alert
	err    error
}

func (a *captureAlerter) Alert(_ string, alert notify.Alert) error {
	a.alerts = append(a.alerts, alert)
	return a.err
}

func incoming(id, from, fromName, to, amount string) models.Transaction {
	return models.Transaction{
		ID:        id,
		FromID:    from,
		FromName:  fromName,
		ToID:      to,
		Amount:    decimal.RequireFromString(amount),
		Type:      "send",
		Timestamp: time.Now().UTC(),
	}
}

func TestFirstSnapshotNeverAlerts(t *testing.T) {
	alerter := &captureAlerter{}
	hook := notify.NewHook("bob", alerter, zap.NewNop())

	hook.Observe([]models.Transaction{
		incoming("t1", "alice", "Alice", "bob", "300"),
		incoming("t2", "carol", "Carol", "bob", "50"),
	})
	require.Empty(t, alerter.alerts, "pre-existing history must not alert")

	// The same transactions reappearing later stay silent too.
	hook.Observe([]models.Transaction{
		incoming("t1", "alice", "Alice", "bob", "300"),
	})
	require.Empty(t, alerter.alerts)
}

func TestAlertsOnNewIncomingOnly(t *testing.T) {
	alerter := &captureAlerter{}
	hook := notify.NewHook("bob", alerter, zap.NewNop())

	hook.Observe(nil)

	hook.Observe([]models.Transaction{
		incoming("t1", "alice", "Alice", "bob", "300"),
		// Outgoing: bob is the sender, no alert.
		incoming("t2", "bob", "Bob", "alice", "20"),
	})

	require.Len(t, alerter.alerts, 1)
	alert := alerter.alerts[0]
	require.Equal(t, "Money received", alert.Title)
	require.Equal(t, "You received $300.00 from Alice", alert.Body)
	require.Equal(t, "t1", alert.TransactionID)
	require.Equal(t, "Alice", alert.FromName)
	require.True(t, alert.Amount.Equal(decimal.RequireFromString("300")))
}

func TestAlertOncePerTransaction(t *testing.T) {
	alerter := &captureAlerter{}
	hook := notify.NewHook("bob", alerter, zap.NewNop())

	hook.Observe(nil)
	snapshot := []models.Transaction{incoming("t1", "alice", "Alice", "bob", "10")}
	hook.Observe(snapshot)
	hook.Observe(snapshot)
	hook.Observe(snapshot)

	require.Len(t, alerter.alerts, 1)
}

func TestAlertFailureIsSwallowed(t *testing.T) {
	alerter := &captureAlerter{err: errors.New("socket gone")}
	hook := notify.NewHook("bob", alerter, zap.NewNop())

	hook.Observe(nil)
	require.NotPanics(t, func() {
		hook.Observe([]models.Transaction{incoming("t1", "alice", "Alice", "bob", "10")})
	})

	// A later delivery still goes through the alerter.
	alerter.err = nil
	hook.Observe([]models.Transaction{
		incoming("t1", "alice", "Alice", "bob", "10"),
		incoming("t2", "alice", "Alice", "bob", "15"),
	})
	require.Len(t, alerter.alerts, 2)
}
