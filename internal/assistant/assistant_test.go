package assistant

import (
	"strings"
	"testing"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	account := models.Account{
		ID:      "acc-1",
		Email:   "alice@test.com",
		Balance: decimal.RequireFromString("700"),
	}
	recent := []models.Transaction{
		{FromID: "acc-1", ToID: "acc-2", Amount: decimal.RequireFromString("300")},
		{FromID: "acc-1", ToID: "acc-3", Amount: decimal.RequireFromString("12.50")},
		{FromID: "acc-2", ToID: "acc-1", Amount: decimal.RequireFromString("40")},
	}

	got := Summarize(account, recent)
	require.Equal(t,
		"Current balance: $700.00. Over the last 3 transactions: sent $312.50 across 2 transfers, received $40.00 across 1 transfers.",
		got)

	// The prompt must never leak identifiers or contact details.
	require.NotContains(t, got, "acc-1")
	require.NotContains(t, got, "alice@test.com")
}

func TestSummarizeEmptyHistory(t *testing.T) {
	account := models.Account{ID: "acc-1", Balance: decimal.RequireFromString("1000")}
	got := Summarize(account, nil)
	require.True(t, strings.HasPrefix(got, "Current balance: $1000.00."), got)
	require.Contains(t, got, "last 0 transactions")
}
