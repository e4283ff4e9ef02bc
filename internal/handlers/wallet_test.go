package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rakibul966222/Rakib-pay/internal/directory"
	"github.com/rakibul966222/Rakib-pay/internal/httputil"
	"github.com/rakibul966222/Rakib-pay/internal/ledger"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/stretchr/testify/require"
)

func TestWriteTransferErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid amount"},
		{directory.ErrSelfTransfer, http.StatusBadRequest, "you cannot send money to yourself"},
		{directory.ErrAccountNotFound, http.StatusNotFound, "user not found"},
		{ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient balance"},
		{ledger.ErrAccountVanished, http.StatusGone, "account no longer exists"},
		{ledger.ErrTransferConflict, http.StatusConflict, "transfer conflicted with concurrent activity, please try again"},
		{ledger.ErrTransferTimeout, http.StatusGatewayTimeout, "transfer did not complete in time; check your history before retrying"},
		{directory.ErrDirectoryUnavailable, http.StatusServiceUnavailable, "account directory is unavailable, please try again later"},
		{errors.New("broken pipe"), http.StatusInternalServerError, "transfer failed"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeTransferError(rec, tc.err)

		require.Equal(t, tc.wantStatus, rec.Code, "error %v", tc.err)
		var body httputil.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, tc.wantMsg, body.Error, "error %v", tc.err)
	}
}

func TestWriteTransferErrorUnwrapsCauses(t *testing.T) {
	rec := httptest.NewRecorder()
	writeTransferError(rec, errors.Join(errors.New("deadlock detected"), ledger.ErrTransferConflict))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestFilterTransactionsByDirection(t *testing.T) {
	txs := []models.Transaction{
		{ID: "t1", FromID: "a", ToID: "b"},
		{ID: "t2", FromID: "b", ToID: "a"},
		{ID: "t3", FromID: "a", ToID: "c"},
	}

	sent := filterTransactions(append([]models.Transaction(nil), txs...),
		func(t models.Transaction) bool { return t.FromID == "a" })
	require.Len(t, sent, 2)
	require.Equal(t, "t1", sent[0].ID)
	require.Equal(t, "t3", sent[1].ID)

	received := filterTransactions(append([]models.Transaction(nil), txs...),
		func(t models.Transaction) bool { return t.ToID == "a" })
	require.Len(t, received, 1)
	require.Equal(t, "t2", received[0].ID)
}
