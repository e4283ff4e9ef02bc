package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rakibul966222/Rakib-pay/internal/assistant"
	"github.com/rakibul966222/Rakib-pay/internal/directory"
	"github.com/rakibul966222/Rakib-pay/internal/feed"
	"github.com/rakibul966222/Rakib-pay/internal/httputil"
	"github.com/rakibul966222/Rakib-pay/internal/ledger"
	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/rakibul966222/Rakib-pay/internal/middleware"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/rakibul966222/Rakib-pay/internal/store"
	"github.com/rakibul966222/Rakib-pay/internal/ws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletHandler struct {
	Directory *directory.Directory
	Engine    *ledger.Engine
	Ledger    *store.LedgerStore
	Feed      *feed.Feed
	Hub       *ws.Hub
	Insights  assistant.Insights
}

// RecipientResponse is the public view of a matched recipient. It never
// exposes the balance.
type RecipientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SearchRecipient resolves a recipient by email for the send-money flow.
func (h *WalletHandler) SearchRecipient(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	acc, err := h.Directory.FindByEmail(r.Context(), email)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	if err := h.Directory.RejectIfSelf(accountID, acc); err != nil {
		writeTransferError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RecipientResponse{
		ID:    acc.ID,
		Name:  acc.Name,
		Email: acc.Email,
	})
}

type TransferRequest struct {
	RecipientID string      `json:"recipientId"`
	Amount      json.Number `json:"amount"`
	Note        string      `json:"note"`
	Category    string      `json:"category"`
}

type TransferResponse struct {
	Transaction      models.Transaction `json:"transaction"`
	SenderBalance    decimal.Decimal    `json:"senderBalance"`
	RecipientBalance decimal.Decimal    `json:"recipientBalance"`
}

// SendTransfer runs one atomic transfer. Clients may pass an
// Idempotency-Key header; resending with the same key after an ambiguous
// outcome returns the already committed transfer instead of applying a
// second one.
func (h *WalletHandler) SendTransfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RecipientID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "recipientId is required")
		return
	}

	amount, err := ledger.ParseAmount(req.Amount.String())
	if err != nil {
		writeTransferError(w, err)
		return
	}

	// Fail-fast pre-check against the sender's current stored balance.
	// The authoritative check happens again inside the atomic unit.
	sender, err := h.Directory.Get(r.Context(), accountID)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	if amount.GreaterThan(sender.Balance) {
		writeTransferError(w, ledger.ErrInsufficientFunds)
		return
	}

	res, err := h.Engine.Transfer(r.Context(), ledger.Request{
		SenderID:    accountID,
		RecipientID: req.RecipientID,
		Amount:      amount,
		Note:        req.Note,
		Category:    req.Category,
		AttemptID:   r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeTransferError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
		w.Header().Set("X-Idempotent-Replay", "true")
	}
	httputil.WriteJSON(w, status, TransferResponse{
		Transaction:      res.Transaction,
		SenderBalance:    res.SenderBalance,
		RecipientBalance: res.RecipientBalance,
	})
}

type TransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

// Transactions returns the participant-indexed history, newest first.
// direction=sent|received filters the fetched set in place; it is a pure
// predicate over from/to, not a separate query.
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	txs, err := h.Ledger.ListByParticipant(r.Context(), accountID, limit)
	if err != nil {
		logger.Log.Error("failed to fetch transactions", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	switch r.URL.Query().Get("direction") {
	case "sent":
		txs = filterTransactions(txs, func(t models.Transaction) bool { return t.FromID == accountID })
	case "received":
		txs = filterTransactions(txs, func(t models.Transaction) bool { return t.ToID == accountID })
	}

	httputil.WriteJSON(w, http.StatusOK, TransactionsResponse{Transactions: txs})
}

// Insight returns the assistant's spending-insight text for the account.
func (h *WalletHandler) Insight(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Insights == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	acc, err := h.Directory.Get(r.Context(), accountID)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	recent, err := h.Ledger.ListByParticipant(r.Context(), accountID, 20)
	if err != nil {
		logger.Log.Error("failed to fetch transactions", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	text, err := h.Insights.SpendingInsight(r.Context(), *acc, recent)
	if err != nil {
		logger.Log.Error("assistant request failed", zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, "assistant is unavailable right now")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func filterTransactions(txs []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	out := txs[:0]
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// writeTransferError maps every ledger/directory error to a distinct
// status and human-readable message. Timeouts are reported as unresolved,
// not as failures.
func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		httputil.WriteError(w, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, directory.ErrSelfTransfer):
		httputil.WriteError(w, http.StatusBadRequest, "you cannot send money to yourself")
	case errors.Is(err, directory.ErrAccountNotFound):
		httputil.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		httputil.WriteError(w, http.StatusUnprocessableEntity, "insufficient balance")
	case errors.Is(err, ledger.ErrAccountVanished):
		httputil.WriteError(w, http.StatusGone, "account no longer exists")
	case errors.Is(err, ledger.ErrTransferConflict):
		httputil.WriteError(w, http.StatusConflict, "transfer conflicted with concurrent activity, please try again")
	case errors.Is(err, ledger.ErrTransferTimeout):
		httputil.WriteError(w, http.StatusGatewayTimeout, "transfer did not complete in time; check your history before retrying")
	case errors.Is(err, directory.ErrDirectoryUnavailable):
		httputil.WriteError(w, http.StatusServiceUnavailable, "account directory is unavailable, please try again later")
	default:
		logger.Log.Error("transfer failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "transfer failed")
	}
}
