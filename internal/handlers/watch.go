package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rakibul966222/Rakib-pay/internal/httputil"
	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/rakibul966222/Rakib-pay/internal/middleware"
	"github.com/rakibul966222/Rakib-pay/internal/notify"
	"github.com/rakibul966222/Rakib-pay/internal/ws"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WatchTransactions streams the live transaction feed for the
// authenticated account over a websocket: the full current set right away,
// then an updated set after every new transfer touching the account, plus
// "money received" alerts for incoming ones. Closing the socket cancels
// the subscription.
func (h *WalletHandler) WatchTransactions(w http.ResponseWriter, r *http.Request) {
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

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub, err := h.Feed.Subscribe(r.Context(), accountID, limit)
	if err != nil {
		logger.Log.Error("feed subscription failed",
			zap.String("account_id", accountID), zap.Error(err))
		conn.Close()
		return
	}

	h.Hub.Register(accountID, conn)
	defer func() {
		sub.Close()
		h.Hub.Unregister(accountID, conn)
	}()

	hook := notify.NewHook(accountID, h.Hub, logger.Log)

	// Reader goroutine: its only job is noticing the peer going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			hook.Observe(snapshot)
			if err := h.Hub.SendTo(conn, ws.Envelope{Type: "transactions", Data: snapshot}); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
