package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rakibul966222/Rakib-pay/internal/handlers"
	appmw "github.com/rakibul966222/Rakib-pay/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(auth *handlers.AuthHandler, wallet *handlers.WalletHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/auth/signup", auth.Signup)
	r.Post("/auth/login", auth.Login)
	r.With(appmw.Authenticated).Get("/auth/me", auth.Me)
	r.With(appmw.Authenticated).Post("/auth/pin", auth.SetPIN)
	r.With(appmw.Authenticated).Post("/auth/pin/verify", auth.VerifyPIN)

	r.With(appmw.Authenticated).Get("/recipients", wallet.SearchRecipient)
	r.With(appmw.Authenticated).Post("/transfers", wallet.SendTransfer)
	r.With(appmw.Authenticated).Get("/transactions", wallet.Transactions)
	r.With(appmw.Authenticated).Get("/transactions/watch", wallet.WatchTransactions)
	r.With(appmw.Authenticated).Get("/insight", wallet.Insight)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
