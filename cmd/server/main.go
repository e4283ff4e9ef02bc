package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rakibul966222/Rakib-pay/configs"
	"github.com/rakibul966222/Rakib-pay/internal/assistant"
	"github.com/rakibul966222/Rakib-pay/internal/directory"
	"github.com/rakibul966222/Rakib-pay/internal/feed"
	"github.com/rakibul966222/Rakib-pay/internal/handlers"
	"github.com/rakibul966222/Rakib-pay/internal/ledger"
	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/rakibul966222/Rakib-pay/internal/routes"
	"github.com/rakibul966222/Rakib-pay/internal/seed"
	"github.com/rakibul966222/Rakib-pay/internal/store"
	"github.com/rakibul966222/Rakib-pay/internal/ws"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()
	seed.Run()

	accounts := store.NewAccounts(store.DB)
	ledgerStore := store.NewLedgerStore(store.DB)
	dir := directory.New(store.DB)

	feedHub := feed.New(ledgerStore, logger.Log)
	wsHub := ws.NewHub(logger.Log)

	engine := ledger.New(ledgerStore, feedHub, logger.Log, ledger.Options{
		MaxRetries:     configs.AppConfig.Wallet.TransferRetries,
		AttemptTimeout: time.Duration(configs.AppConfig.Wallet.TransferTimeout) * time.Second,
	})

	var insights assistant.Insights
	if configs.AppConfig.OpenAI.APIKey != "" {
		insights = assistant.NewOpenAI(configs.AppConfig.OpenAI.APIKey, configs.AppConfig.OpenAI.Model)
	} else {
		logger.Log.Info("assistant disabled, no openai api key configured")
	}

	authHandler := &handlers.AuthHandler{Accounts: accounts, Directory: dir}
	walletHandler := &handlers.WalletHandler{
		Directory: dir,
		Engine:    engine,
		Ledger:    ledgerStore,
		Feed:      feedHub,
		Hub:       wsHub,
		Insights:  insights,
	}

	router := routes.NewRoutes(authHandler, walletHandler)

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
