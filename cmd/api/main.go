package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"payledger/internal/auth"
	"payledger/internal/config"
	"payledger/internal/database"
	payledgerHttp "payledger/internal/http"
	txHandler "payledger/internal/http/transaction"
	userHandler "payledger/internal/http/user"
	"payledger/internal/metrics"
	"payledger/internal/transaction"
	txStore "payledger/internal/transaction/store"
	"payledger/internal/user"
	userStore "payledger/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		tokens = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		m      = metrics.New()

		users  = userStore.New(db)
		policy = transaction.NewThresholdPolicy(cfg.Policy.AuthorizationLimit)

		transactionService = transaction.NewService(txStore.New(db), users, policy)
		userService        = user.NewService(users, tokens)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, m)
		userH        = userHandler.NewHandler(userService, transactionService, m)
	)

	router := payledgerHttp.New(userH, transactionH, tokens, m.Handler())

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
