package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/black12-ag/reconcile/internal/auth"
	"github.com/black12-ag/reconcile/internal/config"
	"github.com/black12-ag/reconcile/internal/database"
	reconcileHttp "github.com/black12-ag/reconcile/internal/http"
	authHandler "github.com/black12-ag/reconcile/internal/http/auth"
	paymentHandler "github.com/black12-ag/reconcile/internal/http/payment"
	reconHandler "github.com/black12-ag/reconcile/internal/http/reconcile"
	ruleHandler "github.com/black12-ag/reconcile/internal/http/rule"
	stmtHandler "github.com/black12-ag/reconcile/internal/http/statement"
	"github.com/black12-ag/reconcile/internal/importer"
	"github.com/black12-ag/reconcile/internal/payment"
	paymentStore "github.com/black12-ag/reconcile/internal/payment/store"
	"github.com/black12-ag/reconcile/internal/reconcile"
	reconStore "github.com/black12-ag/reconcile/internal/reconcile/store"
	"github.com/black12-ag/reconcile/internal/rule"
	ruleStore "github.com/black12-ag/reconcile/internal/rule/store"
	"github.com/black12-ag/reconcile/internal/statement"
	stmtStore "github.com/black12-ag/reconcile/internal/statement/store"
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
		statementService = statement.NewService(stmtStore.New(db))
		paymentService   = payment.NewService(paymentStore.New(db))
		ruleService      = rule.NewService(ruleStore.New(db))
		reconService     = reconcile.NewService(statementService, paymentService, reconStore.New(db), cfg.Reconcile.BestMatch)
		importService    = importer.NewService()
		authService      = auth.NewService(cfg.Auth.Secret, cfg.Auth.OperatorKey, cfg.Auth.TokenTTL)
	)

	var (
		authH      = authHandler.NewHandler(authService)
		statementH = stmtHandler.NewHandler(statementService, importService, reconService)
		reconH     = reconHandler.NewHandler(reconService)
		paymentH   = paymentHandler.NewHandler(paymentService)
		ruleH      = ruleHandler.NewHandler(ruleService)
	)

	router := reconcileHttp.New(authService, authH, statementH, reconH, paymentH, ruleH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
