package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/WorkflowDigitalltd/ac-crm/internal/config"
	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/handler"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/WorkflowDigitalltd/ac-crm/internal/server"
	"github.com/shopspring/decimal"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// GBP amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// repositories
	customerRepo := repository.CustomerRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	saleRepo := repository.SaleRepository{DB: pg}
	paymentRepo := repository.PaymentRepository{DB: pg}
	expenseRepo := repository.ExpenseRepository{DB: pg}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	customerHandler := handler.CustomerHandler{Repo: customerRepo}
	productHandler := handler.ProductHandler{Repo: productRepo}
	saleHandler := handler.SaleHandler{Repo: saleRepo}
	paymentHandler := handler.PaymentHandler{Repo: paymentRepo}
	expenseHandler := handler.ExpenseHandler{Repo: expenseRepo}

	router := server.NewRouter(cfg, logger, healthHandler, customerHandler, productHandler, saleHandler, paymentHandler, expenseHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
