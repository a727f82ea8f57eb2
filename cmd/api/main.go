package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	httpadp "invofin-backend/internal/adapter/http"
	"invofin-backend/internal/adapter/middleware"
	"invofin-backend/internal/adapter/notifier"
	"invofin-backend/internal/adapter/repository/mysql"
	"invofin-backend/internal/config"
	invoiceDomain "invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/infrastructure/cache"
	"invofin-backend/internal/infrastructure/db"
	"invofin-backend/internal/usecase/fraud"
	fundingUC "invofin-backend/internal/usecase/funding"
	invoiceUC "invofin-backend/internal/usecase/invoice"
	walletUC "invofin-backend/internal/usecase/wallet"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "invofin-api").Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	if err := db.AutoMigrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	invoices := mysql.NewInvoiceRepository(gdb)
	wallets := mysql.NewWalletRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	machine := invoiceDomain.NewMachine(cfg.RiskAutoListThreshold)
	detector := fraud.NewDetector(invoices, log)

	hub := notifier.NewHub(rdb, log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	hub.Start(ctx)

	invoiceUsecase := invoiceUC.NewUsecase(invoices, machine, detector, hub, log)
	fundingUsecase := fundingUC.NewUsecase(uow, machine, hub, log)
	walletUsecase := walletUC.NewUsecase(wallets)

	h := httpadp.NewHandler()
	invoiceHandler := httpadp.NewInvoiceHandler(invoiceUsecase)
	fundingHandler := httpadp.NewFundingHandler(fundingUsecase)
	walletHandler := httpadp.NewWalletHandler(walletUsecase)
	eventsHandler := httpadp.NewEventsHandler(hub)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log)

	api := e.Group("/api/v1", middleware.RequireIdentity())
	api.POST("/invoices", invoiceHandler.Create, idemp)
	api.GET("/invoices", invoiceHandler.ListMine)
	api.GET("/invoices/:invoice_id", invoiceHandler.Get)
	api.POST("/invoices/:invoice_id/confirm", invoiceHandler.Confirm, idemp)
	api.POST("/invoices/:invoice_id/reject", invoiceHandler.Reject, idemp)
	api.POST("/invoices/:invoice_id/cancel", invoiceHandler.Cancel, idemp)
	api.POST("/invoices/:invoice_id/default", fundingHandler.MarkDefaulted, idemp)

	api.GET("/marketplace", invoiceHandler.Marketplace)
	api.POST("/invoices/:invoice_id/fund", fundingHandler.Fund, idemp)
	api.POST("/invoices/:invoice_id/repay", fundingHandler.Repay, idemp)
	api.GET("/portfolio", fundingHandler.Portfolio)

	api.GET("/wallet", walletHandler.Get)
	api.POST("/wallet/deposit", walletHandler.Deposit, idemp)

	api.GET("/events", eventsHandler.Stream)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	hub.Close()
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
