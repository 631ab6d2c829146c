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
	"golang.org/x/sync/errgroup"

	"github.com/kienmai98/Life/internal/auth"
	"github.com/kienmai98/Life/internal/config"
	"github.com/kienmai98/Life/internal/device"
	apphttp "github.com/kienmai98/Life/internal/http"
	"github.com/kienmai98/Life/internal/ledger"
	applog "github.com/kienmai98/Life/internal/log"
	"github.com/kienmai98/Life/internal/persist"
	"github.com/kienmai98/Life/internal/session"
	"github.com/kienmai98/Life/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     cfg.SlogLevel(),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open device store", applog.FieldError, err)
		os.Exit(1)
	}
	defer store.Close()

	mirror := persist.NewMirror(store)

	ldg := ledger.New(mirror)
	ldg.Restore(persist.LoadLedger(ctx, store))

	sess := session.New(mirror)
	sess.Restore(persist.LoadSession(ctx, store))

	provider := auth.NewProvider(store, cfg.AuthSecret, cfg.TokenTTL)

	// Startup auth check: a valid stored token re-establishes the user,
	// anything else resolves to logged out. Either way the loading flag
	// clears here.
	sess.SetUser(ctx, provider.CheckAuthState(ctx))

	vault, err := device.NewReceiptVault(cfg.ReceiptDir)
	if err != nil {
		logger.Error("Failed to prepare receipt storage", applog.FieldError, err)
		os.Exit(1)
	}

	var locator *device.Locator
	if cfg.LocationStatic != "" {
		src, err := device.ParseStaticSource(cfg.LocationStatic)
		if err != nil {
			logger.Warn("Ignoring invalid LIFE_LOCATION_STATIC", applog.FieldError, err)
		} else {
			locator = device.NewLocator(src, cfg.LocationTimeout, cfg.LocationMaxAge)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:  ldg,
		Session: sess,
		Auth:    provider,
		Locator: locator,
		Vault:   vault,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := mirror.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logger.Info("Starting server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
