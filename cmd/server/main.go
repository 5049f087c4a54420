package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tradeflow/internal/api"
	"tradeflow/internal/auth"
	"tradeflow/internal/config"
	"tradeflow/internal/logger"
	"tradeflow/internal/store"
	"tradeflow/internal/store/supabase"
)

func main() {
	// Load configuration. Validation happens inside LoadConfig, so missing
	// or placeholder store credentials stop the process right here.
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded", zap.String("driver", cfg.Database.Driver))

	// Select the backing store
	var st store.Store
	switch cfg.Database.Driver {
	case "supabase":
		st = supabase.NewClient(&cfg.Supabase, log)
	default:
		sqliteStore, err := store.NewSQLiteStore(cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to open database", zap.Error(err))
		}
		st = sqliteStore
	}

	// An unreachable store is not fatal: the dashboard starts in degraded
	// mode and read endpoints serve empty results until it recovers.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	degraded := false
	if err := st.Ping(pingCtx); err != nil {
		log.Warn("Backing store unreachable, starting in degraded mode", zap.Error(err))
		degraded = true
	} else {
		log.Info("Backing store connection successful")
	}
	cancelPing()

	sessions := auth.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLMinutes)*time.Minute)

	handler := api.NewHandler(log, st, sessions, cfg.Database.Driver, degraded)
	server := api.NewServer(cfg.Server.Port, handler, log)
	server.Start()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server cleanly", zap.Error(err))
	}

	log.Info("Server has been shut down.")
}
