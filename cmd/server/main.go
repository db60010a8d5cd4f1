package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passvault/internal/app/server/api"
	"passvault/internal/app/server/app"
	"passvault/internal/app/server/config"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migration.NewMigration(conf, nil).Up(); err != nil {
		log.Error("failed to apply migrations", logger.Err(err))
		os.Exit(1)
	}

	vault, err := app.New(ctx, conf, log)
	if err != nil {
		log.Error("failed to start vault", logger.Err(err))
		os.Exit(1)
	}
	defer vault.Close()

	if err := vault.CheckKeys(ctx, "startup"); err != nil {
		log.Error("key material check failed, vault operations will fail until it is fixed", logger.Err(err))
	}

	router := api.New(api.Services{
		Health:      vault.Storage,
		Users:       vault.Users,
		Sessions:    vault.Sessions,
		Credentials: vault.Credentials,
		Sharing:     vault.Sharing,
		Audit:       vault.Audit,
	}, api.Options{TrustProxyHeaders: conf.Server.TrustProxyHeaders}, log)

	srv := &http.Server{
		Addr:              conf.Server.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server started", "address", conf.Server.RunAddress, "driver", conf.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
	}
}
