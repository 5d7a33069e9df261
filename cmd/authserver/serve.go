// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
	accountpg "github.com/conquestteam/mmorpg-auth-server/internal/account/postgres"
	"github.com/conquestteam/mmorpg-auth-server/internal/config"
	"github.com/conquestteam/mmorpg-auth-server/internal/game"
	gamepg "github.com/conquestteam/mmorpg-auth-server/internal/game/postgres"
	"github.com/conquestteam/mmorpg-auth-server/internal/logging"
	"github.com/conquestteam/mmorpg-auth-server/internal/mail"
	"github.com/conquestteam/mmorpg-auth-server/internal/observability"
	"github.com/conquestteam/mmorpg-auth-server/internal/store"
	"github.com/conquestteam/mmorpg-auth-server/internal/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the account server",
		Long: `Start the HTTP server that handles registration, confirmation,
login, character saves, and world chat.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	// Flag names match config file keys so they layer cleanly.
	cmd.Flags().String("listen_addr", ":3000", "HTTP listen address")
	cmd.Flags().String("metrics_addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("confirm_url", "http://localhost:3000", "external base URL for confirmation links")
	cmd.Flags().String("log_format", "text", "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault("authserver", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting account server",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
	)

	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}

	// The pool is acquired once at startup. If the database is unreachable
	// the process exits; there is no retry loop.
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("connected to database")

	var notifier account.Notifier
	if cfg.MailEnabled() {
		smtp, err := mail.NewSMTPNotifier(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return err
		}
		notifier = smtp
	} else {
		logger.Warn("SMTP not configured, confirmation links will only be logged")
		notifier = mail.NewNoopNotifier(logger)
	}

	accountSvc, err := account.NewServiceWithLogger(
		accountpg.NewCredentialRepository(pool),
		accountpg.NewConfirmationTokenRepository(pool),
		accountpg.NewTransactor(pool),
		account.NewArgon2idHasher(account.DefaultArgon2Params()),
		notifier,
		cfg.ConfirmURL,
		logger,
	)
	if err != nil {
		return err
	}

	gameSvc, err := game.NewService(
		gamepg.NewCharacterRepository(pool),
		gamepg.NewChatRepository(pool),
	)
	if err != nil {
		return err
	}

	webServer, err := web.NewServer(cfg.ListenAddr, accountSvc, gameSvc, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	webErrCh, err := webServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		// Ready once the pool and listener are up.
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			return pool.Ping(ctx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if stopErr := webServer.Stop(shutdownCtx); stopErr != nil {
				logger.Warn("failed to stop web server during cleanup", "error", stopErr)
			}
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("account server ready", "addr", webServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping web server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches a server's error channel and cancels the
// context on failure so the whole process shuts down.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
