package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ncobase/shopauth/config"
	"github.com/ncobase/shopauth/data"
	"github.com/ncobase/shopauth/data/repository"
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/messaging/email"
	"github.com/ncobase/shopauth/router"
	"github.com/ncobase/shopauth/service"
	"github.com/ncobase/shopauth/storage"
	"github.com/ncobase/shopauth/version"
)

// NewServeCommand runs the HTTP API.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	return cmd
}

func serve(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	cleanup, err := logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()
	logger.SetVersion(version.GetVersionInfo().Version)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	d, err := data.New(cfg.Data.Driver, cfg.Data.Source)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer d.Close()

	userRepo, err := repository.NewUserRepository(d.DB(), d.Driver())
	if err != nil {
		return fmt.Errorf("failed to prepare user repository: %w", err)
	}

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	sender := newSender(cfg)

	svc := service.NewFromConfig(cfg, userRepo, store, sender)
	engine := router.New(cfg, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(context.Background(), "listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Infof(context.Background(), "received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// newSender builds the outbound email sender. Welcome emails are optional;
// a missing or incomplete sender configuration only logs a warning.
func newSender(cfg *config.Config) email.Sender {
	if cfg.Email == nil || cfg.Email.Sender == nil || cfg.Email.Sender.Provider == "" {
		return nil
	}
	sender, err := email.NewSenderFromEmail(cfg.Email.Sender)
	if err != nil {
		logger.Warnf(context.Background(), "email sender disabled: %v", err)
		return nil
	}
	return sender
}
