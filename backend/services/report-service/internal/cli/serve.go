package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fcreport/backend/libs/logging"
	"fcreport/backend/services/report-service/internal/app"
	"fcreport/backend/services/report-service/internal/service"
)

type ServeCmd struct {
	load configLoader
}

func NewServeCmd(load configLoader) *cobra.Command {
	sc := &ServeCmd{load: load}
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report HTTP service",
		RunE:  sc.run,
	}
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := sc.load()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return err
	}
	defer logger.Sync() // best-effort flush

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped with error", zap.Error(err))
		return err
	}
	return nil
}

type TokenCmd struct {
	subject string
	role    string
	load    configLoader
}

func NewTokenCmd(load configLoader) *cobra.Command {
	tc := &TokenCmd{load: load}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the report API",
		RunE:  tc.run,
	}
	cmd.Flags().StringVar(&tc.subject, "subject", "", "Operator name recorded as requested_by")
	cmd.Flags().StringVar(&tc.role, "role", "", "Optional role claim")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func (tc *TokenCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := tc.load()
	if err != nil {
		return err
	}
	if !cfg.AuthEnabled() {
		return errors.New("jwt secret is not configured")
	}
	token, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration()).GenerateToken(tc.subject, tc.role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
