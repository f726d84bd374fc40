// Package cli holds the threaddit command tree.
package cli

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/config"
	"github.com/threaddit/backend/internal/interfaces/middleware"
	"github.com/threaddit/backend/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "threaddit",
	Short: "Threaddit forum backend",
	Long: `Threaddit serves the forum API and the compiled browser client.
Configuration comes from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", "", ".env file to load before the environment")

	rootCmd.AddCommand(serveCmd, migrateCmd, wipeCmd, ensureAdminCmd, forceLoginCmd)
	// bare invocation serves
	rootCmd.RunE = serveCmd.RunE
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	var paths []string
	if envFile != "" {
		paths = []string{envFile}
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.Env)
	return cfg, nil
}

// withApp loads configuration, builds the application context, runs fn and
// releases everything afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.For(ctx).WithError(err).Warn("closing application")
		}
	}()
	return fn(ctx, a)
}

func initSentry(cfg *config.Config) func() {
	if cfg.SentryDSN == "" || cfg.Env == config.EnvLocal {
		logger.Default().Info("skipping sentry init")
		return func() {}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		AttachStacktrace: true,
		BeforeSend:       middleware.ScrubSessionCookie,
	})
	if err != nil {
		logger.Default().WithError(err).Error("failed to start sentry")
		return func() {}
	}
	return func() { sentry.Flush(2 * time.Second) }
}
