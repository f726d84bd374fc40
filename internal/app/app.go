// Package app holds the process-wide application context handed to every
// route group at startup.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/threaddit/backend/internal/application/services"
	"github.com/threaddit/backend/internal/config"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/internal/infrastructure/database"
	"github.com/threaddit/backend/internal/infrastructure/media"
	"github.com/threaddit/backend/internal/interfaces/middleware"
	"github.com/threaddit/backend/pkg/logger"
	"github.com/threaddit/backend/pkg/validate"
	"gorm.io/gorm"
)

// App is the explicit application context. It is built once by New and
// passed to the route registrars; nothing in the request path reaches for
// package-level state instead.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Media    ports.MediaStore
	Services *services.ServiceManager
	Login    *middleware.LoginManager
}

// New opens the database, migrates the schema and wires every service.
// A configuration without a database URI or secret key is rejected before
// any connection is attempted.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if cfg.DatabaseURI == "" {
		return nil, errors.New("DATABASE_URI is not set")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is not set")
	}

	store, err := media.NewCloudinaryStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	a, err := Assemble(cfg, db, store)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logger.For(ctx).WithField("env", cfg.Env).Info("🚀 Application context ready")
	return a, nil
}

// Assemble wires services and the login manager over an already-open
// database. Tests use it with a mocked connection.
func Assemble(cfg *config.Config, db *gorm.DB, store ports.MediaStore) (*App, error) {
	validate.RegisterWithGin()

	svcMgr, err := services.NewServiceManager(db, cfg, store)
	if err != nil {
		return nil, err
	}

	login := middleware.NewLoginManager(svcMgr.Auth, cfg.Env != config.EnvLocal)
	login.SetUnauthorizedHandler(middleware.Unauthorized)

	return &App{
		Config:   cfg,
		DB:       db,
		Media:    store,
		Services: svcMgr,
		Login:    login,
	}, nil
}

// Close stops background jobs and releases the connection pool.
func (a *App) Close() error {
	if a.Services != nil && a.Services.Scheduler != nil {
		a.Services.Scheduler.Stop()
	}
	if a.DB == nil {
		return nil
	}
	return database.Close(a.DB)
}
