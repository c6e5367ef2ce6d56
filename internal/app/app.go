// Package app wires configuration, the local session database, the API
// client and the stores into one value shared by the CLI commands and the
// TUI.
package app

import (
	"context"
	"fmt"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/config"
	"github.com/colonyops/extguard/internal/core/logging"
	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/data/db"
	datastores "github.com/colonyops/extguard/internal/data/stores"
	"github.com/colonyops/extguard/internal/stores"
)

// App is the central entry point for all extguard operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config
	DB     *db.DB
	KV     *datastores.KVStore
	Tokens *datastores.TokenStore
	Client *api.Client

	Auth       *stores.AuthStore
	Extensions *stores.ExtensionStore
	Files      *stores.FileStore
	Inventory  *stores.InventoryStore
	Modal      *modal.Helper
}

// New constructs an App over an open database.
func New(cfg *config.Config, database *db.DB) *App {
	kv := datastores.NewKVStore(database)
	tokens := datastores.NewTokenStore(kv, cfg.Auth.SessionTTL)
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)

	return &App{
		Config: cfg,
		DB:     database,
		KV:     kv,
		Tokens: tokens,
		Client: client,

		Auth: stores.NewAuthStore(client, tokens),
		Extensions: stores.NewExtensionStore(client, stores.ExtensionLimits{
			MaxFixed:  cfg.Extensions.MaxFixed,
			MaxCustom: cfg.Extensions.MaxCustom,
			MaxLength: cfg.Extensions.MaxLength,
		}),
		Files:     stores.NewFileStore(client, cfg.Files.UploadStatusTTL),
		Inventory: stores.NewInventoryStore(client),
		Modal:     modal.NewHelper(modal.New()),
	}
}

// Initialize restores the saved login.
func (a *App) Initialize(ctx context.Context) error {
	return a.Auth.Initialize(ctx)
}

// RequireLogin fails unless a user is signed in.
func (a *App) RequireLogin() error {
	if !a.Auth.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'extguard login' first")
	}
	return nil
}

// OpenDB opens the session database in cfg.DataDir. A corrupted file is
// moved aside and a fresh database created in its place.
func OpenDB(cfg *config.Config) (*db.DB, error) {
	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = cfg.Database.BusyTimeout

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !datastores.IsCorruptionError(err) {
		return nil, err
	}

	backup, rerr := datastores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w (original error: %v)", rerr, err)
	}
	logging.Component("app").Warn().
		Err(err).
		Str("backup", backup).
		Msg("session database was corrupted and has been reset")

	return db.Open(cfg.DataDir, opts)
}
