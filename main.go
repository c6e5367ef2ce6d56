package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/commands"
	"github.com/colonyops/extguard/internal/core/config"
	"github.com/colonyops/extguard/internal/core/logging"
	"github.com/colonyops/extguard/internal/core/styles"
	"github.com/colonyops/extguard/internal/data/db"
	"github.com/colonyops/extguard/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logCloser   func()
		extApp      = &app.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "extguard",
		Usage:     "Admin console for the file and inventory backend",
		UsageText: "extguard [global options] command [command options]",
		Description: `extguard manages which file extensions the backend refuses, moves files in
and out of it, and edits the inventory.

Run 'extguard' with no arguments to open the interactive console.
Run 'extguard login' once to save a session for the other commands.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("EXTGUARD_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/extguard.log)",
				Sources:     cli.EnvVars("EXTGUARD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("EXTGUARD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("EXTGUARD_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "backend URL (overrides api.base_url)",
				Sources:     cli.EnvVars("EXTGUARD_BASE_URL"),
				Destination: &flags.BaseURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "extguard.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.BaseURL != "" {
				cfg.API.BaseURL = flags.BaseURL
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid --base-url: %w", err)
				}
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			database, err = app.OpenDB(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Populate the pre-allocated App (commands already hold a pointer to it)
			*extApp = *app.New(cfg, database)

			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go app.Sweep(sweepCtx, extApp.KV, cfg.Database.SweepInterval)

			if err := extApp.Initialize(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to restore session")
			}
			if user, ok := extApp.Auth.User(); ok {
				ctx = logging.WithUsername(ctx, user.Username)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sweepCancel != nil {
				sweepCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, extApp)

	root = commands.NewAuthCmd(flags, extApp).Register(root)
	root = commands.NewExtCmd(flags, extApp).Register(root)
	root = commands.NewFilesCmd(flags, extApp).Register(root)
	root = commands.NewInventoryCmd(flags, extApp).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = tuiCmd.Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'extguard --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}
