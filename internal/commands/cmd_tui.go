package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/core/logging"
	"github.com/colonyops/extguard/internal/profiler"
	"github.com/colonyops/extguard/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, a *app.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: a}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("EXTGUARD_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive admin console (default)",
		Action: cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	log := logging.Component("tui")

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	return tui.Run(ctx, tui.Deps{
		Auth:        cmd.app.Auth,
		Extensions:  cmd.app.Extensions,
		Files:       cmd.app.Files,
		Inventory:   cmd.app.Inventory,
		Modal:       cmd.app.Modal,
		DownloadDir: cmd.app.Config.DownloadDir(),
	})
}
