package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/core/config"
	"github.com/colonyops/extguard/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "extguard config validate [options]",
				Description: "Validates the configuration file, checking the backend URL, limits and directories.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	result := validate(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
	} else {
		outputText(c.Root().Writer, result)
	}

	if !result.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func validate(cfg *config.Config, path string) validationResult {
	result := validationResult{Valid: true, Warnings: cfg.Warnings()}

	err := cfg.ValidateDeep(path)
	if err == nil {
		return result
	}

	result.Valid = false
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
		}
		return result
	}
	result.Errors = append(result.Errors, validationError{Message: err.Error()})
	return result
}

func outputText(w io.Writer, result validationResult) {
	for _, warning := range result.Warnings {
		warn(w, "%s: %s", warning.Category, warning.Message)
		if warning.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warning.Item)
		}
	}

	for _, e := range result.Errors {
		if e.Field != "" {
			warn(w, "%s: %s", e.Field, e.Message)
		} else {
			warn(w, "%s", e.Message)
		}
	}

	if result.Valid {
		success(w, "Configuration is valid")
		return
	}
	_, _ = fmt.Fprintf(w, "\n%d error(s) found\n", len(result.Errors))
}
