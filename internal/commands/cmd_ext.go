package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/core/styles"
	"github.com/colonyops/extguard/internal/stores"
	"github.com/colonyops/extguard/pkg/iojson"
)

type ExtCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
	fixed      bool
	all        bool
	yes        bool
}

// NewExtCmd creates the ext command group for the blocked-extension lists.
func NewExtCmd(flags *Flags, a *app.App) *ExtCmd {
	return &ExtCmd{flags: flags, app: a}
}

// Register adds the ext commands to the application
func (cmd *ExtCmd) Register(app *cli.Command) *cli.Command {
	fixedFlag := &cli.BoolFlag{Name: "fixed", Usage: "operate on the fixed list instead of the custom list", Destination: &cmd.fixed}
	yesFlag := &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation", Destination: &cmd.yes}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "ext",
		Usage: "Manage blocked file extensions",
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			return ctx, cmd.app.RequireLogin()
		},
		Commands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "List fixed and custom extensions",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput},
				},
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Block an extension",
				UsageText: "extguard ext add EXT [--fixed]",
				Flags:     []cli.Flag{fixedFlag},
				Action:    cmd.runAdd,
			},
			{
				Name:      "rm",
				Usage:     "Remove an extension from a list",
				UsageText: "extguard ext rm EXT [--fixed] | extguard ext rm --all",
				Flags: []cli.Flag{
					fixedFlag,
					yesFlag,
					&cli.BoolFlag{Name: "all", Usage: "remove every custom extension", Destination: &cmd.all},
				},
				Action: cmd.runRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Flip the blocked state of a fixed extension",
				UsageText: "extguard ext toggle EXT",
				Action:    cmd.runToggle,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default fixed list",
				Flags:  []cli.Flag{yesFlag},
				Action: cmd.runReset,
			},
			{
				Name:      "check",
				Usage:     "Report whether an extension is blocked",
				UsageText: "extguard ext check EXT",
				Action:    cmd.runCheck,
			},
			{
				Name:      "unblock",
				Usage:     "Lift the block on an extension, whichever list it is in",
				UsageText: "extguard ext unblock EXT",
				Action:    cmd.runUnblock,
			},
		},
	})

	return app
}

type extensionList struct {
	Fixed  []api.FixedExtension  `json:"fixed"`
	Custom []api.CustomExtension `json:"custom"`
}

func (cmd *ExtCmd) load(ctx context.Context) error {
	if _, err := cmd.app.Extensions.LoadFixed(ctx); err != nil {
		return fmt.Errorf("load fixed extensions: %w", err)
	}
	if _, err := cmd.app.Extensions.LoadCustom(ctx); err != nil {
		return fmt.Errorf("load custom extensions: %w", err)
	}
	return nil
}

func (cmd *ExtCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := cmd.load(ctx); err != nil {
		return err
	}
	ext := cmd.app.Extensions
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, extensionList{Fixed: ext.Fixed(), Custom: ext.Custom()})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LIST\tEXTENSION\tSTATE")
	for _, f := range ext.Fixed() {
		state := styles.AllowedStyle.Render("allowed")
		if f.IsBlocked {
			state = styles.BlockedStyle.Render("blocked")
		}
		_, _ = fmt.Fprintf(w, "fixed\t.%s\t%s\n", f.Extension, state)
	}
	for _, cu := range ext.Custom() {
		_, _ = fmt.Fprintf(w, "custom\t.%s\t%s\n", cu.Extension, styles.BlockedStyle.Render("blocked"))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d blocked of %d\n", ext.BlockedCount(), ext.TotalCount())
	return nil
}

func (cmd *ExtCmd) runAdd(ctx context.Context, c *cli.Command) error {
	name, err := extArg(c)
	if err != nil {
		return err
	}
	if err := cmd.load(ctx); err != nil {
		return err
	}

	if cmd.fixed {
		_, err = cmd.app.Extensions.AddFixed(ctx, name)
	} else {
		_, err = cmd.app.Extensions.AddCustom(ctx, name)
	}
	if err != nil {
		return err
	}
	success(c.Root().Writer, "'.%s' added", name)
	return nil
}

func (cmd *ExtCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if err := cmd.load(ctx); err != nil {
		return err
	}
	ext := cmd.app.Extensions
	out := c.Root().Writer

	if cmd.all {
		if !cmd.yes {
			ok, err := confirm(fmt.Sprintf("커스텀 확장자 %d개를 모두 삭제하시겠습니까?", len(ext.Custom())))
			if err != nil || !ok {
				return err
			}
		}
		if err := ext.DeleteAllCustom(ctx); err != nil {
			return err
		}
		success(out, "all custom extensions removed")
		return nil
	}

	name, err := extArg(c)
	if err != nil {
		return err
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("'.%s'을(를) 삭제하시겠습니까?", name))
		if err != nil || !ok {
			return err
		}
	}

	if cmd.fixed {
		for _, f := range ext.Fixed() {
			if f.Extension == name {
				if err := ext.DeleteFixed(ctx, f.ID); err != nil {
					return err
				}
				success(out, "'.%s' removed from the fixed list", name)
				return nil
			}
		}
		return fmt.Errorf("'.%s' is not in the fixed list", name)
	}

	for _, cu := range ext.Custom() {
		if cu.Extension == name {
			if err := ext.DeleteCustom(ctx, cu.ID); err != nil {
				return err
			}
			success(out, "'.%s' removed", name)
			return nil
		}
	}
	return fmt.Errorf("'.%s' is not in the custom list", name)
}

func (cmd *ExtCmd) runToggle(ctx context.Context, c *cli.Command) error {
	name, err := extArg(c)
	if err != nil {
		return err
	}
	if err := cmd.load(ctx); err != nil {
		return err
	}

	for _, f := range cmd.app.Extensions.Fixed() {
		if f.Extension != name {
			continue
		}
		if err := cmd.app.Extensions.ToggleFixed(ctx, name, !f.IsBlocked); err != nil {
			return err
		}
		state := "blocked"
		if f.IsBlocked {
			state = "allowed"
		}
		success(c.Root().Writer, "'.%s' is now %s", name, state)
		return nil
	}
	return fmt.Errorf("'.%s' is not in the fixed list", name)
}

func (cmd *ExtCmd) runReset(ctx context.Context, c *cli.Command) error {
	if !cmd.yes {
		ok, err := confirm("고정 확장자를 기본값으로 되돌리시겠습니까?")
		if err != nil || !ok {
			return err
		}
	}
	if err := cmd.app.Extensions.ResetFixed(ctx); err != nil {
		return err
	}
	success(c.Root().Writer, "fixed extensions reset")
	return nil
}

func (cmd *ExtCmd) runCheck(ctx context.Context, c *cli.Command) error {
	name, err := extArg(c)
	if err != nil {
		return err
	}

	blocked, err := cmd.app.Extensions.Check(ctx, name)
	if err != nil {
		return err
	}
	if !blocked {
		success(c.Root().Writer, "'.%s' is allowed", name)
		return nil
	}

	typ, err := cmd.app.Extensions.Type(ctx, name)
	if err != nil {
		return err
	}
	warn(c.Root().Writer, "'.%s' is blocked (%s list)", name, typ)
	return cli.Exit("", 1)
}

func (cmd *ExtCmd) runUnblock(ctx context.Context, c *cli.Command) error {
	name, err := extArg(c)
	if err != nil {
		return err
	}

	blocked, err := cmd.app.Extensions.Check(ctx, name)
	if err != nil {
		return err
	}
	if !blocked {
		success(c.Root().Writer, "'.%s' is not blocked", name)
		return nil
	}

	typ, err := cmd.app.Extensions.Type(ctx, name)
	if err != nil {
		return err
	}
	if err := cmd.app.Extensions.Unblock(ctx, name, typ); err != nil {
		return err
	}
	success(c.Root().Writer, "'.%s' unblocked", name)
	return nil
}

// extArg returns the single normalized extension argument.
func extArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("exactly one extension is required")
	}
	name := stores.NormalizeExtension(c.Args().First())
	if name == "" {
		return "", fmt.Errorf("invalid extension %s", strconv.Quote(c.Args().First()))
	}
	return name, nil
}
