package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/stores"
	"github.com/colonyops/extguard/pkg/iojson"
)

type InventoryCmd struct {
	flags *Flags
	app   *app.App

	// list flags
	jsonOutput bool
	query      api.ItemQuery

	// item flags
	input  api.ItemInput
	reader iojson.FileReader[api.ItemInput]
	yes    bool
}

// NewInventoryCmd creates the inventory command group.
func NewInventoryCmd(flags *Flags, a *app.App) *InventoryCmd {
	return &InventoryCmd{flags: flags, app: a}
}

// Register adds the inventory commands to the application
func (cmd *InventoryCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := &cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput}

	itemFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "item name", Destination: &cmd.input.Name},
		&cli.StringFlag{Name: "category", Usage: "item category", Destination: &cmd.input.Category},
		&cli.IntFlag{Name: "quantity", Usage: "units in stock", Destination: &cmd.input.Quantity},
		&cli.FloatFlag{Name: "price", Usage: "unit price", Destination: &cmd.input.Price},
		&cli.StringFlag{Name: "description", Usage: "free-form description", Destination: &cmd.input.Description},
		cmd.reader.Flag(),
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:    "inventory",
		Aliases: []string{"inv"},
		Usage:   "Manage inventory items",
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			return ctx, cmd.app.RequireLogin()
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List one page of items",
				UsageText: "extguard inventory ls [--page N] [--size N] [--name TEXT] [--category CAT] [--sort FIELD,dir]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "zero-based page", Destination: &cmd.query.Page},
					&cli.IntFlag{Name: "size", Usage: "page size", Value: stores.DefaultPageSize, Destination: &cmd.query.Size},
					&cli.StringFlag{Name: "name", Usage: "filter by name", Destination: &cmd.query.Name},
					&cli.StringFlag{Name: "category", Usage: "filter by category", Destination: &cmd.query.Category},
					&cli.StringFlag{Name: "sort", Usage: "sort expression, e.g. name,asc", Destination: &cmd.query.Sort},
					jsonFlag,
				},
				Action: cmd.runList,
			},
			{
				Name:      "get",
				Usage:     "Show one item",
				UsageText: "extguard inventory get ID",
				Flags:     []cli.Flag{jsonFlag},
				Action:    cmd.runGet,
			},
			{
				Name:      "add",
				Usage:     "Create an item from flags or JSON",
				UsageText: "extguard inventory add --name NAME [--quantity N] [--price P] | extguard inventory add -f item.json",
				Flags:     itemFlags,
				Action:    cmd.runAdd,
			},
			{
				Name:      "edit",
				Usage:     "Replace an item from flags or JSON",
				UsageText: "extguard inventory edit ID --name NAME ... | extguard inventory edit ID -f item.json",
				Flags:     itemFlags,
				Action:    cmd.runEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete an item",
				UsageText: "extguard inventory rm ID [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation", Destination: &cmd.yes},
				},
				Action: cmd.runRemove,
			},
			{
				Name:   "count",
				Usage:  "Print the total number of items",
				Action: cmd.runCount,
			},
			{
				Name:      "category",
				Usage:     "List every item in a category",
				UsageText: "extguard inventory category NAME",
				Flags:     []cli.Flag{jsonFlag},
				Action:    cmd.runCategory,
			},
		},
	})

	return app
}

func (cmd *InventoryCmd) runList(ctx context.Context, c *cli.Command) error {
	page, err := cmd.app.Inventory.FetchItems(ctx, cmd.query)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, page)
	}

	printItems(out, page.Content)
	_, _ = fmt.Fprintf(out, "\npage %d/%d, %d item(s)\n", page.Number+1, max(page.TotalPages, 1), page.TotalElements)
	return nil
}

func (cmd *InventoryCmd) runGet(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	item, err := cmd.app.Inventory.FetchItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item %d: %w", id, err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, item)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "id\t%d\n", item.ID)
	_, _ = fmt.Fprintf(w, "name\t%s\n", item.Name)
	_, _ = fmt.Fprintf(w, "category\t%s\n", item.Category)
	_, _ = fmt.Fprintf(w, "quantity\t%s\n", humanize.Comma(int64(item.Quantity)))
	_, _ = fmt.Fprintf(w, "price\t%s\n", humanize.CommafWithDigits(item.Price, 2))
	_, _ = fmt.Fprintf(w, "description\t%s\n", item.Description)
	_, _ = fmt.Fprintf(w, "updated\t%s\n", item.UpdatedAt)
	return w.Flush()
}

func (cmd *InventoryCmd) runAdd(ctx context.Context, c *cli.Command) error {
	in, err := cmd.readInput()
	if err != nil {
		return err
	}
	item, err := cmd.app.Inventory.CreateItem(ctx, in)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	success(c.Root().Writer, "created %s (id %d)", item.Name, item.ID)
	return nil
}

func (cmd *InventoryCmd) runEdit(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	in, err := cmd.readInput()
	if err != nil {
		return err
	}
	item, err := cmd.app.Inventory.UpdateItem(ctx, id, in)
	if err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	success(c.Root().Writer, "updated %s (id %d)", item.Name, item.ID)
	return nil
}

func (cmd *InventoryCmd) runRemove(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	item, err := cmd.app.Inventory.FetchItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item %d: %w", id, err)
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("%q을(를) 삭제하시겠습니까?", item.Name))
		if err != nil || !ok {
			return err
		}
	}

	if err := cmd.app.Inventory.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	success(c.Root().Writer, "deleted %s", item.Name)
	return nil
}

func (cmd *InventoryCmd) runCount(ctx context.Context, c *cli.Command) error {
	n, err := cmd.app.Inventory.Count(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, strconv.FormatInt(n, 10))
	return nil
}

func (cmd *InventoryCmd) runCategory(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("exactly one category is required")
	}
	items, err := cmd.app.Inventory.FetchByCategory(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("list category: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, items)
	}
	printItems(out, items)
	return nil
}

// readInput takes the item from flags, or from -f / stdin when no name was
// given on the command line.
func (cmd *InventoryCmd) readInput() (api.ItemInput, error) {
	in := cmd.input
	if in.Name == "" && cmd.reader.Provided() {
		read, err := cmd.reader.Read()
		if err != nil {
			return in, err
		}
		in = read
	}
	if err := stores.ValidateItem(in); err != nil {
		return in, err
	}
	return in, nil
}

func printItems(out io.Writer, items []api.Item) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(out, "No items found")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tQTY\tPRICE\t")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			it.ID,
			ansi.Truncate(it.Name, 32, "…"),
			it.Category,
			humanize.Comma(int64(it.Quantity)),
			humanize.CommafWithDigits(it.Price, 2),
		)
	}
	_ = w.Flush()
}
