package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/stores"
	"github.com/colonyops/extguard/pkg/iojson"
)

const fileNameWidth = 48

type FilesCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
	match      string
	dir        string
	yes        bool
}

// NewFilesCmd creates the files command group.
func NewFilesCmd(flags *Flags, a *app.App) *FilesCmd {
	return &FilesCmd{flags: flags, app: a}
}

// Register adds the files commands to the application
func (cmd *FilesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "files",
		Usage: "List, upload, download and delete files",
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			return ctx, cmd.app.RequireLogin()
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List uploaded files",
				UsageText: "extguard files ls [--match GLOB] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Usage: "glob on the original filename (e.g. '*.pdf')", Destination: &cmd.match},
					&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput},
				},
				Action: cmd.runList,
			},
			{
				Name:      "upload",
				Usage:     "Upload one or more files",
				UsageText: "extguard files upload PATH [PATH...]",
				Action:    cmd.runUpload,
			},
			{
				Name:      "download",
				Usage:     "Download a file by id",
				UsageText: "extguard files download ID [--dir DIR]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "destination directory (defaults to files.download_dir)", Destination: &cmd.dir},
				},
				Action: cmd.runDownload,
			},
			{
				Name:      "rm",
				Usage:     "Delete a file by id",
				UsageText: "extguard files rm ID [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation", Destination: &cmd.yes},
				},
				Action: cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *FilesCmd) runList(ctx context.Context, c *cli.Command) error {
	files := cmd.app.Files
	if _, err := files.Load(ctx); err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	list := files.Files()
	if cmd.match != "" {
		matched, err := files.Match(cmd.match)
		if err != nil {
			return err
		}
		list = matched
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, list)
	}

	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "No files found")
		return nil
	}
	printFiles(out, list)
	return nil
}

func printFiles(out io.Writer, list []api.FileInfo) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSIZE\tTYPE\tUPLOADED")
	for _, f := range list {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			f.ID,
			ansi.Truncate(f.OriginalFilename, fileNameWidth, "…"),
			humanize.IBytes(uint64(max(f.FileSize, 0))),
			f.ContentType,
			f.UploadedAt,
		)
	}
	_ = w.Flush()
}

func (cmd *FilesCmd) runUpload(ctx context.Context, c *cli.Command) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}

	out := c.Root().Writer
	failed := 0
	for _, path := range paths {
		ext := stores.FileExtension(path)
		if ext != "" && cmd.app.Files.CheckExtension(ctx, ext) {
			warn(out, "%s: '.%s' files are blocked", path, ext)
			failed++
			continue
		}

		info, err := cmd.app.Files.UploadPath(ctx, path)
		if err != nil {
			warn(out, "%s: %v", path, err)
			failed++
			continue
		}
		success(out, "%s uploaded (id %d, %s)", info.OriginalFilename, info.ID, humanize.IBytes(uint64(max(info.FileSize, 0))))
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d upload(s) failed", failed, len(paths)), 1)
	}
	return nil
}

func (cmd *FilesCmd) runDownload(ctx context.Context, c *cli.Command) error {
	file, err := cmd.lookup(ctx, c)
	if err != nil {
		return err
	}

	dir := cmd.dir
	if dir == "" {
		dir = cmd.app.Config.DownloadDir()
	}

	path, err := cmd.app.Files.Download(ctx, file, dir)
	if err != nil {
		return fmt.Errorf("download %s: %w", file.OriginalFilename, err)
	}
	success(c.Root().Writer, "saved %s", path)
	return nil
}

func (cmd *FilesCmd) runRemove(ctx context.Context, c *cli.Command) error {
	file, err := cmd.lookup(ctx, c)
	if err != nil {
		return err
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("%q을(를) 삭제하시겠습니까?", file.OriginalFilename))
		if err != nil || !ok {
			return err
		}
	}

	if err := cmd.app.Files.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("delete %s: %w", file.OriginalFilename, err)
	}
	success(c.Root().Writer, "deleted %s", file.OriginalFilename)
	return nil
}

// lookup resolves the ID argument against a fresh file list.
func (cmd *FilesCmd) lookup(ctx context.Context, c *cli.Command) (api.FileInfo, error) {
	id, err := idArg(c)
	if err != nil {
		return api.FileInfo{}, err
	}
	if _, err := cmd.app.Files.Load(ctx); err != nil {
		return api.FileInfo{}, fmt.Errorf("list files: %w", err)
	}
	file, ok := cmd.app.Files.Find(id)
	if !ok {
		return api.FileInfo{}, fmt.Errorf("no file with id %d", id)
	}
	return file, nil
}

func idArg(c *cli.Command) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("exactly one ID is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Args().First())
	}
	return id, nil
}

// confirm asks a yes/no question. Without a terminal it refuses rather
// than assume an answer.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("confirmation required; pass --yes")
	}

	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("예").
		Negative("아니오").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
