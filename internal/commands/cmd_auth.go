package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/pkg/iojson"
)

type AuthCmd struct {
	flags *Flags
	app   *app.App

	// flags
	username   string
	password   string
	email      string
	name       string
	jsonOutput bool
}

// NewAuthCmd creates the login, signup, logout and whoami commands.
func NewAuthCmd(flags *Flags, a *app.App) *AuthCmd {
	return &AuthCmd{flags: flags, app: a}
}

// Register adds the auth commands to the application
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "account name (prompted when omitted on a terminal)",
			Sources:     cli.EnvVars("EXTGUARD_USERNAME"),
			Destination: &cmd.username,
		},
		&cli.StringFlag{
			Name:        "password",
			Aliases:     []string{"p"},
			Usage:       "account password (prompted when omitted on a terminal)",
			Sources:     cli.EnvVars("EXTGUARD_PASSWORD"),
			Destination: &cmd.password,
		},
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "login",
			Usage:     "Sign in and remember the session",
			UsageText: "extguard login [--username NAME] [--password PASS]",
			Flags:     credentialFlags,
			Action:    cmd.runLogin,
		},
		&cli.Command{
			Name:      "signup",
			Usage:     "Create an account",
			UsageText: "extguard signup [--username NAME] [--password PASS] [--email EMAIL] [--name NAME]",
			Flags: append(credentialFlags,
				&cli.StringFlag{Name: "email", Usage: "contact email", Destination: &cmd.email},
				&cli.StringFlag{Name: "name", Usage: "display name", Destination: &cmd.name},
			),
			Action: cmd.runSignup,
		},
		&cli.Command{
			Name:   "logout",
			Usage:  "Forget the saved session",
			Action: cmd.runLogout,
		},
		&cli.Command{
			Name:  "whoami",
			Usage: "Show the signed-in user",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput},
			},
			Action: cmd.runWhoami,
		},
	)

	return app
}

func (cmd *AuthCmd) runLogin(ctx context.Context, c *cli.Command) error {
	if cmd.username == "" || cmd.password == "" {
		err := cmd.prompt("로그인", false)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	if _, err := cmd.app.Auth.Login(ctx, api.Credentials{Username: cmd.username, Password: cmd.password}); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	user, _ := cmd.app.Auth.User()
	success(c.Root().Writer, "logged in as %s (%s)", user.Username, cmd.app.Client.BaseURL())
	return nil
}

func (cmd *AuthCmd) runSignup(ctx context.Context, c *cli.Command) error {
	if cmd.username == "" || cmd.password == "" || cmd.email == "" {
		err := cmd.prompt("회원가입", true)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	user, err := cmd.app.Auth.Signup(ctx, api.Signup{
		Username: cmd.username,
		Password: cmd.password,
		Email:    cmd.email,
		Name:     cmd.name,
	})
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	success(c.Root().Writer, "account %s created; run 'extguard login' to sign in", user.Username)
	return nil
}

func (cmd *AuthCmd) runLogout(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	success(c.Root().Writer, "logged out")
	return nil
}

func (cmd *AuthCmd) runWhoami(_ context.Context, c *cli.Command) error {
	if err := cmd.app.RequireLogin(); err != nil {
		return err
	}
	user, _ := cmd.app.Auth.User()

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, user)
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email)
	if user.Name != "" {
		_, _ = fmt.Fprintf(out, "name: %s\n", user.Name)
	}
	_, _ = fmt.Fprintf(out, "backend: %s\n", cmd.app.Client.BaseURL())
	return nil
}

// prompt asks for the missing credentials. It refuses to block when stdin
// is not a terminal.
func (cmd *AuthCmd) prompt(title string, signup bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("missing credentials; pass --username and --password")
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("아이디").
			Validate(required("아이디")).
			Value(&cmd.username),
		huh.NewInput().
			Title("비밀번호").
			EchoMode(huh.EchoModePassword).
			Validate(required("비밀번호")).
			Value(&cmd.password),
	}
	if signup {
		fields = append(fields,
			huh.NewInput().
				Title("이메일").
				Validate(required("이메일")).
				Value(&cmd.email),
			huh.NewInput().
				Title("이름").
				Value(&cmd.name),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...).Title(title)).
		WithTheme(huh.ThemeCharm()).
		Run()
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
