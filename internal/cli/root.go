package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btclog/v2"
	"github.com/spf13/cobra"

	"mailnet/internal/api"
	"mailnet/internal/logging"
	"mailnet/internal/mutate"
	"mailnet/internal/store"
	"mailnet/internal/tui"
	"mailnet/internal/view"
)

// App holds the resolved flags and the session opened for one command.
type App struct {
	Server        string
	ConfigDir     string
	User          string
	Token         string
	LogLevel      string
	Timeout       time.Duration
	RollbackLikes bool

	logs   *logging.Logs
	store  *store.SQLiteStore
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "mailnet",
		Short:         "Terminal client for the mail and network apps",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Read mail interactively
  mailnet mail

  # Browse the feed
  mailnet network

  # Reuse a browser session
  mailnet session set --sessionid abc123 --csrftoken def456

  # Scriptable commands
  mailnet mail list sent
  mailnet network like 42
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.open()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("MAILNET_SERVER", "http://127.0.0.1:8000"), "Base URL of the server")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("MAILNET_CONFIG_DIR", defaultConfigDir()), "Directory for the session database and log file")
	cmd.PersistentFlags().StringVar(&app.User, "user", envOr("MAILNET_USER", ""), "Signed-in username (enables edit controls)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("MAILNET_TOKEN", ""), "Bearer token sent with every request")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("MAILNET_LOG_LEVEL", "info"), "Log level (trace|debug|info|warn|error|critical|off)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 15*time.Second, "Per-request timeout")
	cmd.PersistentFlags().BoolVar(&app.RollbackLikes, "rollback-likes", false, "Undo optimistic like/follow changes when the request fails")

	cmd.AddCommand(newMailCmd(app))
	cmd.AddCommand(newNetworkCmd(app))
	cmd.AddCommand(newSessionCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mailnet"
	}
	return filepath.Join(home, ".config", "mailnet")
}

// open wires logging, the session store and the HTTP client.
func (app *App) open() error {
	logs, err := logging.Open(app.ConfigDir, app.LogLevel)
	if err != nil {
		return err
	}
	app.logs = logs
	app.useLoggers(nil)

	db, err := store.NewSQLiteStore(filepath.Join(app.ConfigDir, store.DefaultFilename))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	app.store = db

	cookies, err := db.LoadCookies(context.Background(), app.server())
	if err != nil {
		return fmt.Errorf("load session cookies: %w", err)
	}
	client, err := api.New(api.Options{
		BaseURL: app.Server,
		Token:   app.Token,
		Timeout: app.Timeout,
		Cookies: cookies,
	})
	if err != nil {
		return err
	}
	app.client = client
	log.Debugf("session for %s opened with %d cookies", app.server(), len(cookies))
	return nil
}

// close saves cookies the server rotated during the run.
func (app *App) close() error {
	var firstErr error
	if app.store != nil {
		if app.client != nil {
			err := app.store.SaveCookies(context.Background(), app.server(), app.client.Cookies())
			if err != nil {
				firstErr = fmt.Errorf("save session cookies: %w", err)
			}
		}
		if err := app.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		app.store = nil
	}
	if app.logs != nil {
		app.useLoggers(btclog.Disabled)
		app.logs.Close()
		app.logs = nil
	}
	return firstErr
}

// useLoggers points every package at its sub-system logger, or at override
// when one is given.
func (app *App) useLoggers(override btclog.Logger) {
	logger := func(subsystem string) btclog.Logger {
		if override != nil {
			return override
		}
		return app.logs.Logger(subsystem)
	}
	api.UseLogger(logger("API"))
	view.UseLogger(logger("VIEW"))
	mutate.UseLogger(logger("MUTN"))
	tui.UseLogger(logger("TUI"))
	store.UseLogger(logger("STOR"))
	UseLogger(logger("CLI"))
}

// server is the normalized key store rows are scoped by.
func (app *App) server() string {
	return strings.TrimRight(strings.TrimSpace(app.Server), "/")
}

func (app *App) uiOptions() tui.Options {
	return tui.Options{
		User:     app.User,
		Server:   app.server(),
		Store:    app.store,
		Timeout:  app.Timeout,
		Rollback: app.RollbackLikes,
	}
}

func (app *App) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, app.Timeout)
}
