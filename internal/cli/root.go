package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"catalog-cli/internal/api"
	"catalog-cli/internal/config"
	"catalog-cli/internal/format"
	"catalog-cli/internal/logging"
	"catalog-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	APIBase    string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "catalog",
		Short:         "Course catalog CLI + TUI",
		SilenceUsage:  true,
		SilenceErrors: true, // commands report through writeErr; Execute prints the rest
		Example: strings.TrimSpace(`
  # Browse the catalog interactively
  catalog

  # Scriptable commands
  catalog courses list --search algebra --format text

  # Direct course lookup (shortcut for: catalog courses show <course-id>)
  catalog 000000000000000000000001

  # Local backend for development
  catalog dev-server --latency 200ms --jitter 400ms
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CATALOG_CONFIG", ""), "Path to config.yaml (default: ~/.catalog/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIBase, "api", "", "API base URL (overrides api.base_url and CATALOG_API_BASE)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CATALOG_FORMAT", "json"), "Output format (json|text)")

	cmd.AddCommand(newCoursesCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newDevServerCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := app.config()
	if err != nil {
		return writeErr(cmd, err)
	}
	// The alt screen owns the terminal: log to the configured file or nowhere.
	log, err := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Quiet: true})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log
	if err := tui.Run(cmd.Context(), tui.Options{
		Client: app.newClient(cfg),
		Config: cfg,
		Logger: log,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// config loads configuration once per invocation, applying flag overrides.
func (app *App) config() (*config.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(app.APIBase); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app.cfg = cfg
	return cfg, nil
}

func (app *App) logger() (*zap.Logger, error) {
	if app.log != nil {
		return app.log, nil
	}
	cfg, err := app.config()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		return nil, err
	}
	app.log = log
	return log, nil
}

func (app *App) newClient(cfg *config.Config) *api.Client {
	log := app.log
	if log == nil {
		log = zap.NewNop()
	}
	return api.NewClient(api.Options{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		SessionToken: cfg.API.SessionToken,
		Logger:       log,
	})
}

// client builds the API client for one-shot commands.
func (app *App) client() (*api.Client, *config.Config, error) {
	cfg, err := app.config()
	if err != nil {
		return nil, nil, err
	}
	if _, err := app.logger(); err != nil {
		return nil, nil, err
	}
	return app.newClient(cfg), cfg, nil
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	// Paginated fan-out may issue several requests; allow a few round trips.
	return context.WithTimeout(ctx, 4*timeout)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	if err := format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// writeErr prints err for the user and marks it as reported.
func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), userMessage(err))
	return reportedError{err: err}
}

// Execute runs cmd and prints, once, any error no command already reported
// (flag parsing, unknown subcommands).
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
