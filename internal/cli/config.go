package cli

import (
	"errors"
	"os"
	"strings"

	"catalog-cli/internal/config"
	"catalog-cli/internal/format"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the client configuration",
	}
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func configPath(app *App) (string, error) {
	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statErr := os.Stat(p)
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"path": p, "exists": statErr == nil}})
		},
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (session token redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: effectiveConfig(cfg.Redacted())})
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(p); err == nil && !force {
				return writeErr(cmd, errors.New("config already exists at "+p+" (use --force to overwrite)"))
			}
			if err := config.Save(p, config.Default()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  map[string]any{"path": p},
				Hints: []string{"edit api.base_url to point at your backend"},
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// effectiveConfig flattens cfg into dotted keys matching the YAML file.
func effectiveConfig(cfg *config.Config) map[string]any {
	return map[string]any{
		"api.base_url":          cfg.API.BaseURL,
		"api.timeout":           cfg.API.Timeout.String(),
		"api.session_token":     cfg.API.SessionToken,
		"query.page_size":       cfg.Query.PageSize,
		"query.debounce":        cfg.Query.Debounce.String(),
		"query.default_sort":    cfg.Query.DefaultSort,
		"query.clear_on_submit": cfg.Query.ClearOnSubmit,
		"logging.level":         cfg.Logging.Level,
		"logging.file":          cfg.Logging.File,
		"tui.no_color":          cfg.TUI.NoColor,
	}
}
