// Package tui is the interactive course browser. It owns no catalog state:
// every keypress becomes a controller call and every controller render
// arrives back as a viewStateMsg.
package tui

import (
	"context"

	"catalog-cli/internal/config"
	"catalog-cli/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Client controller.Catalog
	Config *config.Config
	Logger *zap.Logger

	// ProgramOptions are appended after the defaults (alt screen, ctx).
	ProgramOptions []tea.ProgramOption
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	applyThemePreference()
	applyColorProfilePreference(cfg.TUI.NoColor)

	var prog *tea.Program
	render := controller.RenderFunc(func(v controller.ViewState) {
		// Blocks until the program reads it or exits.
		prog.Send(viewStateMsg{state: v})
	})
	ctrl := controller.New(opts.Client, render, controller.Config{
		PageSize:      cfg.Query.PageSize,
		QuietWindow:   cfg.Query.Debounce,
		DefaultSort:   cfg.Query.DefaultSort,
		ClearOnSubmit: cfg.Query.ClearOnSubmit,
		Logger:        log.Named("controller"),
	})

	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	prog = tea.NewProgram(newAppModel(ctrl), popts...)

	ctrl.Start(ctx)
	defer ctrl.Close()

	log.Info("tui started", zap.String("api", cfg.API.BaseURL), zap.Int("page_size", cfg.Query.PageSize))
	_, err := prog.Run()
	if err != nil && ctx.Err() != nil {
		// Interrupted from outside (signal or parent cancel).
		return nil
	}
	return err
}
