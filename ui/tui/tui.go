// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/internal/app"
	"github.com/toeirei/fleetmaster/internal/config"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"github.com/toeirei/fleetmaster/ui/tui/bridge"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/root"
)

const defaultLogFile = "fleetmaster.log"

// LogPath is the file the shell logs to while it owns the terminal.
func LogPath(cfg config.Config) (string, error) {
	if cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	dir, err := config.UserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultLogFile), nil
}

// Run starts the shell and blocks until it exits.
func Run(ctx context.Context, a *app.App, version string) error {
	path, err := LogPath(a.Config)
	if err != nil {
		return err
	}
	closer, err := logging.ToFile(path)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	br := bridge.New()
	ctrl, err := a.Controller(
		vehicles.WithNavigator(br),
		vehicles.WithConfirmer(br),
		vehicles.WithOnChange(br.OnChange),
	)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		root.New(ctx, a, ctrl, version),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	br.Attach(p)
	defer br.Attach(nil)

	logging.Infof("tui: started (mode %s, store %s)", a.Mode(), a.Gateway.BaseURL())
	_, err = p.Run()
	return err
}
