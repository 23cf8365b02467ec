// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package home is the landing view of the shell.
package home

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/internal/app"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

type KeyMap struct {
	Vehicles key.Binding
	Login    key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding { return []key.Binding{km.Vehicles, km.Login} }

func (km KeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{km.Vehicles, km.Login}} }

var DefaultKeyMap = KeyMap{
	Vehicles: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "vehicles"),
	),
	Login: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "login/logout"),
	),
}

type logoutMsg struct{ err error }

type Model struct {
	app  *app.App
	err  error
	size util.Size
}

func New(a *app.App) *Model {
	return &Model{app: a}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		return nil
	}
	switch msg := msg.(type) {
	case logoutMsg:
		m.err = msg.err
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Vehicles):
			return router.Navigate("/vehicles")
		case key.Matches(msg, DefaultKeyMap.Login):
			if !m.app.Provider.IsAuthenticated() {
				return router.Navigate("/login")
			}
			return m.logout
		}
	}
	return nil
}

func (m *Model) logout() tea.Msg {
	err := m.app.Logout()
	if errors.Is(err, app.ErrLoginUnsupported) {
		err = errors.New(i18n.T("home.static_logout"))
	}
	return logoutMsg{err: err}
}

func (m *Model) View() string {
	id := m.app.Identity()
	status := i18n.T("home.signed_out")
	if id.Authenticated {
		status = i18n.T("home.signed_in", id.Subject)
	}
	lines := []string{
		styles.Title.Render(i18n.T("home.welcome")),
		"",
		styles.Item.Render(status),
		styles.Item.Render(styles.Subtle.Render(i18n.T("home.mode", id.Mode))),
		"",
		styles.Item.Render(i18n.T("home.hint")),
	}
	if m.err != nil {
		lines = append(lines, "", styles.ErrorBar.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) { return nil, DefaultKeyMap }
func (m *Model) Blur()                         {}

var _ util.Model = (*Model)(nil)
