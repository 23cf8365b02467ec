// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package login holds the sign-in screen and the browser callback status
// view.
package login

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/internal/app"
	"github.com/toeirei/fleetmaster/internal/auth"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

type KeyMap struct {
	Login key.Binding
	Back  key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding { return []key.Binding{km.Login, km.Back} }

func (km KeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{km.Login, km.Back}} }

var DefaultKeyMap = KeyMap{
	Login: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "sign in"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// doneMsg ends a login attempt.
type doneMsg struct{ err error }

// Model asks the operator to sign in. Dev mode mints a token in place, oidc
// mode hands over to the callback view.
type Model struct {
	ctx  context.Context
	app  *app.App
	busy bool
	err  error
	size util.Size
}

func New(ctx context.Context, a *app.App) *Model {
	return &Model{ctx: ctx, app: a}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		return nil
	}
	switch msg := msg.(type) {
	case doneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		return router.Resume(router.HomePath)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			return router.Back()
		case key.Matches(msg, DefaultKeyMap.Login) && !m.busy:
			return m.login()
		}
	}
	return nil
}

func (m *Model) login() tea.Cmd {
	m.err = nil
	switch m.app.Mode() {
	case app.ModeStatic:
		m.err = app.ErrLoginUnsupported
		return nil
	case app.ModeOIDC:
		return router.Replace(auth.CallbackPath)
	}
	m.busy = true
	return func() tea.Msg {
		_, err := m.app.DevLogin()
		return doneMsg{err: err}
	}
}

func (m *Model) View() string {
	lines := []string{styles.Title.Render(i18n.T("login.title")), ""}
	switch m.app.Mode() {
	case app.ModeStatic:
		lines = append(lines, styles.Item.Render(i18n.T("login.static")))
	case app.ModeOIDC:
		lines = append(lines, styles.Item.Render(i18n.T("login.oidc_hint")))
	default:
		lines = append(lines, styles.Item.Render(i18n.T("login.dev_hint")))
	}
	if m.busy {
		lines = append(lines, "", styles.Item.Render(styles.Subtle.Render(i18n.T("login.busy"))))
	}
	if m.err != nil {
		lines = append(lines, "", styles.ErrorBar.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) { return nil, DefaultKeyMap }
func (m *Model) Blur()                         {}

var _ util.Model = (*Model)(nil)
