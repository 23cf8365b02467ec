// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package login

import (
	"context"

	"github.com/atotto/clipboard"
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

type CallbackKeyMap struct {
	Copy   key.Binding
	Cancel key.Binding
}

func (km CallbackKeyMap) ShortHelp() []key.Binding { return []key.Binding{km.Copy, km.Cancel} }

func (km CallbackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Copy, km.Cancel}}
}

var DefaultCallbackKeyMap = CallbackKeyMap{
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy url"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type startedMsg struct {
	handshake *auth.Handshake
	err       error
}

type copiedMsg struct{ err error }

// Callback runs the browser handshake: it binds the loopback listener, shows
// the authorization URL and waits for the redirect.
type Callback struct {
	app    *app.App
	ctx    context.Context
	cancel context.CancelFunc

	authURL string
	done    bool
	notice  string
	err     error
}

func NewCallback(ctx context.Context, a *app.App) *Callback {
	ctx, cancel := context.WithCancel(ctx)
	return &Callback{app: a, ctx: ctx, cancel: cancel}
}

func (m *Callback) Init() tea.Cmd {
	return func() tea.Msg {
		flow, err := m.app.LoginFlow(nil)
		if err != nil {
			return startedMsg{err: err}
		}
		h, err := flow.Start(m.ctx)
		return startedMsg{handshake: h, err: err}
	}
}

func (m *Callback) wait(h *auth.Handshake) tea.Cmd {
	return func() tea.Msg {
		sess, err := h.Wait(m.ctx)
		if err == nil {
			err = m.app.CompleteLogin(sess)
		}
		return doneMsg{err: err}
	}
}

func (m *Callback) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		m.authURL = msg.handshake.AuthURL
		return m.wait(msg.handshake)
	case doneMsg:
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		m.done = true
		return router.Resume(router.HomePath)
	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.notice = i18n.T("login.copied")
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultCallbackKeyMap.Cancel):
			m.cancel()
			return router.Back()
		case key.Matches(msg, DefaultCallbackKeyMap.Copy) && m.authURL != "":
			url := m.authURL
			return func() tea.Msg { return copiedMsg{err: clipboard.WriteAll(url)} }
		}
	}
	return nil
}

func (m *Callback) View() string {
	lines := []string{styles.Title.Render(i18n.T("login.callback_title")), ""}
	switch {
	case m.err != nil:
		lines = append(lines, styles.ErrorBar.Render(m.err.Error()))
	case m.done:
		lines = append(lines, styles.Item.Render(styles.Success.Render(i18n.T("login.complete"))))
	case m.authURL == "":
		lines = append(lines, styles.Item.Render(styles.Subtle.Render(i18n.T("login.starting"))))
	default:
		lines = append(lines,
			styles.Item.Render(i18n.T("login.open_url")),
			"",
			styles.Item.Render(styles.Special.Render(m.authURL)),
			"",
			styles.Item.Render(styles.Subtle.Render(i18n.T("login.waiting"))),
		)
	}
	if m.notice != "" {
		lines = append(lines, "", styles.Item.Render(styles.Subtle.Render(m.notice)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Callback) Focus() (tea.Cmd, help.KeyMap) { return nil, DefaultCallbackKeyMap }
func (m *Callback) Blur()                         {}

var _ util.Model = (*Callback)(nil)
