// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package root assembles the shell: header, routed content inside the popup
// injector, and the key help footer.
package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/internal/app"
	"github.com/toeirei/fleetmaster/internal/auth"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/header"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/popup"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	windowtitle "github.com/toeirei/fleetmaster/ui/tui/models/helpers/title"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/footer"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/home"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/login"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/vehicleedit"
	"github.com/toeirei/fleetmaster/ui/tui/models/views/vehiclelist"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

const title string = "Fleetmaster"

const LoginPath = "/login"

type Model struct {
	header       *header.Model
	router       *router.Router
	content      *util.Model
	footer       *footer.Model
	titleHandler *windowtitle.TitleHandler
	size         util.Size
}

// New builds the shell. ctx bounds every call the views make.
func New(ctx context.Context, a *app.App, ctrl *vehicles.Controller, version string) *Model {
	r := router.New(
		router.WithGuard(a.Provider.IsAuthenticated, LoginPath),
		router.WithRoute(router.Route{
			Pattern: router.HomePath,
			Title:   "Home",
			Build:   func(router.Params) *util.Model { return util.ModelPointer(home.New(a)) },
		}),
		router.WithRoute(router.Route{
			Pattern: "/vehicles",
			Title:   "Vehicles",
			Gated:   true,
			Build: func(router.Params) *util.Model {
				return util.ModelPointer(vehiclelist.New(ctx, ctrl))
			},
		}),
		router.WithRoute(router.Route{
			Pattern: "/vehicles/:id",
			Title:   "Vehicle",
			Gated:   true,
			Build: func(p router.Params) *util.Model {
				return util.ModelPointer(vehicleedit.New(ctx, ctrl, p["id"]))
			},
		}),
		router.WithRoute(router.Route{
			Pattern: LoginPath,
			Title:   "Login",
			Build:   func(router.Params) *util.Model { return util.ModelPointer(login.New(ctx, a)) },
		}),
		router.WithRoute(router.Route{
			Pattern: auth.CallbackPath,
			Title:   "Login",
			Build: func(router.Params) *util.Model {
				return util.ModelPointer(login.NewCallback(ctx, a))
			},
		}),
	)

	if len(version) == 0 {
		version = "unknown version"
	}
	return &Model{
		header:       header.New(version, func() string { return status(a) }),
		router:       r,
		content:      util.ModelPointer(popup.NewInjector(util.ModelPointer(r))),
		footer:       footer.New(&BaseKeyMap),
		titleHandler: windowtitle.NewHandler(fmt.Sprintf("%s %s", title, version), " | "),
	}
}

func status(a *app.App) string {
	id := a.Identity()
	switch {
	case id.Authenticated && id.Subject != "":
		return styles.Success.Render("● " + id.Subject)
	case id.Authenticated:
		return styles.Success.Render("● " + i18n.T("status.signed_in"))
	default:
		return styles.Subtle.Render("○ " + i18n.T("status.signed_out"))
	}
}

func (m *Model) Init() tea.Cmd {
	titleCmd := m.titleHandler.Init()
	initCmd := (*m.content).Init()
	focusCmd := util.FocusCmd(*m.content)

	return tea.Sequence(titleCmd, initCmd, focusCmd)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.size.Update(msg) {
		return m, m.layout()
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, BaseKeyMap.Exit):
			return m, tea.Quit
		case key.Matches(msg, BaseKeyMap.Help) && !m.typing():
			m.footer.ToggleExpanded()
			return m, m.layout()
		}
		return m, (*m.content).Update(msg)
	case util.AnnounceKeyMapMsg:
		return m, tea.Batch(m.footer.Update(msg), m.layout())
	case router.ChangedMsg:
		m.header.Update(msg)
		return m, windowtitle.Set(msg.Title)
	}
	if cmd := m.titleHandler.Handle(msg); cmd != nil {
		return m, cmd
	}
	return m, (*m.content).Update(msg)
}

// typing reports whether the active view edits text, where "?" is input.
func (m *Model) typing() bool {
	return strings.HasPrefix(m.router.Path(), "/vehicles/")
}

// layout hands each part its share of the window.
func (m *Model) layout() tea.Cmd {
	w := m.size.Width
	m.header.Update(tea.WindowSizeMsg{Width: w, Height: m.header.Height()})
	cmd := m.footer.Update(tea.WindowSizeMsg{Width: w, Height: m.footer.Height()})
	return tea.Batch(cmd, (*m.content).Update(m.contentSize().ToMsg()))
}

func (m *Model) contentSize() util.Size {
	return m.size.Shrink(0, m.header.Height()+m.footer.Height())
}

func (m *Model) View() string {
	h := m.contentSize().Height
	content := lipgloss.NewStyle().Height(h).MaxHeight(h).Render((*m.content).View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), content, m.footer.View())
}

// Path is the active route.
func (m *Model) Path() string { return m.router.Path() }

// *Model implements tea.Model
var _ tea.Model = (*Model)(nil)
