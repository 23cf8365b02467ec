// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package router switches the shell content between path-addressed views
// and keeps a back history.
package router

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

const HomePath = "/"

type entry struct {
	path  string
	title string
	model *util.Model
}

type Router struct {
	routes    []Route
	initial   string
	allowed   func() bool
	loginPath string

	history []entry
	pending string
	size    util.Size
	focused bool
}

type NewOpt = func(r *Router)

func New(opts ...NewOpt) *Router {
	r := &Router{initial: HomePath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithRoute(route Route) NewOpt {
	return func(r *Router) { r.routes = append(r.routes, route) }
}

// WithInitial sets the path opened by Init.
func WithInitial(path string) NewOpt {
	return func(r *Router) { r.initial = path }
}

// WithGuard redirects gated routes to loginPath while allowed returns false.
func WithGuard(allowed func() bool, loginPath string) NewOpt {
	return func(r *Router) {
		r.allowed, r.loginPath = allowed, loginPath
	}
}

func (r *Router) Init() tea.Cmd {
	return r.open(r.initial, true)
}

func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if r.size.Update(msg) {
		if m := r.active(); m != nil {
			return (*m).Update(msg)
		}
		return nil
	}

	switch msg := msg.(type) {
	case NavigateMsg:
		return r.open(msg.Path, false)
	case ReplaceMsg:
		return r.open(msg.Path, true)
	case BackMsg:
		return r.back()
	case ResumeMsg:
		path := r.pending
		if path == "" {
			path = msg.Fallback
		}
		r.pending = ""
		return r.open(path, true)
	}

	if m := r.active(); m != nil {
		return (*m).Update(msg)
	}
	return nil
}

func (r *Router) View() string {
	if m := r.active(); m != nil {
		return (*m).View()
	}
	return ""
}

func (r *Router) Focus() (tea.Cmd, help.KeyMap) {
	r.focused = true
	if m := r.active(); m != nil {
		return (*m).Focus()
	}
	return nil, nil
}

func (r *Router) Blur() {
	r.focused = false
	if m := r.active(); m != nil {
		(*m).Blur()
	}
}

var _ util.Model = (*Router)(nil)

// Path is the active route path.
func (r *Router) Path() string {
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1].path
}

// Depth is the number of history entries.
func (r *Router) Depth() int { return len(r.history) }

// Pending is the gated path waiting for a successful login.
func (r *Router) Pending() string { return r.pending }

func (r *Router) active() *util.Model {
	if len(r.history) == 0 {
		return nil
	}
	return r.history[len(r.history)-1].model
}

func (r *Router) open(path string, replace bool) tea.Cmd {
	route, params, ok := r.lookup(path)
	if !ok {
		logging.Warnf("router: no route for %q, opening %s", path, HomePath)
		path = HomePath
		if route, params, ok = r.lookup(path); !ok {
			return nil
		}
	}
	if route.Gated && r.allowed != nil && !r.allowed() {
		logging.Debugf("router: %s requires login", path)
		r.pending = path
		path = r.loginPath
		if route, params, ok = r.lookup(path); !ok {
			return nil
		}
	}

	if m := r.active(); m != nil {
		(*m).Blur()
	}
	e := entry{path: path, title: route.Title, model: route.Build(params)}
	if replace && len(r.history) > 0 {
		r.history[len(r.history)-1] = e
	} else {
		r.history = append(r.history, e)
	}

	m := e.model
	cmds := []tea.Cmd{(*m).Init(), (*m).Update(r.size.ToMsg())}
	if r.focused {
		cmds = append(cmds, util.FocusCmd(*m))
	}
	cmds = append(cmds, r.changed())
	return tea.Sequence(cmds...)
}

func (r *Router) back() tea.Cmd {
	if len(r.history) <= 1 {
		if r.Path() == HomePath {
			return nil
		}
		return r.open(HomePath, true)
	}
	(*r.active()).Blur()
	r.history = r.history[:len(r.history)-1]

	if route, _, ok := r.lookup(r.Path()); ok && route.Gated && r.allowed != nil && !r.allowed() {
		return r.open(r.Path(), true)
	}
	cmds := []tea.Cmd{(*r.active()).Update(r.size.ToMsg())}
	if r.focused {
		cmds = append(cmds, util.FocusCmd(*r.active()))
	}
	cmds = append(cmds, r.changed())
	return tea.Sequence(cmds...)
}

func (r *Router) changed() tea.Cmd {
	e := r.history[len(r.history)-1]
	return func() tea.Msg { return ChangedMsg{Path: e.path, Title: e.title} }
}
