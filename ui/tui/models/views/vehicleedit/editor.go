// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vehicleedit is the single-vehicle editor opened from the list.
package vehicleedit

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/model"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"github.com/toeirei/fleetmaster/ui/tui/bridge"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	"github.com/toeirei/fleetmaster/ui/tui/models/helpers/form"
	forminput "github.com/toeirei/fleetmaster/ui/tui/models/helpers/form/input"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

// Fields is the editable part of a vehicle as the form sees it.
type Fields struct {
	Year  string `mapstructure:"year"`
	Make  string `mapstructure:"make"`
	Model string `mapstructure:"model"`
}

func fieldsOf(v model.Vehicle) Fields {
	return Fields{Year: v.Year.String(), Make: v.Make.String(), Model: v.Model.String()}
}

// Apply writes edited text onto v. Untouched fields keep their JSON kind.
func (f Fields) Apply(v model.Vehicle) model.Vehicle {
	v.Year = v.Year.Edit(f.Year)
	v.Make = v.Make.Edit(f.Make)
	v.Model = v.Model.Edit(f.Model)
	return v
}

type KeyMap struct {
	Back key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding  { return []key.Binding{km.Back} }
func (km KeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{km.Back}} }

var DefaultKeyMap = KeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

type loadedMsg struct{ err error }

type savedMsg struct{ err error }

type Model struct {
	ctx  context.Context
	ctrl *vehicles.Controller
	id   string

	resolution vehicles.Resolution
	form       *form.Form[Fields]
	saving     bool
	err        error
	focused    bool
	size       util.Size
}

// New opens the editor for id, a numeric vehicle id or vehicles.NewID.
func New(ctx context.Context, ctrl *vehicles.Controller, id string) *Model {
	return &Model{ctx: ctx, ctrl: ctrl, id: id}
}

func (m *Model) Init() tea.Cmd {
	m.resolution = m.ctrl.ResolveForEdit(m.id)
	if m.resolution.Kind != vehicles.ResolvePending {
		return m.resolved()
	}
	ctx := m.ctx
	return func() tea.Msg { return loadedMsg{err: m.ctrl.LoadAll(ctx)} }
}

// resolved reacts to the current resolution once it is no longer pending.
func (m *Model) resolved() tea.Cmd {
	switch m.resolution.Kind {
	case vehicles.ResolveNotFound:
		return router.Replace("/vehicles")
	case vehicles.ResolveFound, vehicles.ResolveNew:
		if m.form != nil {
			return nil
		}
		m.form = m.buildForm()
		_ = m.form.Set(fieldsOf(m.resolution.Vehicle))
		cmds := []tea.Cmd{m.form.Init(), m.form.Update(m.formSize().ToMsg())}
		if m.focused {
			cmds = append(cmds, util.FocusCmd(m.form))
		}
		return tea.Sequence(cmds...)
	}
	return nil
}

func (m *Model) buildForm() *form.Form[Fields] {
	f := form.New(
		form.WithInput[Fields]("year", forminput.NewText(i18n.T("editor.year"), "2019")),
		form.WithInput[Fields]("make", forminput.NewText(i18n.T("editor.make"), "Subaru")),
		form.WithInput[Fields]("model", forminput.NewText(i18n.T("editor.model"), "Outback")),
		form.WithInput[Fields]("", forminput.NewButton(i18n.T("editor.save"))),
		form.WithOnSubmit(m.submit),
		form.WithOnCancel[Fields](router.Back),
	)
	return &f
}

func (m *Model) submit(fields Fields, err error) tea.Cmd {
	if err != nil {
		m.err = err
		return nil
	}
	if m.saving {
		return nil
	}
	m.saving = true
	m.err = nil
	v := fields.Apply(m.resolution.Vehicle)
	ctx := m.ctx
	return func() tea.Msg { return savedMsg{err: m.ctrl.Save(ctx, v)} }
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		if m.form != nil {
			return m.form.Update(m.formSize().ToMsg())
		}
		return nil
	}

	switch msg := msg.(type) {
	case loadedMsg, bridge.StateMsg:
		if m.resolution.Kind != vehicles.ResolvePending {
			return nil
		}
		m.resolution = m.ctrl.ResolveForEdit(m.id)
		return m.resolved()
	case savedMsg:
		m.saving = false
		m.err = msg.err
		return nil
	case tea.KeyMsg:
		if m.form == nil && key.Matches(msg, DefaultKeyMap.Back) {
			return router.Back()
		}
	}
	if m.form != nil && !m.saving {
		return m.form.Update(msg)
	}
	return nil
}

// formSize leaves room for the title and the status lines.
func (m *Model) formSize() util.Size { return m.size.Shrink(2, 4) }

func (m *Model) title() string {
	if m.resolution.Kind == vehicles.ResolveFound {
		return i18n.T("editor.title_edit", m.resolution.Vehicle.String())
	}
	return i18n.T("editor.title_new")
}

func (m *Model) View() string {
	if m.resolution.Kind == vehicles.ResolvePending {
		return styles.Item.Render(styles.Subtle.Render(i18n.T("vehicles.loading")))
	}
	if m.form == nil {
		return ""
	}
	lines := []string{styles.Title.Render(m.title()), "", styles.Item.Render(m.form.View())}
	if m.saving {
		lines = append(lines, "", styles.Item.Render(styles.Subtle.Render(i18n.T("editor.saving"))))
	}
	if m.err != nil {
		lines = append(lines, "", styles.ErrorBar.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) {
	m.focused = true
	if m.form == nil {
		return nil, DefaultKeyMap
	}
	return m.form.Focus()
}

func (m *Model) Blur() {
	m.focused = false
	if m.form != nil {
		m.form.Blur()
	}
}

var _ util.Model = (*Model)(nil)
