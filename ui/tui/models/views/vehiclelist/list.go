// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vehiclelist renders the ordered vehicle collection and starts the
// load, delete and edit workflows.
package vehiclelist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/model"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

type doneMsg struct{ err error }

type copiedMsg struct {
	text string
	err  error
}

type Model struct {
	ctx  context.Context
	ctrl *vehicles.Controller

	cursor  int
	notice  string
	spinner spinner.Model
	size    util.Size
}

func New(ctx context.Context, ctrl *vehicles.Controller) *Model {
	return &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Special)),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.ctrl.LoadAll))
}

// run executes a controller call off the program loop.
func (m *Model) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return doneMsg{err: fn(ctx)} }
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		return nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case doneMsg:
		if errors.Is(msg.err, vehicles.ErrInFlight) {
			m.notice = msg.err.Error()
		}
	case copiedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = i18n.T("vehicles.copied", msg.text)
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.ctrl.Ordered()
	m.cursor = util.Clamp(0, m.cursor, len(rows)-1)
	m.notice = ""

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		m.cursor = util.Clamp(0, m.cursor-1, len(rows)-1)
	case key.Matches(msg, DefaultKeyMap.Down):
		m.cursor = util.Clamp(0, m.cursor+1, len(rows)-1)
	case key.Matches(msg, DefaultKeyMap.New):
		return router.Navigate("/vehicles/" + vehicles.NewID)
	case key.Matches(msg, DefaultKeyMap.Reload):
		return tea.Batch(m.spinner.Tick, m.run(m.ctrl.LoadAll))
	case key.Matches(msg, DefaultKeyMap.Dismiss):
		// DismissError notifies the program, so it must not run inside Update.
		return func() tea.Msg {
			m.ctrl.DismissError()
			return nil
		}
	}

	if len(rows) == 0 {
		return nil
	}
	selected := rows[m.cursor]
	switch {
	case key.Matches(msg, DefaultKeyMap.Edit):
		return router.Navigate("/vehicles/" + strconv.Itoa(selected.ID))
	case key.Matches(msg, DefaultKeyMap.Delete):
		return m.run(func(ctx context.Context) error { return m.ctrl.Delete(ctx, selected) })
	case key.Matches(msg, DefaultKeyMap.Copy):
		text := selected.String()
		return func() tea.Msg { return copiedMsg{text: text, err: clipboard.WriteAll(text)} }
	}
	return nil
}

// Updated is the relative "Updated ..." label; empty without a timestamp.
// Text the store sent in an unknown format is shown as is.
func Updated(v model.Vehicle) string {
	if v.UpdatedAt == nil {
		return ""
	}
	if t, ok := v.UpdatedAt.Time(); ok {
		return i18n.T("vehicles.updated", humanize.Time(t))
	}
	return i18n.T("vehicles.updated", v.UpdatedAt.String())
}

func (m *Model) row(v model.Vehicle, selected bool) string {
	col := func(w int, s string) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(s)
	}
	line := col(7, v.Year.String()) + col(16, v.Make.String()) + col(18, v.Model.String()) +
		styles.Subtle.Render(Updated(v))
	if selected {
		return styles.SelectedItem.Render(line)
	}
	return styles.Item.Render(line)
}

func (m *Model) View() string {
	st := m.ctrl.State()
	rows := m.ctrl.Ordered()
	cursor := util.Clamp(0, m.cursor, len(rows)-1)

	var b strings.Builder
	b.WriteString(styles.Title.Render(i18n.T("vehicles.title")))
	b.WriteString("\n\n")

	switch {
	case st.Loading:
		b.WriteString(styles.Item.Render(m.spinner.View() + " " + i18n.T("vehicles.loading")))
	case len(rows) == 0:
		b.WriteString(styles.Item.Render(styles.Subtle.Render(i18n.T("vehicles.empty"))))
	default:
		lines := make([]string, 0, len(rows))
		for _, v := range visible(rows, cursor, m.listHeight(st.Err != nil)) {
			lines = append(lines, m.row(v.vehicle, v.index == cursor))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	if m.notice != "" {
		b.WriteString("\n\n" + styles.Item.Render(styles.Subtle.Render(m.notice)))
	}
	if st.Err != nil {
		bar := styles.ErrorBar
		if m.size.Width > 0 {
			bar = bar.Width(m.size.Width)
		}
		b.WriteString("\n\n" + bar.Render(
			fmt.Sprintf("%s  (%s)", st.Err.Error(), i18n.T("vehicles.dismiss_hint")),
		))
	}
	return b.String()
}

// listHeight is the number of rows that fit below the title.
func (m *Model) listHeight(withError bool) int {
	h := m.size.Height - 2
	if withError {
		h -= 2
	}
	if m.notice != "" {
		h -= 2
	}
	if m.size.Height == 0 || h < 1 {
		return 1 << 30
	}
	return h
}

type indexed struct {
	index   int
	vehicle model.Vehicle
}

// visible returns the window of rows around cursor that fits in height.
func visible(rows []model.Vehicle, cursor, height int) []indexed {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))
	out := make([]indexed, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, indexed{index: i, vehicle: rows[i]})
	}
	return out
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) {
	return m.spinner.Tick, DefaultKeyMap
}

func (m *Model) Blur() {}

// Cursor is the index of the selected row in display order.
func (m *Model) Cursor() int { return m.cursor }

var _ util.Model = (*Model)(nil)
