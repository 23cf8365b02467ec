// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package form builds keyboard driven forms whose values are decoded into a
// struct with mapstructure.
package form

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-viper/mapstructure/v2"
	"github.com/toeirei/fleetmaster/ui/tui/util"
	"github.com/toeirei/fleetmaster/util/slicest"
)

type FormInput interface {
	util.Focusable
	Reset()
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, Action)
	Set(any)
	Get() any
	View(width int) string
}

type formItem struct {
	id    string
	input FormInput
}

// Form is a vertical list of inputs. Items with an empty id (buttons) are
// not part of the decoded result.
type Form[T any] struct {
	OnSubmit         func(result T, err error) tea.Cmd
	OnCancel         func() tea.Cmd
	ResetAfterSubmit bool
	// KeyMap is announced next to the active input's bindings.
	KeyMap help.KeyMap

	items       []formItem
	activeIndex int
	focused     bool
	size        util.Size
}

func (f *Form[T]) Init() tea.Cmd {
	return tea.Batch(slicest.Map(f.items, func(item formItem) tea.Cmd {
		return item.input.Init()
	})...)
}

func (f *Form[T]) Update(msg tea.Msg) tea.Cmd {
	if f.size.Update(msg) || !f.focused || len(f.items) == 0 {
		return nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(kmsg, DefaultKeyMap.Next):
			return f.move(1)
		case key.Matches(kmsg, DefaultKeyMap.Prev):
			return f.move(-1)
		}
	}
	return f.updateActiveInput(msg)
}

func (f *Form[T]) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, slicest.Map(f.items, func(item formItem) string {
		return item.input.View(f.size.Width)
	})...)
}

func (f *Form[T]) Focus() (tea.Cmd, help.KeyMap) {
	f.focused = true
	if len(f.items) == 0 {
		return nil, f.KeyMap
	}
	cmd, km := f.items[f.activeIndex].input.Focus()
	return cmd, util.MergeKeyMaps(km, DefaultKeyMap, f.KeyMap)
}

func (f *Form[T]) Blur() {
	f.focused = false
	if len(f.items) > 0 {
		f.items[f.activeIndex].input.Blur()
	}
}

var _ util.Model = (*Form[any])(nil)

// Active is the id of the focused item.
func (f *Form[T]) Active() string {
	if len(f.items) == 0 {
		return ""
	}
	return f.items[f.activeIndex].id
}

func (f *Form[T]) Reset() tea.Cmd {
	for _, item := range f.items {
		item.input.Reset()
	}
	return f.move(-f.activeIndex)
}

func (f *Form[T]) Submit() tea.Cmd {
	data, err := f.Get()
	var resetCmd tea.Cmd
	if f.ResetAfterSubmit {
		resetCmd = f.Reset()
	}
	if f.OnSubmit == nil {
		return resetCmd
	}
	return tea.Batch(resetCmd, f.OnSubmit(data, err))
}

func (f *Form[T]) updateActiveInput(msg tea.Msg) tea.Cmd {
	updateCmd, action := f.items[f.activeIndex].input.Update(msg)

	var actionCmd tea.Cmd
	switch action {
	case ActionNext:
		actionCmd = f.move(1)
	case ActionPrev:
		actionCmd = f.move(-1)
	case ActionSubmit:
		actionCmd = f.Submit()
	case ActionCancel:
		if f.OnCancel != nil {
			actionCmd = f.OnCancel()
		}
	}
	return tea.Batch(updateCmd, actionCmd)
}

// move shifts focus by delta items, wrapping around.
func (f *Form[T]) move(delta int) tea.Cmd {
	if len(f.items) == 0 {
		return nil
	}
	n := len(f.items)
	next := ((f.activeIndex+delta)%n + n) % n
	if next != f.activeIndex {
		f.items[f.activeIndex].input.Blur()
		f.activeIndex = next
	}
	if !f.focused {
		return nil
	}
	return util.FocusCmd(f)
}

// Get decodes the current input values into T.
func (f *Form[T]) Get() (T, error) {
	var data T
	values := make(map[string]any, len(f.items))
	for _, item := range f.items {
		if item.id != "" {
			values[item.id] = item.input.Get()
		}
	}
	err := mapstructure.Decode(values, &data)
	return data, err
}

// Set pushes the fields of data into the inputs with matching ids.
func (f *Form[T]) Set(data T) error {
	values := map[string]any{}
	if err := mapstructure.Decode(data, &values); err != nil {
		return err
	}
	for _, item := range f.items {
		if value, ok := values[item.id]; ok {
			item.input.Set(value)
		}
	}
	return nil
}
