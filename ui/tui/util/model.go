// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package util holds the model contract shared by every shell component.
package util

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is a mutable bubbletea component. Update works in place and only
// returns the follow-up command.
type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	Focusable
}

// ModelPointer boxes a concrete model so several parents can share it.
func ModelPointer[T any, PT interface {
	*T
	Model
}](v PT) *Model {
	m := Model(v)
	return &m
}

// BorrowModelFunc runs fn against the concrete model behind m.
func BorrowModelFunc[T any, PT interface {
	*T
	Model
}](m *Model, fn func(PT)) {
	t := (*m).(PT)
	fn(t)
	*m = Model(t)
}

// BorrowModelSafe is BorrowModelFunc without the panic on a type mismatch.
func BorrowModelSafe[PT Model](m *Model, fn func(PT)) error {
	t, ok := (*m).(PT)
	if !ok {
		var want PT
		return fmt.Errorf("type mismatch inferring model: %T != %T", *m, want)
	}
	fn(t)
	return nil
}
