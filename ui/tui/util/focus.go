// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package util

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/util/slicest"
)

// Focusable components return the key map the footer should show.
type Focusable interface {
	Focus() (tea.Cmd, help.KeyMap)
	Blur()
}

// AnnounceKeyMapMsg tells the footer which bindings are active.
type AnnounceKeyMapMsg struct {
	KeyMap help.KeyMap
}

func AnnounceKeyMapCmd(keymaps ...help.KeyMap) tea.Cmd {
	return func() tea.Msg {
		return AnnounceKeyMapMsg{KeyMap: MergeKeyMaps(keymaps...)}
	}
}

// FocusCmd focuses m and announces its key map.
func FocusCmd(m Focusable) tea.Cmd {
	cmd, keyMap := m.Focus()
	return tea.Batch(cmd, AnnounceKeyMapCmd(keyMap))
}

func MergeKeyMaps(keymaps ...help.KeyMap) help.KeyMap {
	return MergedKeyMaps{KeyMaps: keymaps}
}

type MergedKeyMaps struct {
	KeyMaps []help.KeyMap
}

func (m MergedKeyMaps) ShortHelp() []key.Binding {
	return slices.Concat(slicest.Map(m.KeyMaps, func(k help.KeyMap) []key.Binding {
		if k != nil {
			return k.ShortHelp()
		}
		return nil
	})...)
}

func (m MergedKeyMaps) FullHelp() [][]key.Binding {
	return slices.Concat(slicest.Map(m.KeyMaps, func(k help.KeyMap) [][]key.Binding {
		if k != nil {
			return k.FullHelp()
		}
		return nil
	})...)
}

var _ help.KeyMap = (*MergedKeyMaps)(nil)
