// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keyhelp

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func enabled(b key.Binding) bool { return b.Enabled() }

// fit joins parts left to right until the width runs out, then appends an
// ellipsis if it still fits.
func fit(m help.Model, parts []string, join func(...string) string) string {
	tail := " " + m.Styles.Ellipsis.Inline(true).Render(m.Ellipsis)
	var out []string
	used := 0
	for i, p := range parts {
		w := lipgloss.Width(p)
		last := i == len(parts)-1
		if m.Width > 0 && ((!last && used+w+lipgloss.Width(tail) > m.Width) || (last && used+w > m.Width)) {
			if used+lipgloss.Width(tail) <= m.Width {
				out = append(out, tail)
			}
			break
		}
		used += w
		out = append(out, p)
	}
	return join(out...)
}

// ShortHelpView renders one line of bindings. help.Model.ShortHelpView
// counts separators of skipped bindings, this one does not.
func ShortHelpView(m help.Model, bindings []key.Binding) string {
	sep := m.Styles.ShortSeparator.Inline(true).Render(m.ShortSeparator)
	var parts []string
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		item := m.Styles.ShortKey.Inline(true).Render(kb.Help().Key) + " " +
			m.Styles.ShortDesc.Inline(true).Render(kb.Help().Desc)
		if len(parts) > 0 {
			item = sep + item
		}
		parts = append(parts, item)
	}
	return fit(m, parts, func(s ...string) string { return strings.Join(s, "") })
}

// FullHelpView renders one column per binding group, skipping groups
// without enabled bindings.
func FullHelpView(m help.Model, groups [][]key.Binding) string {
	sep := m.Styles.FullSeparator.Inline(true).Render(m.FullSeparator)
	var cols []string
	for _, group := range groups {
		if !slices.ContainsFunc(group, enabled) {
			continue
		}
		var keys, descs []string
		for _, b := range group {
			if b.Enabled() {
				keys = append(keys, b.Help().Key)
				descs = append(descs, b.Help().Desc)
			}
		}
		col := lipgloss.JoinHorizontal(lipgloss.Top,
			m.Styles.FullKey.Render(lipgloss.JoinVertical(lipgloss.Left, keys...)),
			" ",
			m.Styles.FullDesc.Render(lipgloss.JoinVertical(lipgloss.Left, descs...)),
		)
		if len(cols) > 0 {
			col = lipgloss.JoinHorizontal(lipgloss.Top, sep, col)
		}
		cols = append(cols, col)
	}
	return fit(m, cols, func(s ...string) string { return lipgloss.JoinHorizontal(lipgloss.Top, s...) })
}
