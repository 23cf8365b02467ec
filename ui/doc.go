// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui groups the user interfaces of Fleetmaster: the cobra command
// tree in ui/cli and the bubbletea shell in ui/tui.
package ui
