// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package bridge delivers calls made by background work, such as the vehicle
// controller, into the running bubbletea program.
package bridge

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/popup"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
)

// Sender is the part of *tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// StateMsg carries a controller snapshot to the views.
type StateMsg struct {
	State vehicles.State
}

// Bridge implements vehicles.Navigator and vehicles.Confirmer. Its methods
// must not be called from inside Update; the program loop would deadlock.
type Bridge struct {
	mu     sync.RWMutex
	sender Sender
}

func New() *Bridge { return &Bridge{} }

// Attach sets the program messages are sent to.
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

// Send forwards msg to the attached program. Without one it is dropped.
func (b *Bridge) Send(msg tea.Msg) bool {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()
	if s == nil {
		logging.Debugf("bridge: dropped %T, no program attached", msg)
		return false
	}
	s.Send(msg)
	return true
}

func (b *Bridge) Back() {
	b.Send(router.BackMsg{})
}

// Confirm opens a yes/no dialog and waits for the answer. It returns false
// when ctx ends first or no program is attached.
func (b *Bridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	if !b.Send(popup.AskMsg{Prompt: prompt, Reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

// OnChange is a vehicles.WithOnChange callback.
func (b *Bridge) OnChange(s vehicles.State) {
	b.Send(StateMsg{State: s})
}

var (
	_ vehicles.Navigator = (*Bridge)(nil)
	_ vehicles.Confirmer = (*Bridge)(nil)
)
