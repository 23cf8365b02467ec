// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vehicles owns the vehicle list state and the load, save and delete
// workflows that keep it in sync with the remote store.
package vehicles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/model"
)

const collectionPath = "/vehicles"

var (
	// ErrInFlight is returned when a mutation for the same vehicle is still running
	// and the in-flight guard is enabled.
	ErrInFlight = errors.New("a mutation for this vehicle is already in progress")
	// ErrNotPersisted is returned when deleting a vehicle that has no id.
	ErrNotPersisted = errors.New("vehicle has not been saved yet")
)

// Gateway performs authenticated JSON calls against the store.
type Gateway interface {
	Call(ctx context.Context, method, path string, body, out any) error
}

// Navigator moves the UI one step back in its history.
type Navigator interface {
	Back()
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) Back() { f() }

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// State is a snapshot of the controller.
type State struct {
	Loading  bool
	Vehicles []model.Vehicle
	Err      error
}

func (s State) clone() State {
	s.Vehicles = append([]model.Vehicle(nil), s.Vehicles...)
	return s
}

// Controller is safe for concurrent use. Mutations always end with a full
// reload; the cached list is never patched in place.
type Controller struct {
	gw       Gateway
	nav      Navigator
	confirm  Confirmer
	policy   Policy
	guard    bool
	onChange func(State)

	mu       sync.Mutex
	state    State
	inflight map[int]struct{}
}

// Option configures a Controller.
type Option func(*Controller)

func WithNavigator(n Navigator) Option { return func(c *Controller) { c.nav = n } }

func WithConfirmer(cf Confirmer) Option { return func(c *Controller) { c.confirm = cf } }

func WithPolicy(p Policy) Option { return func(c *Controller) { c.policy = p } }

// WithInflightGuard rejects a second mutation on a vehicle id while the
// first is still running.
func WithInflightGuard() Option { return func(c *Controller) { c.guard = true } }

// WithOnChange registers a callback receiving a snapshot after every state change.
func WithOnChange(fn func(State)) Option { return func(c *Controller) { c.onChange = fn } }

// New returns a controller in its initial loading state. Without a
// Confirmer every delete is declined.
func New(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		policy:   PolicyAlwaysRefresh,
		state:    State{Loading: true, Vehicles: []model.Vehicle{}},
		inflight: map[int]struct{}{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Policy returns the active post-mutation policy.
func (c *Controller) Policy() Policy { return c.policy }

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.state.clone()
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(snap)
	}
}

// LoadAll replaces the cached list with the store's full collection. On
// failure the list is emptied and the error stored.
func (c *Controller) LoadAll(ctx context.Context) error {
	var vs []model.Vehicle
	err := c.gw.Call(ctx, http.MethodGet, collectionPath, nil, &vs)
	c.update(func(s *State) {
		if err != nil {
			s.Vehicles = []model.Vehicle{}
			s.Err = err
		} else {
			if vs == nil {
				vs = []model.Vehicle{}
			}
			s.Vehicles = vs
		}
		s.Loading = false
	})
	if err == nil {
		logging.Debugf("vehicles: loaded %d vehicles", len(vs))
	}
	return err
}

// Save creates a transient vehicle or updates a persisted one, then applies
// the post-mutation policy: navigate back once and reload.
func (c *Controller) Save(ctx context.Context, v model.Vehicle) error {
	err := c.save(ctx, v)
	c.afterMutation(ctx, err, true)
	return err
}

func (c *Controller) save(ctx context.Context, v model.Vehicle) error {
	release, err := c.acquire(v.ID)
	if err != nil {
		return err
	}
	defer release()

	if v.IsPersisted() {
		err = c.gw.Call(ctx, http.MethodPut, itemPath(v.ID), v, nil)
	} else {
		err = c.gw.Call(ctx, http.MethodPost, collectionPath, v, nil)
	}
	if err != nil {
		c.update(func(s *State) { s.Err = err })
	}
	return err
}

// Delete asks for confirmation and, when granted, removes the vehicle and
// reloads the list. A declined prompt changes nothing.
func (c *Controller) Delete(ctx context.Context, v model.Vehicle) error {
	if !c.confirmDelete(ctx, v) {
		logging.Debugf("vehicles: delete of %d declined", v.ID)
		return nil
	}
	if !v.IsPersisted() {
		return ErrNotPersisted
	}
	err := c.remove(ctx, v.ID)
	c.afterMutation(ctx, err, false)
	return err
}

func (c *Controller) confirmDelete(ctx context.Context, v model.Vehicle) bool {
	if c.confirm == nil {
		return false
	}
	return c.confirm.Confirm(ctx, DeletePrompt(v))
}

// DeletePrompt is the confirmation question shown before deleting v.
func DeletePrompt(v model.Vehicle) string {
	return i18n.T("vehicles.confirm_delete", v.Year.String())
}

func (c *Controller) remove(ctx context.Context, id int) error {
	release, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.gw.Call(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		c.update(func(s *State) { s.Err = err })
		return err
	}
	return nil
}

func (c *Controller) afterMutation(ctx context.Context, err error, navigate bool) {
	if err != nil {
		if errors.Is(err, ErrInFlight) {
			return
		}
		if c.policy == PolicyRefreshOnSuccess {
			return
		}
	}
	if navigate && c.nav != nil {
		c.nav.Back()
	}
	_ = c.LoadAll(ctx)
}

func (c *Controller) acquire(id int) (func(), error) {
	if !c.guard {
		return func() {}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return nil, fmt.Errorf("vehicle %d: %w", id, ErrInFlight)
	}
	c.inflight[id] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}, nil
}

// DismissError clears the stored error and nothing else.
func (c *Controller) DismissError() {
	c.update(func(s *State) { s.Err = nil })
}

// Ordered returns the cached vehicles in display order.
func (c *Controller) Ordered() []model.Vehicle {
	c.mu.Lock()
	vs := c.state.Vehicles
	c.mu.Unlock()
	return Order(vs)
}

func itemPath(id int) string {
	return collectionPath + "/" + strconv.Itoa(id)
}
