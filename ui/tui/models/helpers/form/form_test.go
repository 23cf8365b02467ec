// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package form_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/ui/tui/models/helpers/form"
	forminput "github.com/toeirei/fleetmaster/ui/tui/models/helpers/form/input"
)

type person struct {
	Name string `mapstructure:"name"`
	City string `mapstructure:"city"`
}

type submitted struct{ p person }

func newForm(t *testing.T, onCancel func() tea.Cmd) *form.Form[person] {
	t.Helper()
	f := form.New(
		form.WithInput[person]("name", forminput.NewText("Name", "")),
		form.WithInput[person]("city", forminput.NewText("City", "")),
		form.WithInput[person]("", forminput.NewButton("Save")),
		form.WithOnSubmit(func(p person, err error) tea.Cmd {
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			return func() tea.Msg { return submitted{p} }
		}),
		form.WithOnCancel[person](onCancel),
	)
	f.Focus()
	return &f
}

func TestForm_SetGetRoundTrip(t *testing.T) {
	f := newForm(t, nil)
	if err := f.Set(person{Name: "Ada", City: "London"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := f.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != (person{Name: "Ada", City: "London"}) {
		t.Fatalf("unexpected values %+v", got)
	}
}

func TestForm_EnterAdvancesAndButtonSubmits(t *testing.T) {
	f := newForm(t, nil)
	_ = f.Set(person{Name: "Ada", City: "Paris"})

	if f.Active() != "name" {
		t.Fatalf("expected first input active, got %q", f.Active())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if f.Active() != "city" {
		t.Fatalf("expected enter to advance, got %q", f.Active())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	if f.Active() != "" {
		t.Fatalf("expected button active, got %q", f.Active())
	}

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(submitted)
	if !ok || msg.p.City != "Paris" {
		t.Fatalf("unexpected submit result %#v", msg)
	}
}

func TestForm_ShiftTabWraps(t *testing.T) {
	f := newForm(t, nil)
	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.Active() != "" {
		t.Fatalf("expected wrap to the button, got %q", f.Active())
	}
}

func TestForm_EscCancels(t *testing.T) {
	type cancelled struct{}
	f := newForm(t, func() tea.Cmd { return func() tea.Msg { return cancelled{} } })
	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected cancel command")
	}
	if _, ok := cmd().(cancelled); !ok {
		t.Fatalf("expected cancelled msg")
	}
}

func TestForm_IgnoresInputWhileBlurred(t *testing.T) {
	f := newForm(t, nil)
	f.Blur()
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	if f.Active() != "name" {
		t.Fatalf("blurred form must not move focus, got %q", f.Active())
	}
}
