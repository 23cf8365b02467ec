// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/model"
)

type call struct {
	method string
	path   string
	body   any
}

// fakeGateway records calls and serves the configured list for GET.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []call
	list    []model.Vehicle
	empty   bool
	failOn  map[string]error
	blockOn string
	release chan struct{}
	entered chan struct{}
}

func newFakeGateway(list ...model.Vehicle) *fakeGateway {
	return &fakeGateway{list: list, failOn: map[string]error{}}
}

func (f *fakeGateway) Call(ctx context.Context, method, path string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: body})
	err := f.failOn[method]
	block := f.blockOn == method
	f.mu.Unlock()

	if block {
		f.entered <- struct{}{}
		<-f.release
	}
	if err != nil {
		return err
	}
	if method == "GET" && out != nil && !f.empty {
		data, _ := json.Marshal(f.list)
		return json.Unmarshal(data, out)
	}
	return nil
}

func (f *fakeGateway) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.method+" "+c.path)
	}
	return out
}

type countingNav struct {
	mu    sync.Mutex
	backs int
}

func (n *countingNav) Back() {
	n.mu.Lock()
	n.backs++
	n.mu.Unlock()
}

func (n *countingNav) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backs
}

type answer struct {
	yes     bool
	prompts []string
}

func (a *answer) Confirm(_ context.Context, prompt string) bool {
	a.prompts = append(a.prompts, prompt)
	return a.yes
}

func assertCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
}

func TestNew_InitialState(t *testing.T) {
	c := New(newFakeGateway())
	st := c.State()
	if !st.Loading || st.Err != nil || len(st.Vehicles) != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if c.Policy() != PolicyAlwaysRefresh {
		t.Fatalf("expected always_refresh by default, got %q", c.Policy())
	}
}

func TestLoadAll_Success(t *testing.T) {
	gw := newFakeGateway(model.Vehicle{ID: 1, Year: model.Int(2019)}, model.Vehicle{ID: 2})
	c := New(gw)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	st := c.State()
	if st.Loading || len(st.Vehicles) != 2 || st.Err != nil {
		t.Fatalf("unexpected state %+v", st)
	}
	assertCalls(t, gw.methods(), "GET /vehicles")
}

func TestLoadAll_EmptyResponseYieldsEmptyList(t *testing.T) {
	gw := newFakeGateway()
	gw.empty = true
	c := New(gw)
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	st := c.State()
	if st.Loading || st.Vehicles == nil || len(st.Vehicles) != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", st)
	}
}

func TestLoadAll_FailureEmptiesListAndStoresError(t *testing.T) {
	gw := newFakeGateway(model.Vehicle{ID: 1})
	c := New(gw)
	_ = c.LoadAll(context.Background())

	boom := errors.New("boom")
	gw.failOn["GET"] = boom
	if err := c.LoadAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	st := c.State()
	if st.Loading || len(st.Vehicles) != 0 || !errors.Is(st.Err, boom) {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSave_CreatesTransientVehicle(t *testing.T) {
	gw := newFakeGateway()
	nav := &countingNav{}
	c := New(gw, WithNavigator(nav))

	v := model.Vehicle{Year: model.Int(2021), Make: model.String("Mazda")}
	if err := c.Save(context.Background(), v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	assertCalls(t, gw.methods(), "POST /vehicles", "GET /vehicles")
	if nav.count() != 1 {
		t.Fatalf("expected one Back, got %d", nav.count())
	}
	sent := gw.calls[0].body.(model.Vehicle)
	if sent.ID != 0 || sent.Make.String() != "Mazda" {
		t.Fatalf("unexpected body %+v", sent)
	}
}

func TestSave_UpdatesPersistedVehicle(t *testing.T) {
	gw := newFakeGateway()
	c := New(gw)
	if err := c.Save(context.Background(), model.Vehicle{ID: 7, Year: model.String("1999")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	assertCalls(t, gw.methods(), "PUT /vehicles/7", "GET /vehicles")
}

func TestSave_FailureAlwaysRefresh(t *testing.T) {
	gw := newFakeGateway(model.Vehicle{ID: 1})
	nav := &countingNav{}
	c := New(gw, WithNavigator(nav))
	boom := errors.New("rejected")
	gw.failOn["PUT"] = boom

	err := c.Save(context.Background(), model.Vehicle{ID: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to be returned, got %v", err)
	}
	assertCalls(t, gw.methods(), "PUT /vehicles/1", "GET /vehicles")
	if nav.count() != 1 {
		t.Fatalf("expected navigation despite failure, got %d", nav.count())
	}
	st := c.State()
	if !errors.Is(st.Err, boom) || len(st.Vehicles) != 1 {
		t.Fatalf("expected stored error and reloaded list, got %+v", st)
	}
}

func TestSave_FailureRefreshOnSuccess(t *testing.T) {
	gw := newFakeGateway()
	nav := &countingNav{}
	c := New(gw, WithNavigator(nav), WithPolicy(PolicyRefreshOnSuccess))
	gw.failOn["POST"] = errors.New("rejected")

	if err := c.Save(context.Background(), model.Vehicle{}); err == nil {
		t.Fatalf("expected error")
	}
	assertCalls(t, gw.methods(), "POST /vehicles")
	if nav.count() != 0 {
		t.Fatalf("expected no navigation, got %d", nav.count())
	}
	if c.State().Err == nil {
		t.Fatalf("expected stored error")
	}
}

func TestDelete_DeclinedDoesNothing(t *testing.T) {
	i18n.Init("en")
	gw := newFakeGateway()
	a := &answer{yes: false}
	c := New(gw, WithConfirmer(a))
	before := c.State()

	if err := c.Delete(context.Background(), model.Vehicle{ID: 3, Year: model.Int(2019)}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(gw.methods()) != 0 {
		t.Fatalf("expected no calls, got %v", gw.methods())
	}
	if len(a.prompts) != 1 || a.prompts[0] != `Are you sure you want to delete "2019"` {
		t.Fatalf("unexpected prompt %v", a.prompts)
	}
	after := c.State()
	if after.Loading != before.Loading || after.Err != nil || len(after.Vehicles) != 0 {
		t.Fatalf("state changed: %+v", after)
	}
}

func TestDelete_WithoutConfirmerIsDeclined(t *testing.T) {
	gw := newFakeGateway()
	c := New(gw)
	if err := c.Delete(context.Background(), model.Vehicle{ID: 3}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(gw.methods()) != 0 {
		t.Fatalf("expected no calls, got %v", gw.methods())
	}
}

func TestDelete_ConfirmedDeletesAndReloadsWithoutNavigation(t *testing.T) {
	gw := newFakeGateway()
	nav := &countingNav{}
	c := New(gw, WithNavigator(nav), WithConfirmer(&answer{yes: true}))
	if err := c.Delete(context.Background(), model.Vehicle{ID: 3}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertCalls(t, gw.methods(), "DELETE /vehicles/3", "GET /vehicles")
	if nav.count() != 0 {
		t.Fatalf("delete must not navigate, got %d", nav.count())
	}
}

func TestDelete_FailureStoresErrorAndStillReloads(t *testing.T) {
	gw := newFakeGateway()
	c := New(gw, WithConfirmer(&answer{yes: true}))
	gw.failOn["DELETE"] = errors.New("gone")
	if err := c.Delete(context.Background(), model.Vehicle{ID: 3}); err == nil {
		t.Fatalf("expected error")
	}
	assertCalls(t, gw.methods(), "DELETE /vehicles/3", "GET /vehicles")
	if c.State().Err == nil {
		t.Fatalf("expected stored error")
	}
}

func TestDelete_TransientVehicle(t *testing.T) {
	gw := newFakeGateway()
	c := New(gw, WithConfirmer(&answer{yes: true}))
	if err := c.Delete(context.Background(), model.Vehicle{}); !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	if len(gw.methods()) != 0 {
		t.Fatalf("expected no calls, got %v", gw.methods())
	}
}

// Two overlapping deletes of the same vehicle both reach the store when
// the in-flight guard is off.
func TestDelete_OverlappingDuplicatesAreNotDeduplicated(t *testing.T) {
	gw := newFakeGateway()
	gw.blockOn = "DELETE"
	gw.release = make(chan struct{})
	gw.entered = make(chan struct{}, 2)
	yes := ConfirmerFunc(func(context.Context, string) bool { return true })
	c := New(gw, WithConfirmer(yes))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Delete(context.Background(), model.Vehicle{ID: 5})
		}()
	}
	<-gw.entered
	<-gw.entered
	close(gw.release)
	wg.Wait()

	deletes := 0
	for _, m := range gw.methods() {
		if m == "DELETE /vehicles/5" {
			deletes++
		}
	}
	if deletes != 2 {
		t.Fatalf("expected two DELETE calls, got %v", gw.methods())
	}
}

func TestDelete_InflightGuardRejectsSecondMutation(t *testing.T) {
	gw := newFakeGateway()
	gw.blockOn = "DELETE"
	gw.release = make(chan struct{})
	gw.entered = make(chan struct{}, 1)
	c := New(gw, WithConfirmer(&answer{yes: true}), WithInflightGuard())

	done := make(chan error, 1)
	go func() { done <- c.Delete(context.Background(), model.Vehicle{ID: 5}) }()
	<-gw.entered

	if err := c.Delete(context.Background(), model.Vehicle{ID: 5}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if err := c.Save(context.Background(), model.Vehicle{ID: 5}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight for save, got %v", err)
	}
	close(gw.release)
	if err := <-done; err != nil {
		t.Fatalf("first delete: %v", err)
	}
	assertCalls(t, gw.methods(), "DELETE /vehicles/5", "GET /vehicles")

	gw.blockOn = ""
	if err := c.Delete(context.Background(), model.Vehicle{ID: 5}); err != nil {
		t.Fatalf("guard must release after completion: %v", err)
	}
}

func TestDismissError_ClearsOnlyError(t *testing.T) {
	gw := newFakeGateway(model.Vehicle{ID: 1})
	c := New(gw)
	_ = c.LoadAll(context.Background())
	gw.failOn["POST"] = errors.New("x")
	_ = c.Save(context.Background(), model.Vehicle{})

	c.DismissError()
	st := c.State()
	if st.Err != nil || len(st.Vehicles) != 1 || st.Loading {
		t.Fatalf("unexpected state after dismiss %+v", st)
	}
}

func TestOnChange_ReceivesSnapshots(t *testing.T) {
	var mu sync.Mutex
	var seen []State
	c := New(newFakeGateway(model.Vehicle{ID: 1}), WithOnChange(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}))
	_ = c.LoadAll(context.Background())
	c.DismissError()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0].Loading || len(seen[0].Vehicles) != 1 {
		t.Fatalf("unexpected snapshots %+v", seen)
	}
	seen[0].Vehicles[0].ID = 99
	if c.State().Vehicles[0].ID != 1 {
		t.Fatalf("snapshot must not alias controller state")
	}
}

func TestResolveForEdit(t *testing.T) {
	gw := newFakeGateway(model.Vehicle{ID: 7, Make: model.String("Ford")})
	c := New(gw)
	if r := c.ResolveForEdit("7"); r.Kind != ResolvePending {
		t.Fatalf("expected pending while loading, got %v", r.Kind)
	}
	_ = c.LoadAll(context.Background())

	cases := map[string]ResolutionKind{
		"7":     ResolveFound,
		"07":    ResolveFound,
		" 7 ":   ResolveFound,
		"new":   ResolveNew,
		"8":     ResolveNotFound,
		"abc":   ResolveNotFound,
		"":      ResolveNotFound,
		"7.5":   ResolveNotFound,
		"NEW ":  ResolveNotFound,
		"7.0":   ResolveFound,
		"7e0":   ResolveFound,
		"+7":    ResolveFound,
		"Inf":   ResolveNotFound,
		"NaN":   ResolveNotFound,
		"1e300": ResolveNotFound,
	}
	for in, want := range cases {
		r := c.ResolveForEdit(in)
		if r.Kind != want {
			t.Fatalf("ResolveForEdit(%q) = %v, want %v", in, r.Kind, want)
		}
		if want == ResolveFound && r.Vehicle.Make.String() != "Ford" {
			t.Fatalf("unexpected vehicle %+v", r.Vehicle)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyAlwaysRefresh {
		t.Fatalf("empty: %v %v", p, err)
	}
	if p, err := ParsePolicy("Refresh_On_Success"); err != nil || p != PolicyRefreshOnSuccess {
		t.Fatalf("refresh_on_success: %v %v", p, err)
	}
	if _, err := ParsePolicy("sometimes"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestOrdered_DoesNotMutateState(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	gw := newFakeGateway(model.Vehicle{ID: 1, UpdatedAt: model.At(t1)}, model.Vehicle{ID: 2, UpdatedAt: model.At(t2)})
	c := New(gw)
	_ = c.LoadAll(context.Background())

	ordered := c.Ordered()
	if ordered[0].ID != 2 || ordered[1].ID != 1 {
		t.Fatalf("unexpected order %+v", ordered)
	}
	if st := c.State(); st.Vehicles[0].ID != 1 {
		t.Fatalf("stored list must keep server order")
	}
}
