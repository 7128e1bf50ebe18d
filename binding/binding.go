// Package binding mirrors a sequential.Manager into a pushed stream of
// snapshots, for UI layers that re-render on state change instead of
// polling after every call.
//
// A Binding takes over the manager's hook slots. The slots that were
// installed before New still run first, followed by the hooks passed as
// options, so validation layered onto the manager keeps working.
package binding

import (
	"context"
	"log/slog"
	"sync"

	"github.com/librescoot/sequential"
)

// Binding keeps the latest Snapshot of a Manager and publishes it to subscribers
type Binding struct {
	manager *sequential.Manager
	logger  *slog.Logger

	onBefore sequential.BeforeHook
	onAfter  sequential.AfterHook

	mu     sync.Mutex
	state  sequential.Snapshot
	subs   map[int]chan sequential.Snapshot
	nextID int
	closed bool
}

// Option is a functional option for configuring a Binding
type Option func(*Binding)

// WithBeforeNavigate adds a hook that runs after the manager's own before slot
func WithBeforeNavigate(fn sequential.BeforeHook) Option {
	return func(b *Binding) {
		b.onBefore = fn
	}
}

// WithAfterNavigate adds a hook that runs after the state has been refreshed
func WithAfterNavigate(fn sequential.AfterHook) Option {
	return func(b *Binding) {
		b.onAfter = fn
	}
}

// WithLogger sets the logger for the binding
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) {
		b.logger = logger
	}
}

// New binds to m and takes its current state
func New(m *sequential.Manager, opts ...Option) *Binding {
	b := &Binding{
		manager: m,
		logger:  sequential.Logger,
		subs:    make(map[int]chan sequential.Snapshot),
	}
	for _, opt := range opts {
		opt(b)
	}

	originalBefore := m.BeforeNavigateHandler()
	originalAfter := m.AfterNavigateHandler()

	m.OnBeforeNavigate(func(ctx context.Context, event sequential.TransitionEvent) (bool, error) {
		ok, err := originalBefore(ctx, event)
		if err != nil || !ok {
			return false, err
		}
		if b.onBefore != nil {
			return b.onBefore(ctx, event)
		}
		return true, nil
	})

	m.OnAfterNavigate(func(ctx context.Context, event sequential.TransitionEvent) error {
		if err := originalAfter(ctx, event); err != nil {
			return err
		}
		b.refresh()
		if b.onAfter != nil {
			return b.onAfter(ctx, event)
		}
		return nil
	})

	b.state = m.Snapshot()
	return b
}

// Manager returns the bound manager
func (b *Binding) Manager() *sequential.Manager {
	return b.manager
}

// State returns the last published snapshot
func (b *Binding) State() sequential.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Subscribe returns a channel receiving every published snapshot and a
// function that ends the subscription. A subscriber that falls more than
// buffer snapshots behind misses updates; State always has the latest.
func (b *Binding) Subscribe(buffer int) (<-chan sequential.Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan sequential.Snapshot, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Next moves to the following panel and refreshes the state
func (b *Binding) Next(ctx context.Context) bool {
	ok := b.manager.Next(ctx)
	b.refresh()
	return ok
}

// Previous moves to the preceding panel and refreshes the state
func (b *Binding) Previous(ctx context.Context) bool {
	ok := b.manager.Previous(ctx)
	b.refresh()
	return ok
}

// GoTo navigates to index and refreshes the state
func (b *Binding) GoTo(ctx context.Context, index int) bool {
	ok := b.manager.GoTo(ctx, index)
	b.refresh()
	return ok
}

// Current returns the active panel
func (b *Binding) Current() (sequential.Panel, bool) {
	return b.manager.Current()
}

// Panel returns the panel at index
func (b *Binding) Panel(index int) (sequential.Panel, bool) {
	return b.manager.Panel(index)
}

// UpdatePanels hot-swaps the sequence and refreshes the state
func (b *Binding) UpdatePanels(panels []sequential.Panel) {
	b.manager.UpdateConfig(sequential.ConfigUpdate{Panels: panels})
	b.refresh()
}

// Close tears down the manager and ends all subscriptions
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	b.manager.Destroy()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

// refresh re-reads the manager and publishes the snapshot
func (b *Binding) refresh() {
	snap := b.manager.Snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.state = snap
	for id, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			b.logger.Warn("subscriber queue full, dropping snapshot", "subscriber", id, "panel", snap.CurrentPanel)
		}
	}
}
