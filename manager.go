package sequential

import (
	"context"
	"sync"
)

// Config describes a sequence and where navigation starts
type Config struct {
	Panels       []Panel
	CurrentPanel int
	Loop         bool
}

// ConfigUpdate is a partial Config. Nil fields are left unchanged.
type ConfigUpdate struct {
	Panels       []Panel
	CurrentPanel *int
	Loop         *bool
}

// Manager wraps a Navigator with the configuration it was built from and
// two replaceable hook slots. Adapters replace the slots to layer in their
// own validation or to refresh state after each transition.
type Manager struct {
	nav *Navigator

	mu     sync.RWMutex
	config Config
	before BeforeHook
	after  AfterHook
}

// NewManager creates a manager for cfg. Hooks given through options become
// the initial slot values; without them the slots approve and do nothing.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		config: cloneConfig(cfg),
		before: DefaultBeforeNavigate,
		after:  DefaultAfterNavigate,
	}

	opts = append([]Option{WithLoop(cfg.Loop)}, opts...)
	m.nav = NewNavigator(cfg.Panels, cfg.CurrentPanel, opts...)

	if m.nav.onBefore != nil {
		m.before = m.nav.onBefore
	}
	if m.nav.onAfter != nil {
		m.after = m.nav.onAfter
	}
	m.nav.onBefore = m.handleBeforeNavigate
	m.nav.onAfter = m.handleAfterNavigate

	return m
}

// DefaultBeforeNavigate approves every transition
func DefaultBeforeNavigate(context.Context, TransitionEvent) (bool, error) {
	return true, nil
}

// DefaultAfterNavigate does nothing
func DefaultAfterNavigate(context.Context, TransitionEvent) error {
	return nil
}

func (m *Manager) handleBeforeNavigate(ctx context.Context, event TransitionEvent) (bool, error) {
	return m.BeforeNavigateHandler()(ctx, event)
}

func (m *Manager) handleAfterNavigate(ctx context.Context, event TransitionEvent) error {
	return m.AfterNavigateHandler()(ctx, event)
}

// BeforeNavigateHandler returns the hook currently in the before slot
func (m *Manager) BeforeNavigateHandler() BeforeHook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.before
}

// AfterNavigateHandler returns the hook currently in the after slot
func (m *Manager) AfterNavigateHandler() AfterHook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.after
}

// OnBeforeNavigate replaces the before slot. nil restores the default.
func (m *Manager) OnBeforeNavigate(fn BeforeHook) {
	if fn == nil {
		fn = DefaultBeforeNavigate
	}
	m.mu.Lock()
	m.before = fn
	m.mu.Unlock()
}

// OnAfterNavigate replaces the after slot. nil restores the default.
func (m *Manager) OnAfterNavigate(fn AfterHook) {
	if fn == nil {
		fn = DefaultAfterNavigate
	}
	m.mu.Lock()
	m.after = fn
	m.mu.Unlock()
}

func (m *Manager) CurrentPanel() int   { return m.nav.CurrentPanel() }
func (m *Manager) TotalPanels() int    { return m.nav.TotalPanels() }
func (m *Manager) CanGoNext() bool     { return m.nav.CanGoNext() }
func (m *Manager) CanGoPrevious() bool { return m.nav.CanGoPrevious() }
func (m *Manager) IsFirst() bool       { return m.nav.IsFirst() }
func (m *Manager) IsLast() bool        { return m.nav.IsLast() }
func (m *Manager) Progress() float64   { return m.nav.Progress() }
func (m *Manager) IsNavigating() bool  { return m.nav.IsNavigating() }
func (m *Manager) Snapshot() Snapshot  { return m.nav.Snapshot() }

// Next moves to the following panel
func (m *Manager) Next(ctx context.Context) bool {
	return m.nav.Next(ctx)
}

// Previous moves to the preceding panel
func (m *Manager) Previous(ctx context.Context) bool {
	return m.nav.Previous(ctx)
}

// GoTo navigates to index
func (m *Manager) GoTo(ctx context.Context, index int) bool {
	return m.nav.GoTo(ctx, index)
}

// Navigate navigates to index and reports why it did not get there
func (m *Manager) Navigate(ctx context.Context, index int) error {
	return m.nav.Navigate(ctx, index)
}

// UpdateConfig merges update into the stored configuration and hands a new
// panel list to the navigator. Loop and CurrentPanel only change the stored copy.
func (m *Manager) UpdateConfig(update ConfigUpdate) {
	m.mu.Lock()
	if update.Panels != nil {
		m.config.Panels = clonePanels(update.Panels)
	}
	if update.CurrentPanel != nil {
		m.config.CurrentPanel = *update.CurrentPanel
	}
	if update.Loop != nil {
		m.config.Loop = *update.Loop
	}
	m.mu.Unlock()

	if update.Panels != nil {
		m.nav.UpdatePanels(update.Panels)
	}
}

// Config returns a copy of the stored configuration
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConfig(m.config)
}

// Current returns the active panel
func (m *Manager) Current() (Panel, bool) {
	return m.nav.Current()
}

// Panel returns the panel at index
func (m *Manager) Panel(index int) (Panel, bool) {
	return m.nav.Panel(index)
}

// Destroy releases adapter resources. The manager itself holds none.
func (m *Manager) Destroy() {
	m.nav.logger.Debug("manager destroyed", "total", m.nav.TotalPanels())
}

func cloneConfig(cfg Config) Config {
	cfg.Panels = clonePanels(cfg.Panels)
	return cfg
}
