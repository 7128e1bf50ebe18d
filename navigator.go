package sequential

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const tracerName = "github.com/librescoot/sequential"

// Navigator tracks the position within an ordered sequence of panels and
// runs guarded transitions between them. At most one transition is in
// flight at a time; competing attempts are rejected, never queued.
type Navigator struct {
	mu      sync.RWMutex
	panels  []Panel
	current int

	// navigating is held for the whole of one transition attempt
	navigating atomic.Bool

	loop     bool
	onBefore BeforeHook
	onAfter  AfterHook
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option is a functional option for configuring a Navigator
type Option func(*Navigator)

// WithLoop makes Next and Previous wrap around at the ends of the sequence
func WithLoop(loop bool) Option {
	return func(n *Navigator) {
		n.loop = loop
	}
}

// WithBeforeNavigate sets the hook run after validation, before the index changes
func WithBeforeNavigate(fn BeforeHook) Option {
	return func(n *Navigator) {
		n.onBefore = fn
	}
}

// WithAfterNavigate sets the hook run after the index has changed
func WithAfterNavigate(fn AfterHook) Option {
	return func(n *Navigator) {
		n.onAfter = fn
	}
}

// WithLogger sets the logger for the navigator
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithTracer sets the tracer used for transition spans
func WithTracer(tracer trace.Tracer) Option {
	return func(n *Navigator) {
		n.tracer = tracer
	}
}

// NewNavigator creates a navigator positioned at initial, clamped into range
func NewNavigator(panels []Panel, initial int, opts ...Option) *Navigator {
	n := &Navigator{
		panels: clonePanels(panels),
		logger: Logger,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.current = clamp(initial, len(n.panels))
	return n
}

// CurrentPanel returns the index of the active panel
func (n *Navigator) CurrentPanel() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// TotalPanels returns the number of panels in the sequence
func (n *Navigator) TotalPanels() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.panels)
}

// IsFirst reports whether the first panel is active
func (n *Navigator) IsFirst() bool {
	return n.CurrentPanel() == 0
}

// IsLast reports whether the last panel is active
func (n *Navigator) IsLast() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current == len(n.panels)-1
}

// CanGoPrevious reports whether Previous could start a transition
func (n *Navigator) CanGoPrevious() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.canGoPreviousLocked()
}

// CanGoNext reports whether Next could start a transition
func (n *Navigator) CanGoNext() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.canGoNextLocked()
}

// Progress returns the completion percentage, (current+1)/total*100
func (n *Navigator) Progress() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.progressLocked()
}

// IsNavigating reports whether a transition is in flight
func (n *Navigator) IsNavigating() bool {
	return n.navigating.Load()
}

// Loop reports whether Next and Previous wrap around
func (n *Navigator) Loop() bool {
	return n.loop
}

func (n *Navigator) canGoPreviousLocked() bool {
	if n.navigating.Load() || len(n.panels) == 0 {
		return false
	}
	if n.loop {
		return len(n.panels) > 1
	}
	return n.current != 0
}

func (n *Navigator) canGoNextLocked() bool {
	if n.navigating.Load() || len(n.panels) == 0 {
		return false
	}
	if n.loop {
		return len(n.panels) > 1
	}
	return n.current != len(n.panels)-1
}

func (n *Navigator) progressLocked() float64 {
	if len(n.panels) == 0 {
		return 0
	}
	return float64(n.current+1) / float64(len(n.panels)) * 100
}

// UpdatePanels replaces the sequence. The current index is pulled back onto
// the last panel if it no longer exists. No guards or hooks run.
func (n *Navigator) UpdatePanels(panels []Panel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.panels = clonePanels(panels)
	if n.current >= len(n.panels) {
		n.current = max(0, len(n.panels)-1)
	}

	n.logger.Debug("panels updated", "total", len(n.panels), "current", n.current)
}

// Panels returns a copy of the sequence
func (n *Navigator) Panels() []Panel {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return clonePanels(n.panels)
}

// Current returns the active panel, or false for an empty sequence
func (n *Navigator) Current() (Panel, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return panelAt(n.panels, n.current)
}

// Panel returns the panel at index, or false if there is none
func (n *Navigator) Panel(index int) (Panel, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return panelAt(n.panels, index)
}

// GoTo navigates to index, clamped into range, and reports whether the
// sequence ended up there. Failures never escape; see Navigate for the reason.
func (n *Navigator) GoTo(ctx context.Context, index int) bool {
	return n.Navigate(ctx, index) == nil
}

// Next moves to the following panel, wrapping to the first under loop
func (n *Navigator) Next(ctx context.Context) bool {
	return n.step(ctx, DirectionNext) == nil
}

// Previous moves to the preceding panel, wrapping to the last under loop
func (n *Navigator) Previous(ctx context.Context) bool {
	return n.step(ctx, DirectionPrevious) == nil
}

func (n *Navigator) step(ctx context.Context, dir Direction) error {
	n.mu.RLock()
	total := len(n.panels)
	target := n.current
	var allowed bool
	if dir == DirectionNext {
		allowed = n.canGoNextLocked()
		target++
	} else {
		allowed = n.canGoPreviousLocked()
		target--
	}
	n.mu.RUnlock()

	if !allowed {
		if n.navigating.Load() {
			n.logger.Debug("navigation already in progress", "direction", dir)
			return ErrNavigationConflict
		}
		n.logger.Debug("no panel in direction", "direction", dir, "total", total)
		return fmt.Errorf("%w: no %s panel", ErrNavigationBlocked, dir)
	}

	if n.loop {
		switch {
		case target >= total:
			target = 0
		case target < 0:
			target = total - 1
		}
	}

	return n.Navigate(ctx, target)
}

// Navigate is GoTo with the reason for a failed transition. It returns nil
// when the sequence is at the clamped index afterwards, ErrNavigationConflict
// when another transition is in flight, an error wrapping ErrNavigationBlocked
// when a guard or hook declined, and a *NavigationError when one failed.
func (n *Navigator) Navigate(ctx context.Context, index int) error {
	if n.navigating.Load() {
		n.logger.Debug("navigation already in progress", "target", index)
		return ErrNavigationConflict
	}

	n.mu.RLock()
	same := clamp(index, len(n.panels)) == n.current
	n.mu.RUnlock()
	if same {
		return nil
	}

	if !n.navigating.CompareAndSwap(false, true) {
		n.logger.Debug("navigation already in progress", "target", index)
		return ErrNavigationConflict
	}
	defer n.navigating.Store(false)

	// Re-read now that no other transition can commit
	n.mu.RLock()
	from := n.current
	to := clamp(index, len(n.panels))
	src, srcOK := panelAt(n.panels, from)
	dst, dstOK := panelAt(n.panels, to)
	n.mu.RUnlock()

	if from == to {
		return nil
	}

	event := newTransitionEvent(from, to, dst)
	ctx, span := n.tracer.Start(ctx, "sequential.navigate", trace.WithAttributes(
		attribute.String("sequential.transition.id", event.ID),
		attribute.Int("sequential.from", from),
		attribute.Int("sequential.to", to),
		attribute.String("sequential.direction", string(event.Direction)),
		attribute.String("sequential.panel.id", string(dst.ID)),
	))
	defer span.End()

	n.logger.Debug("executing transition", "id", event.ID, "from", from, "to", to, "direction", event.Direction)

	var err error
	if !srcOK || !dstOK {
		err = fmt.Errorf("%w: %d->%d", ErrPanelNotFound, from, to)
	} else {
		err = n.transition(ctx, event, src, dst)
	}

	n.finish(span, event, err)
	return err
}

// transition runs validation, hooks and the commit for one attempt
func (n *Navigator) transition(ctx context.Context, event TransitionEvent, src, dst Panel) error {
	if err := n.validate(ctx, event, src, dst); err != nil {
		return err
	}

	if n.onBefore != nil {
		ok, err := protect(OpBeforeNavigate, event, func() (bool, error) {
			return n.onBefore(ctx, event)
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: declined by before-navigate hook", ErrNavigationBlocked)
		}
	}

	if err := ctx.Err(); err != nil {
		return &NavigationError{Op: OpCommit, Event: event, Err: err}
	}

	if err := n.commit(event); err != nil {
		return err
	}

	if n.onAfter != nil {
		_, err := protect(OpAfterNavigate, event, func() (struct{}, error) {
			return struct{}{}, n.onAfter(ctx, event)
		})
		return err
	}

	return nil
}

// validate checks the destination and asks the leave guard, then the enter guard
func (n *Navigator) validate(ctx context.Context, event TransitionEvent, src, dst Panel) error {
	if dst.Disabled {
		return fmt.Errorf("%w: panel %q is disabled", ErrNavigationBlocked, dst.ID)
	}

	if src.CanNavigateFrom != nil {
		ok, err := protect(OpCanNavigateFrom, event, func() (bool, error) {
			return src.CanNavigateFrom(ctx)
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: panel %q cannot be left", ErrNavigationBlocked, src.ID)
		}
	}

	if dst.CanNavigateTo != nil {
		ok, err := protect(OpCanNavigateTo, event, func() (bool, error) {
			return dst.CanNavigateTo(ctx)
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: panel %q cannot be entered", ErrNavigationBlocked, dst.ID)
		}
	}

	return nil
}

func (n *Navigator) commit(event TransitionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	// The sequence may have been swapped while guards ran
	if event.To >= len(n.panels) {
		return fmt.Errorf("%w: index %d after panel update", ErrPanelNotFound, event.To)
	}
	if id := n.panels[event.To].ID; id != event.Panel.ID {
		return fmt.Errorf("%w: panel %q at %d replaced by %q", ErrPanelNotFound, event.Panel.ID, event.To, id)
	}
	if n.current != event.From {
		n.logger.Debug("panels updated during transition", "id", event.ID, "from", event.From, "current", n.current)
	}
	n.current = event.To
	return nil
}

// finish records the outcome of an attempt on its span and the log
func (n *Navigator) finish(span trace.Span, event TransitionEvent, err error) {
	switch {
	case err == nil:
		span.SetAttributes(attribute.String("sequential.outcome", "committed"))
		n.logger.Debug("navigation committed", "id", event.ID, "from", event.From, "to", event.To)
	case IsBlocked(err):
		span.SetAttributes(attribute.String("sequential.outcome", "blocked"))
		n.logger.Debug("navigation blocked", "id", event.ID, "from", event.From, "to", event.To, "reason", err)
	default:
		span.SetAttributes(attribute.String("sequential.outcome", "failed"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.logger.Error("navigation failed", "id", event.ID, "from", event.From, "to", event.To, "error", err)
	}
}

// protect calls a guard or hook, turning errors and panics into a NavigationError
func protect[T any](op string, event TransitionEvent, fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NavigationError{Op: op, Event: event, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	v, err = fn()
	if err != nil {
		err = &NavigationError{Op: op, Event: event, Err: err}
	}
	return v, err
}

func clamp(index, total int) int {
	if total == 0 || index < 0 {
		return 0
	}
	if index > total-1 {
		return total - 1
	}
	return index
}

func panelAt(panels []Panel, index int) (Panel, bool) {
	if index < 0 || index >= len(panels) {
		return Panel{}, false
	}
	return panels[index], true
}

func clonePanels(panels []Panel) []Panel {
	if panels == nil {
		return []Panel{}
	}
	out := make([]Panel, len(panels))
	copy(out, panels)
	return out
}
