package sequential

import (
	"context"
	"log/slog"
)

// PanelID is a unique identifier for a panel
type PanelID string

// Direction is the direction of a transition relative to the current panel
type Direction string

const (
	// DirectionNext moves towards a higher index
	DirectionNext Direction = "next"
	// DirectionPrevious moves towards a lower index
	DirectionPrevious Direction = "previous"
	// DirectionNone targets the current index
	DirectionNone Direction = "none"
)

// Guard decides whether a panel may be left or entered.
// It may block; implementations should honour ctx.
type Guard func(ctx context.Context) (bool, error)

// BeforeHook runs after validation and before the index changes.
// Returning false vetoes the transition.
type BeforeHook func(ctx context.Context, event TransitionEvent) (bool, error)

// AfterHook runs once the index has changed
type AfterHook func(ctx context.Context, event TransitionEvent) error

// Logger is the default logger used when none is provided
var Logger = slog.Default()
