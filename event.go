package sequential

import "github.com/google/uuid"

// TransitionEvent describes one transition attempt. Panel is the destination.
type TransitionEvent struct {
	ID        string // Correlates hook calls, log records and spans of one attempt
	From      int
	To        int
	Direction Direction
	Panel     Panel
}

func directionOf(from, to int) Direction {
	switch {
	case to > from:
		return DirectionNext
	case to < from:
		return DirectionPrevious
	default:
		return DirectionNone
	}
}

func newTransitionEvent(from, to int, panel Panel) TransitionEvent {
	return TransitionEvent{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Direction: directionOf(from, to),
		Panel:     panel,
	}
}
