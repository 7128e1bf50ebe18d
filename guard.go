package sequential

import "context"

// Allow is a guard that always permits navigation
func Allow(context.Context) (bool, error) { return true, nil }

// Deny is a guard that always blocks navigation
func Deny(context.Context) (bool, error) { return false, nil }

// GuardFunc adapts a plain predicate to a Guard
func GuardFunc(fn func() bool) Guard {
	return func(context.Context) (bool, error) {
		return fn(), nil
	}
}

// AllGuards combines guards that must ALL pass (AND logic).
// Evaluation stops at the first guard that blocks or fails.
func AllGuards(guards ...Guard) Guard {
	return func(ctx context.Context) (bool, error) {
		for _, g := range guards {
			if g == nil {
				continue
			}
			ok, err := g(ctx)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}
