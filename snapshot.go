package sequential

// Snapshot is every query property of a navigator read at one instant.
// Adapters pull one after each call that may complete a transition.
type Snapshot struct {
	CurrentPanel  int     `json:"currentPanel"`
	TotalPanels   int     `json:"totalPanels"`
	CanGoNext     bool    `json:"canGoNext"`
	CanGoPrevious bool    `json:"canGoPrevious"`
	IsFirst       bool    `json:"isFirst"`
	IsLast        bool    `json:"isLast"`
	Progress      float64 `json:"progress"`
	IsNavigating  bool    `json:"isNavigating"`
	PanelID       PanelID `json:"panelId,omitempty"`
}

// Snapshot returns the current state
func (n *Navigator) Snapshot() Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	s := Snapshot{
		CurrentPanel:  n.current,
		TotalPanels:   len(n.panels),
		CanGoNext:     n.canGoNextLocked(),
		CanGoPrevious: n.canGoPreviousLocked(),
		IsFirst:       n.current == 0,
		IsLast:        n.current == len(n.panels)-1,
		Progress:      n.progressLocked(),
		IsNavigating:  n.navigating.Load(),
	}
	if p, ok := panelAt(n.panels, n.current); ok {
		s.PanelID = p.ID
	}
	return s
}
