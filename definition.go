package sequential

import (
	"fmt"
)

// Definition holds a sequence description before building a Manager
type Definition struct {
	panels  []Panel
	initial int
	loop    bool

	// Options for panels addressed by id, applied at Build
	configure []panelConfig
}

type panelConfig struct {
	id   PanelID
	opts []PanelOption
}

// NewDefinition creates a new sequence definition builder
func NewDefinition() *Definition {
	return &Definition{
		panels: make([]Panel, 0),
	}
}

// Panel appends a panel to the sequence
func (d *Definition) Panel(id PanelID, opts ...PanelOption) *Definition {
	d.panels = append(d.panels, NewPanel(id, opts...))
	return d
}

// Configure applies options to an already declared panel, typically to
// attach guards to panels loaded from a file
func (d *Definition) Configure(id PanelID, opts ...PanelOption) *Definition {
	d.configure = append(d.configure, panelConfig{id: id, opts: opts})
	return d
}

// Initial sets the starting index. It is clamped when the manager is built.
func (d *Definition) Initial(index int) *Definition {
	d.initial = index
	return d
}

// Loop enables wrap-around navigation
func (d *Definition) Loop(loop bool) *Definition {
	d.loop = loop
	return d
}

// Validate checks the definition for errors
func (d *Definition) Validate() error {
	seen := make(map[PanelID]int, len(d.panels))
	for i, p := range d.panels {
		if p.ID == "" {
			return fmt.Errorf("panel %d has no id", i)
		}
		if prev, ok := seen[p.ID]; ok {
			return fmt.Errorf("panel %q declared at %d and %d", p.ID, prev, i)
		}
		seen[p.ID] = i
	}

	for _, c := range d.configure {
		if _, ok := seen[c.id]; !ok {
			return fmt.Errorf("configure references undefined panel %q", c.id)
		}
	}

	return nil
}

// Panels returns the sequence with Configure options applied
func (d *Definition) Panels() []Panel {
	panels := clonePanels(d.panels)
	for _, c := range d.configure {
		for i := range panels {
			if panels[i].ID != c.id {
				continue
			}
			for _, opt := range c.opts {
				opt(&panels[i])
			}
		}
	}
	return panels
}

// Config returns the Manager configuration described by the definition
func (d *Definition) Config() Config {
	return Config{
		Panels:       d.Panels(),
		CurrentPanel: d.initial,
		Loop:         d.loop,
	}
}

// Build creates a Manager from the definition
func (d *Definition) Build(opts ...Option) (*Manager, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return NewManager(d.Config(), opts...), nil
}
