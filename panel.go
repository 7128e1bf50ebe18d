package sequential

// Panel is one step of a sequence. Everything except ID, Disabled and the
// guards is display payload that navigation never looks at.
type Panel struct {
	ID       PanelID
	Disabled bool

	// CanNavigateFrom is asked before leaving this panel
	CanNavigateFrom Guard
	// CanNavigateTo is asked before entering this panel
	CanNavigateTo Guard

	Title       string
	Description string
	Props       map[string]any
	Content     any
}

// PanelOption is a functional option for configuring a Panel
type PanelOption func(*Panel)

// NewPanel creates a panel with the given options applied
func NewPanel(id PanelID, opts ...PanelOption) Panel {
	p := Panel{ID: id}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithDisabled marks the panel as unreachable
func WithDisabled(disabled bool) PanelOption {
	return func(p *Panel) {
		p.Disabled = disabled
	}
}

// WithCanNavigateFrom sets the leave guard
func WithCanNavigateFrom(g Guard) PanelOption {
	return func(p *Panel) {
		p.CanNavigateFrom = g
	}
}

// WithCanNavigateTo sets the enter guard
func WithCanNavigateTo(g Guard) PanelOption {
	return func(p *Panel) {
		p.CanNavigateTo = g
	}
}

// WithTitle sets the display title
func WithTitle(title string) PanelOption {
	return func(p *Panel) {
		p.Title = title
	}
}

// WithDescription sets the display description
func WithDescription(desc string) PanelOption {
	return func(p *Panel) {
		p.Description = desc
	}
}

// WithProps sets arbitrary display properties
func WithProps(props map[string]any) PanelOption {
	return func(p *Panel) {
		p.Props = props
	}
}

// WithContent attaches renderer-specific content
func WithContent(content any) PanelOption {
	return func(p *Panel) {
		p.Content = content
	}
}
