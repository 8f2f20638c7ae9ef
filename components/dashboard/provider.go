package dashboard

import "context"

// Provider fetches data required to render a panel.
type Provider interface {
	Fetch(ctx context.Context, meta PanelContext) (PanelData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta PanelContext) (PanelData, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, meta PanelContext) (PanelData, error) {
	return f(ctx, meta)
}

// PanelContext contains the metadata needed by providers.
type PanelContext struct {
	Panel     PanelDefinition
	SessionID string
	Viewer    ViewerContext
	Generator *Generator
	Cache     RenderCache
}

// PanelData is an opaque payload passed to templates and JSON clients.
type PanelData map[string]any
