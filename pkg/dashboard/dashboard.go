// Package dashboard re-exports the communications dashboard core for
// embedding applications.
package dashboard

import (
	core "github.com/goliatone/go-commsdash/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext identifies the user attached to a session.
type ViewerContext = core.ViewerContext

// Registry holds view, panel and section definitions.
type Registry = core.Registry

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewRegistry returns a registry seeded with the default sections.
func NewRegistry() *Registry {
	return core.NewRegistry()
}
