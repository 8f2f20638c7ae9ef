package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// RegistryHook lets packages register views, panels or sections during init().
type RegistryHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []RegistryHook
)

// RegisterRegistryHook registers a hook executed against new registries.
func RegisterRegistryHook(h RegistryHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores the view, panel and section catalog.
type Registry struct {
	mu        sync.RWMutex
	views     map[string]ViewDefinition
	factories map[string]ViewFactory
	panels    map[string]PanelDefinition
	providers map[string]Provider
	sections  []SectionDefinition
}

// NewRegistry builds a registry holding the built-in catalog and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		views:     map[string]ViewDefinition{},
		factories: map[string]ViewFactory{},
		panels:    map[string]PanelDefinition{},
		providers: map[string]Provider{},
	}
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultViewDefinitions() {
		_ = r.RegisterView(def, defaultViewFactories[def.Code])
	}
	for _, def := range DefaultPanelDefinitions() {
		_ = r.RegisterPanel(def)
		if provider, ok := defaultProviders[def.Code]; ok {
			_ = r.RegisterProvider(def.Code, provider)
		}
	}
	for _, section := range DefaultSections() {
		_ = r.RegisterSection(section)
	}
}

// ApplyHooks executes registered hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterView stores a view definition with the factory that builds it.
func (r *Registry) RegisterView(def ViewDefinition, factory ViewFactory) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("dashboard: view %s factory cannot be nil", def.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[def.Code] = def
	r.factories[def.Code] = factory
	return nil
}

// UpdateView replaces the tuning of an existing view, keeping its factory.
func (r *Registry) UpdateView(def ViewDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[def.Code]; !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, def.Code)
	}
	r.views[def.Code] = def
	return nil
}

// RegisterPanel stores panel metadata.
func (r *Registry) RegisterPanel(def PanelDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("dashboard: panel code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panels[def.Code] = def
	return nil
}

// RegisterProvider associates a data provider with a panel.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if code == "" {
		return fmt.Errorf("dashboard: panel code is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("dashboard: provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.panels[code]; !ok {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, code)
	}
	r.providers[code] = provider
	return nil
}

// RegisterSection adds a section or replaces the one with the same code.
// Every referenced view and panel must already be registered.
func (r *Registry) RegisterSection(section SectionDefinition) error {
	if section.Code == "" {
		return fmt.Errorf("dashboard: section code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range section.Views {
		if _, ok := r.views[code]; !ok {
			return fmt.Errorf("dashboard: section %s: %w: %s", section.Code, ErrViewNotFound, code)
		}
	}
	for _, code := range section.Panels {
		if _, ok := r.panels[code]; !ok {
			return fmt.Errorf("dashboard: section %s: %w: %s", section.Code, ErrPanelNotFound, code)
		}
	}
	section.Views = slices.Clone(section.Views)
	section.Panels = slices.Clone(section.Panels)
	section.LabelLocalized = normalizeLocaleMap(section.LabelLocalized)
	if idx := slices.IndexFunc(r.sections, func(s SectionDefinition) bool { return s.Code == section.Code }); idx >= 0 {
		r.sections[idx] = section
		return nil
	}
	r.sections = append(r.sections, section)
	return nil
}

// View fetches a view definition and its factory.
func (r *Registry) View(code string) (ViewDefinition, ViewFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.views[code]
	return def, r.factories[code], ok
}

// Panel fetches a panel definition by code.
func (r *Registry) Panel(code string) (PanelDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.panels[code]
	return def, ok
}

// Provider fetches a panel provider by code.
func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// Section fetches a section by code.
func (r *Registry) Section(code string) (SectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, section := range r.sections {
		if section.Code == code {
			return section, true
		}
	}
	return SectionDefinition{}, false
}

// Sections returns the sections in registration order.
func (r *Registry) Sections() []SectionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sections)
}

// Views returns every view definition ordered by code.
func (r *Registry) Views() []ViewDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ViewDefinition, 0, len(r.views))
	for _, def := range r.views {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b ViewDefinition) int { return cmp.Compare(a.Code, b.Code) })
	return defs
}

// Panels returns every panel definition ordered by code.
func (r *Registry) Panels() []PanelDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]PanelDefinition, 0, len(r.panels))
	for _, def := range r.panels {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b PanelDefinition) int { return cmp.Compare(a.Code, b.Code) })
	return defs
}
