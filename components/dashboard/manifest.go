package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest tuning views and sections.
type ManifestDocument struct {
	Version  string            `json:"version" yaml:"version"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Views    []ManifestView    `json:"views,omitempty" yaml:"views,omitempty"`
	Sections []ManifestSection `json:"sections,omitempty" yaml:"sections,omitempty"`
	Source   string            `json:"-" yaml:"-"`
}

// ManifestView overrides selected fields of a registered view. Nil fields
// keep the registered value.
type ManifestView struct {
	Code            string         `json:"code" yaml:"code"`
	Label           string         `json:"label,omitempty" yaml:"label,omitempty"`
	Count           *int           `json:"count,omitempty" yaml:"count,omitempty"`
	MinDelay        *time.Duration `json:"min_delay,omitempty" yaml:"min_delay,omitempty"`
	MaxDelay        *time.Duration `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
	RefreshInterval *time.Duration `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
	WindowSize      *int           `json:"window_size,omitempty" yaml:"window_size,omitempty"`
}

// ManifestSection declares or replaces a navigation section.
type ManifestSection struct {
	Code        string   `json:"code" yaml:"code"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Views       []string `json:"views,omitempty" yaml:"views,omitempty"`
	Panels      []string `json:"panels,omitempty" yaml:"panels,omitempty"`
	// LabelLocalized maps locales to labels.
	LabelLocalized map[string]string `json:"label_localized,omitempty" yaml:"label_localized,omitempty"`
}

// DefaultManifest renders the built-in catalog as an editable manifest.
func DefaultManifest(name string) *ManifestDocument {
	doc := &ManifestDocument{Version: ManifestVersion, Name: name}
	for _, def := range DefaultViewDefinitions() {
		view := ManifestView{
			Code:     def.Code,
			Label:    def.Label,
			Count:    ptr(def.Count),
			MinDelay: ptr(def.MinDelay),
			MaxDelay: ptr(def.MaxDelay),
		}
		if def.RefreshInterval > 0 {
			view.RefreshInterval = ptr(def.RefreshInterval)
		}
		if def.WindowSize > 0 {
			view.WindowSize = ptr(def.WindowSize)
		}
		doc.Views = append(doc.Views, view)
	}
	for _, section := range DefaultSections() {
		doc.Sections = append(doc.Sections, ManifestSection(section))
	}
	return doc
}

func ptr[T any](v T) *T { return &v }

// LoadManifestFile reads a manifest from disk, applies it to the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument applies view overrides and then sections.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, view := range doc.Views {
		def, _, ok := r.View(view.Code)
		if !ok {
			return fmt.Errorf("dashboard: manifest %s: %w: %s", doc.Source, ErrViewNotFound, view.Code)
		}
		if err := r.UpdateView(view.apply(def)); err != nil {
			return fmt.Errorf("dashboard: apply view %s from %s: %w", view.Code, doc.Source, err)
		}
	}
	for _, section := range doc.Sections {
		if err := r.RegisterSection(SectionDefinition(section)); err != nil {
			return fmt.Errorf("dashboard: register section %s from %s: %w", section.Code, doc.Source, err)
		}
	}
	return nil
}

func (v ManifestView) apply(def ViewDefinition) ViewDefinition {
	if v.Label != "" {
		def.Label = v.Label
	}
	if v.Count != nil {
		def.Count = *v.Count
	}
	if v.MinDelay != nil {
		def.MinDelay = *v.MinDelay
	}
	if v.MaxDelay != nil {
		def.MaxDelay = *v.MaxDelay
	}
	if v.RefreshInterval != nil {
		def.RefreshInterval = *v.RefreshInterval
	}
	if v.WindowSize != nil {
		def.WindowSize = *v.WindowSize
	}
	return def
}

// ReadManifest loads a manifest file from disk without applying it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *ManifestDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seenViews := make(map[string]struct{}, len(doc.Views))
	for idx, view := range doc.Views {
		if view.Code == "" {
			return fmt.Errorf("dashboard: manifest view at index %d is missing code", idx)
		}
		if _, exists := seenViews[view.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates view code %s", view.Code)
		}
		seenViews[view.Code] = struct{}{}
		if view.Count != nil && *view.Count < 0 {
			return fmt.Errorf("dashboard: manifest view %s count must not be negative", view.Code)
		}
	}
	seenSections := make(map[string]struct{}, len(doc.Sections))
	for idx, section := range doc.Sections {
		if section.Code == "" {
			return fmt.Errorf("dashboard: manifest section at index %d is missing code", idx)
		}
		if section.Label == "" {
			return fmt.Errorf("dashboard: manifest section %s missing label", section.Code)
		}
		if _, exists := seenSections[section.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates section code %s", section.Code)
		}
		seenSections[section.Code] = struct{}{}
	}
	return nil
}

func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
