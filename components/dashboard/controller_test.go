package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type stubSectionLister struct {
	sections []SectionDefinition
}

func (s stubSectionLister) Sections() []SectionDefinition {
	return append([]SectionDefinition(nil), s.sections...)
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

type failingTheme struct{}

func (failingTheme) SelectTheme(context.Context, ViewerContext) (*ThemeSelection, error) {
	return nil, errors.New("theme store offline")
}

func TestControllerRenderTemplate(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  stubSectionLister{sections: DefaultSections()},
		Renderer: renderer,
		Template: "dashboard.html",
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{UserID: "user"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != "dashboard.html" {
		t.Fatalf("expected dashboard template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	sections := renderer.lastPayload["sections"].([]SectionDefinition)
	if len(sections) != len(DefaultSections()) {
		t.Fatalf("expected every section in payload, got %d", len(sections))
	}
	if renderer.lastPayload["title"] != "Communications Dashboard" || renderer.lastPayload["base_path"] != "/admin" {
		t.Fatalf("unexpected defaults in payload %#v", renderer.lastPayload)
	}
}

func TestControllerRenderRequiresRenderer(t *testing.T) {
	controller := NewController(ControllerOptions{})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatalf("expected error without renderer")
	}
}

func TestControllerPayloadLocalizesSections(t *testing.T) {
	lister := stubSectionLister{sections: []SectionDefinition{
		{Code: "campaigns", Label: "Campaigns", LabelLocalized: map[string]string{"es": "Campañas"}},
		{Code: "reports", Label: "Reports"},
	}}
	controller := NewController(ControllerOptions{
		Service:      lister,
		Translations: MapTranslations{"es": {"dashboard.title": "Panel de comunicaciones"}},
	})

	payload := controller.Payload(context.Background(), ViewerContext{Locale: "es-MX"})
	sections := payload["sections"].([]SectionDefinition)
	if sections[0].Label != "Campañas" || sections[1].Label != "Reports" {
		t.Fatalf("unexpected localized labels %q, %q", sections[0].Label, sections[1].Label)
	}
	if payload["title"] != "Panel de comunicaciones" {
		t.Fatalf("expected translated title, got %v", payload["title"])
	}
	if lister.sections[0].Label != "Campaigns" {
		t.Fatalf("payload must not mutate the source sections")
	}
	if _, ok := payload["theme_css"]; ok {
		t.Fatalf("expected no theme keys without a provider")
	}
}

func TestControllerPayloadTheme(t *testing.T) {
	controller := NewController(ControllerOptions{
		Theme: StaticTheme{
			Name:   "acme",
			Tokens: map[string]string{"nav-bg": "#0f172a"},
			Assets: ThemeAssets{Prefix: "/static", Values: map[string]string{"logo": "logo.svg"}},
		},
	})
	payload := controller.Payload(context.Background(), ViewerContext{})
	if payload["theme_name"] != "acme" || payload["theme_css"] != "--nav-bg: #0f172a;" || payload["logo_url"] != "/static/logo.svg" {
		t.Fatalf("unexpected theme payload %#v", payload)
	}

	failing := NewController(ControllerOptions{Theme: failingTheme{}})
	if _, ok := failing.Payload(context.Background(), ViewerContext{})["theme_name"]; ok {
		t.Fatalf("expected theme keys omitted when selection fails")
	}
}

func TestControllerRendersEmbeddedShell(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}
	controller := NewController(ControllerOptions{
		Service:  stubSectionLister{sections: DefaultSections()},
		Renderer: renderer,
		Title:    "Acme Comms",
	})
	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{Locale: "en"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<title>Acme Comms</title>", `data-section="campaigns"`, `data-view="audit_logs"`, `data-panel="daily_trend"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected shell to contain %q", want)
		}
	}
}
