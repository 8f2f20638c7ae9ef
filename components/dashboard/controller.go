package dashboard

import (
	"context"
	"errors"
	"io"
)

const defaultTemplate = "dashboard"

// SectionLister is the slice of Service the HTML shell needs.
type SectionLister interface {
	Sections() []SectionDefinition
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  SectionLister
	Renderer Renderer
	Template string
	Title    string
	BasePath string
	// Translations resolves the shell title under the "dashboard.title" key.
	Translations TranslationService
	Theme        ThemeProvider
}

// Controller renders the admin dashboard shell.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.Title == "" {
		opts.Title = "Communications Dashboard"
	}
	if opts.BasePath == "" {
		opts.BasePath = "/admin"
	}
	return &Controller{opts: opts}
}

// Payload builds the data handed to the shell template and JSON clients.
// Section labels and the title are resolved for the viewer locale.
func (c *Controller) Payload(ctx context.Context, viewer ViewerContext) map[string]any {
	var sections []SectionDefinition
	if c.opts.Service != nil {
		sections = c.opts.Service.Sections()
	}
	if sections == nil {
		sections = []SectionDefinition{}
	}
	for i := range sections {
		sections[i].Label = sections[i].LabelForLocale(viewer.Locale)
	}
	payload := map[string]any{
		"title":     translateOrFallback(ctx, c.opts.Translations, "dashboard.title", viewer.Locale, c.opts.Title),
		"base_path": c.opts.BasePath,
		"viewer":    viewer,
		"sections":  sections,
	}
	if theme := c.theme(ctx, viewer); theme != nil {
		payload["theme_name"] = theme.Name
		payload["theme_css"] = theme.CSSVariablesInline()
		payload["logo_url"] = theme.AssetURL("logo")
	}
	return payload
}

// theme returns nil when no provider is set or selection fails; the shell
// then keeps its built-in styles.
func (c *Controller) theme(ctx context.Context, viewer ViewerContext) *ThemeSelection {
	if c.opts.Theme == nil {
		return nil
	}
	selection, err := c.opts.Theme.SelectTheme(ctx, viewer)
	if err != nil {
		return nil
	}
	return selection
}

// RenderTemplate writes the shell HTML for viewer to out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	_, err := c.opts.Renderer.Render(c.opts.Template, c.Payload(ctx, viewer), out)
	return err
}
