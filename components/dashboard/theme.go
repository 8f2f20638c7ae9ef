package dashboard

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// ThemeProvider picks the shell theme for a viewer. It is optional; without
// one the shell uses its built-in styles.
type ThemeProvider interface {
	SelectTheme(ctx context.Context, viewer ViewerContext) (*ThemeSelection, error)
}

// ThemeSelection carries resolved theme details.
type ThemeSelection struct {
	Name   string
	Tokens map[string]string
	Assets ThemeAssets
}

// ThemeAssets maps asset names (logo, favicon) to paths under an optional prefix.
type ThemeAssets struct {
	Values map[string]string
	Prefix string
}

// AssetURL resolves the final URL for a named asset.
func (assets ThemeAssets) AssetURL(name string) string {
	path := assets.Values[name]
	if path == "" {
		return ""
	}
	if assets.Prefix != "" && !strings.Contains(path, "://") {
		return strings.TrimRight(assets.Prefix, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return path
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		if name := normalizeCSSVariable(key); name != "" && value != "" {
			vars[name] = value
		}
	}
	return vars
}

// CSSVariablesInline renders the variables as a style attribute value, sorted by name.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	var builder strings.Builder
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

// AssetURL resolves a named asset using the selection assets.
func (theme *ThemeSelection) AssetURL(name string) string {
	if theme == nil {
		return ""
	}
	return theme.Assets.AssetURL(name)
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// StaticTheme serves the same selection to every viewer.
type StaticTheme ThemeSelection

// SelectTheme implements ThemeProvider.
func (t StaticTheme) SelectTheme(context.Context, ViewerContext) (*ThemeSelection, error) {
	selection := ThemeSelection(t)
	selection.Tokens = maps.Clone(t.Tokens)
	selection.Assets.Values = maps.Clone(t.Assets.Values)
	return &selection, nil
}
