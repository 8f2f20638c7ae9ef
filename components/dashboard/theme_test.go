package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeAssetURL(t *testing.T) {
	assets := ThemeAssets{
		Prefix: "/static/",
		Values: map[string]string{
			"logo":    "/brand/logo.svg",
			"favicon": "https://cdn.example.com/favicon.ico",
		},
	}
	assert.Equal(t, "/static/brand/logo.svg", assets.AssetURL("logo"))
	assert.Equal(t, "https://cdn.example.com/favicon.ico", assets.AssetURL("favicon"))
	assert.Equal(t, "", assets.AssetURL("missing"))
	assert.Equal(t, "", (*ThemeSelection)(nil).AssetURL("logo"))
}

func TestThemeCSSVariables(t *testing.T) {
	theme := &ThemeSelection{Tokens: map[string]string{
		"nav-bg":    "#111",
		"--nav-fg":  "#fff",
		"accent":    "",
		"  radius ": "4px",
	}}
	assert.Equal(t, map[string]string{"--nav-bg": "#111", "--nav-fg": "#fff", "--radius": "4px"}, theme.CSSVariables())
	assert.Equal(t, "--nav-bg: #111; --nav-fg: #fff; --radius: 4px;", theme.CSSVariablesInline())
	assert.Equal(t, "", (*ThemeSelection)(nil).CSSVariablesInline())
}

func TestStaticThemeReturnsCopies(t *testing.T) {
	static := StaticTheme{Name: "acme", Tokens: map[string]string{"nav-bg": "#000"}}
	first, err := static.SelectTheme(context.Background(), ViewerContext{})
	require.NoError(t, err)
	first.Tokens["nav-bg"] = "#fff"

	second, err := static.SelectTheme(context.Background(), ViewerContext{})
	require.NoError(t, err)
	assert.Equal(t, "#000", second.Tokens["nav-bg"])
	assert.Equal(t, "acme", second.Name)
}
