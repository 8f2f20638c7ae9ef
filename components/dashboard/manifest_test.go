package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: night-shift
views:
  - code: campaigns
    label: Night Campaigns
    count: 5
    min_delay: 100ms
    max_delay: 200ms
sections:
  - code: night
    label: Night Shift
    views: [campaigns]
    panels: [overview]
    label_localized:
      es: Turno de noche
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Views, 1)
	require.Len(t, doc.Sections, 1)

	view := doc.Views[0]
	assert.Equal(t, "night-shift", doc.Name)
	assert.Equal(t, 5, *view.Count)
	assert.Equal(t, 100*time.Millisecond, *view.MinDelay)
	assert.Nil(t, view.RefreshInterval)
	assert.Equal(t, "Turno de noche", doc.Sections[0].LabelLocalized["es"])
}

func TestDecodeManifestDefaultsVersion(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader("name: bare\n"))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)

	_, err = DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("version: \"1\"\nwidgets: []\n"))
	require.Error(t, err)
}

func TestManifestValidation(t *testing.T) {
	cases := map[string]string{
		"version: \"2\"\n": "unsupported manifest version",
		"views:\n  - code: campaigns\n  - code: campaigns\n":            "duplicates view code",
		"views:\n  - count: 3\n":                                        "missing code",
		"views:\n  - code: campaigns\n    count: -1\n":                  "must not be negative",
		"sections:\n  - code: ops\n":                                    "missing label",
		"sections:\n  - {code: a, label: A}\n  - {code: a, label: B}\n": "duplicates section code",
	}
	for payload, want := range cases {
		_, err := DecodeManifest(strings.NewReader(payload))
		require.Error(t, err, payload)
		assert.Contains(t, err.Error(), want, payload)
	}
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	reg := NewRegistry()
	doc := &ManifestDocument{
		Version: manifestVersionV1,
		Views: []ManifestView{
			{Code: ViewLiveFeed, WindowSize: ptr(30), RefreshInterval: ptr(time.Second)},
		},
		Sections: []ManifestSection{
			{Code: "ops", Label: "Ops", Views: []string{ViewLiveFeed, ViewSystemHealth}},
		},
	}
	require.NoError(t, reg.LoadManifestDocument(doc))

	def, _, ok := reg.View(ViewLiveFeed)
	require.True(t, ok)
	assert.Equal(t, 30, def.WindowSize)
	assert.Equal(t, time.Second, def.RefreshInterval)
	assert.Equal(t, "Live Messages", def.Label)

	sections := reg.Sections()
	assert.Equal(t, "ops", sections[len(sections)-1].Code)
}

func TestRegistryLoadManifestRejectsUnknownReferences(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadManifestDocument(&ManifestDocument{Version: manifestVersionV1, Views: []ManifestView{{Code: "invoices"}}})
	assert.ErrorIs(t, err, ErrViewNotFound)

	err = reg.LoadManifestDocument(&ManifestDocument{Version: manifestVersionV1, Sections: []ManifestSection{{Code: "x", Label: "X", Panels: []string{"forecast"}}}})
	assert.ErrorIs(t, err, ErrPanelNotFound)

	err = reg.LoadManifestDocument(&ManifestDocument{Version: manifestVersionV1, Views: []ManifestView{{Code: ViewCampaigns, MinDelay: ptr(time.Second), MaxDelay: ptr(time.Millisecond)}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay range")
}

func TestDefaultManifestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, DefaultManifest("commsdash")))

	doc, err := DecodeManifest(&buf)
	require.NoError(t, err)
	assert.Len(t, doc.Views, len(DefaultViewDefinitions()))
	assert.Len(t, doc.Sections, len(DefaultSections()))

	reg := NewRegistry()
	require.NoError(t, reg.LoadManifestDocument(doc))
	def, _, _ := reg.View(ViewSystemHealth)
	assert.Equal(t, 5*time.Second, def.RefreshInterval)
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		reg := NewRegistry()
		doc, err := reg.LoadManifestFile(path)
		require.NoErrorf(t, err, "manifest %s should apply", path)
		assert.Equal(t, path, doc.Source)
	}
}
