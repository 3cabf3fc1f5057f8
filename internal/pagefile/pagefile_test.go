package pagefile_test

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impractical.co/nest"
	"impractical.co/nest/internal/pagefile"
)

const homePage = `
template: layout.html.tmpl
props:
  title: Home
children:
  - slot: header
    children:
      - html: <h1>Welcome</h1>
  - template: card.html.tmpl
    children:
      - text: Fish & chips.
`

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layout.html.tmpl": {Data: []byte(`<title>{{ .Component.Props.title }}</title><header>{{ .Slot "header" }}</header><main>{{ .DefaultContent }}</main>`)},
		"card.html.tmpl":   {Data: []byte(`<div class="card">{{ .DefaultContent }}</div>`)},
	}
}

func TestParseAndRender(t *testing.T) {
	t.Parallel()

	content, err := pagefile.Parse(strings.NewReader(homePage))
	require.NoError(t, err)

	var out bytes.Buffer
	host := nest.NewTemplateHost(nest.NewCachedSite(testTemplates()))
	require.NoError(t, nest.Render(context.Background(), &out, host, content))
	assert.Equal(t, `<title>Home</title><header><h1>Welcome</h1></header><main><div class="card">Fish &amp; chips.</div></main>`, out.String())
}

func TestParseStructure(t *testing.T) {
	t.Parallel()

	content, err := pagefile.Parse(strings.NewReader(homePage))
	require.NoError(t, err)

	root, ok := content.(*nest.Element)
	require.True(t, ok, "expected an element, got %T", content)
	assert.Equal(t, nest.KindComponent, root.Kind())
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty node":         `props: {a: b}`,
		"template and slot":  "template: a.html.tmpl\nslot: header",
		"html and text":      "html: <b>\ntext: b",
		"html with children": "html: <b>\nchildren:\n  - text: a",
		"slot with props":    "slot: header\nprops: {a: b}",
		"invalid child":      "template: a.html.tmpl\nchildren:\n  - {}",
	}
	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := pagefile.Parse(strings.NewReader(page))
			require.ErrorIs(t, err, pagefile.ErrInvalidNode)
		})
	}
}

func TestParseUnknownField(t *testing.T) {
	t.Parallel()

	_, err := pagefile.Parse(strings.NewReader("template: a.html.tmpl\nchildern: []"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, pagefile.ErrInvalidNode)
}

func TestEmptySlotNameIsKept(t *testing.T) {
	t.Parallel()

	// an explicitly empty slot name parses, and fails when rendered
	content, err := pagefile.Parse(strings.NewReader("template: card.html.tmpl\nchildren:\n  - slot: ''"))
	require.NoError(t, err)

	host := nest.NewTemplateHost(nest.NewCachedSite(testTemplates()))
	err = nest.Render(context.Background(), &bytes.Buffer{}, host, content)
	require.ErrorIs(t, err, nest.ErrSlotNameRequired)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	pages := fstest.MapFS{
		"index.yaml":  {Data: []byte(homePage)},
		"broken.yaml": {Data: []byte("text: a\nhtml: b")},
	}

	content, err := pagefile.Load(pages, "index.yaml")
	require.NoError(t, err)
	assert.NotNil(t, content)

	_, err = pagefile.Load(pages, "missing.yaml")
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = pagefile.Load(pages, "broken.yaml")
	require.ErrorIs(t, err, pagefile.ErrInvalidNode)
	assert.Contains(t, err.Error(), `"broken.yaml"`)
}

func TestPageName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/":            "index.yaml",
		"":             "index.yaml",
		"/about":       "about.yaml",
		"/docs/intro/": "docs/intro.yaml",
	}
	for path, want := range tests {
		got, err := pagefile.PageName(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := pagefile.PageName("/../secrets")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
