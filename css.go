package nest

import (
	"context"
	"fmt"
	"html/template"
)

// CSSEmbedder is an interface that behavior objects can fulfill to include
// some CSS that should be embedded directly into the rendered HTML. Every
// component's embedded CSS is collected across the Pass and made available
// to templates as .Pass.EmbeddedCSS.
type CSSEmbedder interface {
	// EmbedCSS returns the CSS, without <style> tags, that should be
	// embedded directly in the output HTML.
	EmbedCSS(context.Context) template.CSS
}

// CSSLinker is an interface that behavior objects can fulfill to include
// some CSS that should be loaded through a <link> element. Every component's
// links are collected across the Pass and made available to templates as
// .Pass.LinkedCSS.
type CSSLinker interface {
	// LinkCSS returns a list of URLs to CSS files that should be linked to
	// from the output HTML.
	LinkCSS(context.Context) []string
}

func (r *resources) addCSS(ctx context.Context, component any) {
	if embed, ok := component.(CSSEmbedder); ok {
		css := embed.EmbedCSS(ctx)
		if css != "" && r.firstSighting(string(css)) {
			r.embeddedCSS += template.CSS(fmt.Sprintf(`
/* embedded CSS from %T */
%s`, component, css)) // #nosec G203
		}
	}
	if link, ok := component.(CSSLinker); ok {
		r.linkedCSS = appendUnique(r.linkedCSS, link.LinkCSS(ctx)...)
	}
}

// EmbeddedCSS returns the CSS embedded by every component initialized in
// the Pass so far, each distinct block once, outermost component first.
// Layouts are initialized first and rendered last, so a layout's template
// sees the CSS of everything nested in it.
func (p *Pass) EmbeddedCSS() template.CSS {
	return p.resources.embeddedCSS
}

// LinkedCSS returns the CSS URLs linked by every component initialized in
// the Pass so far, each once, in the order they were first seen.
func (p *Pass) LinkedCSS() []string {
	return append([]string(nil), p.resources.linkedCSS...)
}
