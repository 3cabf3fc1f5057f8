package nest

import (
	"context"
	"fmt"
	"html/template"
)

// JSEmbedder is an interface that behavior objects can fulfill to include
// some JavaScript that should be embedded directly into the rendered HTML.
// It's collected across the Pass and made available to templates as
// .Pass.EmbeddedJS.
type JSEmbedder interface {
	// EmbedJS returns the JavaScript, without <script> tags, that should
	// be embedded directly in the output HTML.
	EmbedJS(context.Context) template.JS
}

// JSLinker is an interface that behavior objects can fulfill to include
// some JavaScript that should be loaded using a <script> tag with a src
// attribute. The URLs are collected across the Pass and made available to
// templates as .Pass.LinkedJS.
type JSLinker interface {
	// LinkJS returns a list of URLs to JavaScript files that should be
	// linked to from the output HTML.
	LinkJS(context.Context) []string
}

func (r *resources) addJS(ctx context.Context, component any) {
	if embed, ok := component.(JSEmbedder); ok {
		script := embed.EmbedJS(ctx)
		if script != "" && r.firstSighting(string(script)) {
			r.embeddedJS += template.JS(fmt.Sprintf(`
/* embedded JavaScript from %T */
%s`, component, script))
		}
	}
	if link, ok := component.(JSLinker); ok {
		r.linkedJS = appendUnique(r.linkedJS, link.LinkJS(ctx)...)
	}
}

// EmbeddedJS returns the JavaScript embedded by every component initialized
// in the Pass so far, each distinct block once.
func (p *Pass) EmbeddedJS() template.JS {
	return p.resources.embeddedJS
}

// LinkedJS returns the JavaScript URLs linked by every component
// initialized in the Pass so far, each once.
func (p *Pass) LinkedJS() []string {
	return append([]string(nil), p.resources.linkedJS...)
}
