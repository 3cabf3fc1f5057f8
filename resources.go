package nest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"slices"
)

// resources collects the CSS and JavaScript that the components in a Pass
// ask to have included in the page.
type resources struct {
	seen        map[string]struct{}
	embeddedCSS template.CSS
	linkedCSS   []string
	embeddedJS  template.JS
	linkedJS    []string
}

// firstSighting reports whether an embedded block with these contents is
// being seen for the first time, and remembers it.
func (r *resources) firstSighting(contents string) bool {
	sum := sha256.Sum256([]byte(contents))
	checksum := hex.EncodeToString(sum[:])
	if _, ok := r.seen[checksum]; ok {
		return false
	}
	if r.seen == nil {
		r.seen = map[string]struct{}{}
	}
	r.seen[checksum] = struct{}{}
	return true
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if slices.Contains(list, item) {
			continue
		}
		list = append(list, item)
	}
	return list
}

func (p *Pass) collectResources(ctx context.Context, n *Node) {
	if n.kind != KindComponent || n.component == nil {
		return
	}
	p.resources.addCSS(ctx, n.component)
	p.resources.addJS(ctx, n.component)
}
