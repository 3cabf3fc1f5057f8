package nest

import (
	"context"
	"html/template"
	"io"
)

// Content is a piece of a markup tree that can be written during a render
// pass. Elements, HTML, Text, and Fragments are all Content.
type Content interface {
	// WriteContent writes the Content to w as part of the passed Pass.
	WriteContent(ctx context.Context, pass *Pass, w io.Writer) error
}

// HTML is trusted markup that is written as-is.
type HTML string

// WriteContent writes the markup to w unchanged.
func (h HTML) WriteContent(_ context.Context, _ *Pass, w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// Text is plain text that is HTML-escaped when it's written.
type Text string

// WriteContent writes the escaped text to w.
func (t Text) WriteContent(_ context.Context, _ *Pass, w io.Writer) error {
	_, err := io.WriteString(w, template.HTMLEscapeString(string(t)))
	return err
}

// Fragment is a sequence of Content written one after the other.
type Fragment []Content

// WriteContent writes every piece of Content in the Fragment to w, in
// order, stopping at the first error.
func (f Fragment) WriteContent(ctx context.Context, pass *Pass, w io.Writer) error {
	for _, content := range f {
		if content == nil {
			continue
		}
		if err := content.WriteContent(ctx, pass, w); err != nil {
			return err
		}
	}
	return nil
}

// Element is a single use of a component, or a slot marker, in a markup
// tree. Elements are immutable and can be shared between concurrent passes;
// each Pass creates its own Node every time it reaches an Element.
type Element struct {
	kind      Kind
	component any
	route     string
	slot      string
	children  Fragment
}

// El returns an Element that renders component with its template. The
// children become the component's default content, and any slot markers
// among them fill the component's named slots.
//
// component is the behavior object exposed to the template as
// .Component; it's usually a struct holding the component's parameters.
func El(component any, children ...Content) *Element {
	return &Element{
		kind:      KindComponent,
		component: component,
		children:  children,
	}
}

// Slot returns a slot marker Element. Instead of rendering anything, it
// captures its children and stores them in the nearest enclosing component
// under name, where that component's template can read them with
// .Slot.
func Slot(name string, children ...Content) *Element {
	return &Element{
		kind:     KindSlotMarker,
		slot:     name,
		children: children,
	}
}

// WithRoute returns a copy of the Element that renders the template at
// route instead of the one its component would otherwise resolve to.
func (e *Element) WithRoute(route string) *Element {
	res := *e
	res.route = route
	return &res
}

// Kind returns whether the Element is a component or a slot marker.
func (e *Element) Kind() Kind {
	return e.kind
}

// WriteContent initializes and processes a Node for the Element in pass,
// writing whatever it renders to w.
func (e *Element) WriteContent(ctx context.Context, pass *Pass, w io.Writer) error {
	if pass == nil {
		return ErrMissingRenderContext
	}
	return pass.renderElement(ctx, e, w)
}
