package nest

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
)

// Host turns a component's template route and its Node into markup. The
// Node is the template's data, so templates read parameters through
// .Component, child content through .DefaultContent, and named slots
// through .Slot.
//
// TemplateHost is the html/template implementation; anything else that can
// render a route will do.
type Host interface {
	// Render renders the template at route with model as its data.
	//
	// If route doesn't resolve to a template, the returned error should
	// match ErrTemplateNotFound or fs.ErrNotExist.
	Render(ctx context.Context, route string, model *Node) (template.HTML, error)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ctx context.Context, route string, model *Node) (template.HTML, error)

// Render calls f.
func (f HostFunc) Render(ctx context.Context, route string, model *Node) (template.HTML, error) {
	return f(ctx, route, model)
}

// translateHostError wraps an error returned by a Host in a RenderError,
// deciding whether it means n's template is missing.
//
// Errors from components nested inside n's template have already been
// translated; those mean n's template was found and failed, even if the
// nested failure was a missing template.
func translateHostError(n *Node, err error) error {
	var nested *RenderError
	notFound := !errors.As(err, &nested) &&
		(errors.Is(err, ErrTemplateNotFound) || errors.Is(err, fs.ErrNotExist))
	return &RenderError{
		Route:     n.route,
		Component: n.ComponentName(),
		NotFound:  notFound,
		Err:       err,
	}
}
