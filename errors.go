package nest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRenderContext is returned when something that can only
	// happen during a render pass is attempted without one: rendering
	// with no Host, or using a Node outside the Pass that created it.
	ErrMissingRenderContext = errors.New("missing render context")

	// ErrSlotNotFound is returned when a template asks for a slot that was
	// never declared at the component's usage site. A slot that was
	// declared but left empty is not an error.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrTemplateNotFound is returned when a component's template route
	// doesn't resolve to a template. Hosts should return an error
	// matching it (or fs.ErrNotExist) when the route itself is missing.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrRender is matched by every host failure that isn't a missing
	// template.
	ErrRender = errors.New("error rendering component")

	// ErrOrphanSlot is returned when a slot marker has no enclosing
	// component to write its content into.
	ErrOrphanSlot = errors.New("slot has no enclosing component")

	// ErrSlotNameRequired is returned when a slot marker has an empty
	// name.
	ErrSlotNameRequired = errors.New("slot name is required")

	// ErrStackImbalance is returned when a node tries to pop itself off
	// the ancestor stack but isn't on top of it. It always indicates a
	// bug in whatever is driving the pass.
	ErrStackImbalance = errors.New("ancestor stack imbalance")

	// ErrLifecycle is returned when a node is initialized twice, or
	// processed before it's initialized or after it's finished.
	ErrLifecycle = errors.New("node lifecycle violation")
)

// RenderError is returned when a Host fails to render a component. It
// matches ErrTemplateNotFound when the template route couldn't be resolved
// and ErrRender otherwise, and always unwraps to the Host's error.
type RenderError struct {
	// Route is the template route the Host was asked to render.
	Route string

	// Component is the type name of the behavior object being rendered.
	Component string

	// NotFound is true when Route didn't resolve to a template.
	NotFound bool

	// Err is the error the Host returned.
	Err error
}

func (e *RenderError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("template %q for %s was not found; check that the component's package path and type name match the template's location under the template root: %v", e.Route, e.Component, e.Err)
	}
	return fmt.Sprintf("unexpected error rendering %s with template %q: %v", e.Component, e.Route, e.Err)
}

func (e *RenderError) Unwrap() []error {
	if e.NotFound {
		return []error{ErrTemplateNotFound, e.Err}
	}
	return []error{ErrRender, e.Err}
}

// IsTemplateNotFound reports whether err was caused by a template route
// that couldn't be resolved.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsSlotNotFound reports whether err was caused by a template reading a slot
// that was never declared.
func IsSlotNotFound(err error) bool {
	return errors.Is(err, ErrSlotNotFound)
}
