package nest

import (
	"fmt"
	"path"
	"reflect"
	"strings"
)

// DefaultTemplateExtension is appended to routes derived from a component's
// type when a RouteResolver doesn't set its own.
const DefaultTemplateExtension = ".html.tmpl"

// Router is an interface that behavior objects can fulfill to choose their
// own template route instead of the one derived from their type.
type Router interface {
	// TemplateRoute returns the path of the component's template within
	// the Host's templates.
	TemplateRoute() string
}

// RouteResolver derives template routes from component types.
//
// A component of type Card declared in package example.com/site/views, with
// a Module of example.com/site, resolves to views/Card.html.tmpl: the module
// prefix is stripped so the route is relative to the template root, and the
// rest of the package path becomes the directory.
type RouteResolver struct {
	// Module is the import path prefix stripped from package paths. It's
	// usually the path in go.mod.
	Module string

	// Extension is appended to the type name. DefaultTemplateExtension is
	// used if it's empty.
	Extension string
}

// Route returns the template route for component. Components implementing
// Router choose their own; everything else gets a route from its type.
func (r RouteResolver) Route(component any) (string, error) {
	if component == nil {
		return "", fmt.Errorf("can't resolve a template route for a nil component: %w", ErrTemplateNotFound)
	}
	if router, ok := component.(Router); ok {
		return router.TemplateRoute(), nil
	}
	return r.TypeRoute(reflect.TypeOf(component))
}

// TypeRoute returns the template route derived from typ.
func (r RouteResolver) TypeRoute(typ reflect.Type) (string, error) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" || typ.PkgPath() == "" {
		return "", fmt.Errorf("can't derive a template route for unnamed type %s: %w", typ, ErrTemplateNotFound)
	}
	ext := r.Extension
	if ext == "" {
		ext = DefaultTemplateExtension
	}
	dir := typ.PkgPath()
	if r.Module != "" && (dir == r.Module || strings.HasPrefix(dir, r.Module+"/")) {
		dir = strings.TrimPrefix(strings.TrimPrefix(dir, r.Module), "/")
	}
	name := typ.Name()
	// generic instantiations carry their type arguments in the name
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return path.Join(dir, name+ext), nil
}
