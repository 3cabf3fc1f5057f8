// Package nest provides server-rendered UI components that nest inside each
// other and pass markup down into each other's templates.
//
// A component is a template plus a behavior object. The behavior object is
// any Go value, usually a struct holding the component's parameters; its
// template is found by a naming convention based on its type (see
// RouteResolver), or chosen explicitly with Router or Element.WithRoute.
//
// Markup trees are built from Content: El uses a component, Slot marks
// content destined for a named slot of the nearest enclosing component, and
// HTML, Text, and Fragment hold everything else. For example:
//
//	page := nest.El(Layout{Title: "Home"},
//		nest.Slot("header", nest.HTML("<h1>Welcome</h1>")),
//		nest.El(Card{}, nest.Text("Hello, world.")),
//	)
//
// Rendering happens in a Pass. The Pass walks the tree depth first and
// creates a Node for every Element it reaches. Each Node learns its parent
// from the Pass's ancestor stack, renders its children into its default
// content (slot markers among them write into its slots instead), and only
// then asks the Host to render its template with the Node as the data. So
// by the time a template runs, everything nested inside the component has
// already been rendered, and the template can place it:
//
//	<header>
//	{{ if .IsSlotEmpty "header" }}Untitled{{ else }}{{ .Slot "header" }}{{ end }}
//	</header>
//	<main>{{ .DefaultContent }}</main>
//
// Nothing is shared between Passes, so concurrent requests can each render
// in their own Pass. TemplateHost renders components with html/template from
// a Site's templates, and Handler renders a page per HTTP request.
package nest
