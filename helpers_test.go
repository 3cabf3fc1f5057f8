package nest_test

import (
	"context"
	"html/template"
	"strings"

	"impractical.co/nest"
)

// box is a behavior object for tests that don't care about parameters. Its
// Name doubles as its template route.
type box struct {
	Name  string
	Inner nest.Content
}

func (b box) TemplateRoute() string {
	return b.Name
}

// boxHost renders every component as <name slot=content ...>default</name>,
// with slots in name order, so tests can assert on structure without
// templates.
func boxHost() nest.HostFunc {
	return func(_ context.Context, route string, model *nest.Node) (template.HTML, error) {
		var out strings.Builder
		out.WriteString("<" + route)
		for _, name := range model.SlotNames() {
			content, err := model.Slot(name)
			if err != nil {
				return "", err
			}
			out.WriteString(" " + name + "=" + string(content))
		}
		out.WriteString(">")
		out.WriteString(string(model.DefaultContent()))
		if b, ok := model.Component().(box); ok && b.Inner != nil {
			inner, err := model.Render(b.Inner)
			if err != nil {
				return "", err
			}
			out.WriteString(string(inner))
		}
		out.WriteString("</" + route + ">")
		return template.HTML(out.String()), nil
	}
}

// parentNames maps each component's route to its parent's route, or "" for
// the root.
func parentNames(pass *nest.Pass) map[string]string {
	res := map[string]string{}
	for _, node := range pass.Nodes() {
		if node.Kind() != nest.KindComponent {
			continue
		}
		parent := node.Parent()
		if parent == nil {
			res[node.Route()] = ""
			continue
		}
		res[node.Route()] = parent.Route()
	}
	return res
}
