// Package pagefile loads markup trees described in YAML, so pages can be
// rendered without writing Go for every component.
//
// A page file describes a single root node. Every node has exactly one of
// template, slot, html, or text:
//
//	template: layout.html.tmpl
//	props:
//	  title: Home
//	children:
//	  - slot: header
//	    children:
//	      - html: <h1>Welcome</h1>
//	  - template: card.html.tmpl
//	    children:
//	      - text: Fish & chips.
//
// Components are rendered with a Component behavior object, so their
// templates read props as .Component.Props.
package pagefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"impractical.co/nest"
)

// ErrInvalidNode is returned when a node in a page file doesn't have exactly
// one of template, slot, html, or text.
var ErrInvalidNode = errors.New("node must have exactly one of template, slot, html, or text")

// Node is a node of a page file.
type Node struct {
	Template string         `yaml:"template"`
	Props    map[string]any `yaml:"props"`
	Slot     *string        `yaml:"slot"`
	HTML     *string        `yaml:"html"`
	Text     *string        `yaml:"text"`
	Children []Node         `yaml:"children"`
}

// Component is the behavior object for components declared in page files.
type Component struct {
	Route string
	Props map[string]any
}

// TemplateRoute returns the template named in the page file.
func (c Component) TemplateRoute() string {
	return c.Route
}

// Content converts the node and its children into nest.Content. path is
// used in error messages to locate the node.
func (n Node) Content(path string) (nest.Content, error) {
	set := 0
	for _, isSet := range []bool{n.Template != "", n.Slot != nil, n.HTML != nil, n.Text != nil} {
		if isSet {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidNode)
	}
	if (n.HTML != nil || n.Text != nil) && (len(n.Children) > 0 || len(n.Props) > 0) {
		return nil, fmt.Errorf("%s: html and text nodes can't have children or props: %w", path, ErrInvalidNode)
	}

	switch {
	case n.HTML != nil:
		return nest.HTML(*n.HTML), nil
	case n.Text != nil:
		return nest.Text(*n.Text), nil
	}

	children := make([]nest.Content, 0, len(n.Children))
	for pos, child := range n.Children {
		content, err := child.Content(fmt.Sprintf("%s.children[%d]", path, pos))
		if err != nil {
			return nil, err
		}
		children = append(children, content)
	}
	if n.Slot != nil {
		if len(n.Props) > 0 {
			return nil, fmt.Errorf("%s: slots can't have props: %w", path, ErrInvalidNode)
		}
		return nest.Slot(*n.Slot, children...), nil
	}
	return nest.El(Component{Route: n.Template, Props: n.Props}, children...), nil
}

// Parse reads a page file from r.
func Parse(r io.Reader) (nest.Content, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var root Node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("error decoding page: %w", err)
	}
	return root.Content("page")
}

// Load reads the page file at name in fsys.
func Load(fsys fs.FS, name string) (nest.Content, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("error loading %q: %w", name, err)
	}
	return content, nil
}

// PageName returns the page file for a URL path: the index page for the
// root, and the path with a .yaml extension otherwise.
func PageName(urlPath string) (string, error) {
	name := strings.Trim(urlPath, "/")
	if name == "" {
		name = "index"
	}
	name += ".yaml"
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid page path %q: %w", urlPath, fs.ErrNotExist)
	}
	return name, nil
}
