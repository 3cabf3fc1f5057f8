package nest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

var (
	// ErrNoTemplateDir is returned when a TemplateHost's Site doesn't
	// supply any templates.
	ErrNoTemplateDir = errors.New("site has no template directory")

	// ErrTemplatePatternMatchesNoFiles is returned when a component asks
	// for extra templates with a pattern, but that pattern doesn't match
	// any files.
	ErrTemplatePatternMatchesNoFiles = errors.New("pattern matches no files")
)

// Templater is an interface that behavior objects can fulfill to have more
// templates parsed alongside their own, usually partials shared between
// components. Paths may be fs.Glob patterns.
type Templater interface {
	// Templates returns a list of paths or patterns to html/template
	// contents that need to be parsed before the component can be
	// rendered.
	Templates(context.Context) []string
}

// FuncMapExtender is an interface that Sites and behavior objects can fulfill
// to add to the map of functions available to templates when rendering.
// Functions from the behavior object override the Site's.
type FuncMapExtender interface {
	// FuncMap returns an html/template.FuncMap containing all the
	// functions being added to the FuncMap.
	FuncMap(context.Context) template.FuncMap
}

var _ Host = &TemplateHost{}

// TemplateHost is a Host that renders components with html/template, using
// the templates in a Site's TemplateDir. The template at a component's route
// is executed with the component's Node as its data, and the Site is
// available to it through the "site" function.
type TemplateHost struct {
	site Site
}

// NewTemplateHost returns a TemplateHost that renders templates from site.
func NewTemplateHost(site Site) *TemplateHost {
	return &TemplateHost{site: site}
}

// Site returns the Site the TemplateHost renders templates from.
func (h *TemplateHost) Site() Site {
	return h.site
}

// ServerErrorPage returns the Site's server error page, if the Site is a
// ServerErrorPager.
func (h *TemplateHost) ServerErrorPage(ctx context.Context) Content {
	if pager, ok := h.site.(ServerErrorPager); ok {
		return pager.ServerErrorPage(ctx)
	}
	return nil
}

// Render parses the template at route, along with any extra templates the
// component asks for, and executes it with model as its data. Parsed
// templates are cached by the Site if it's a TemplateCacher, but the
// functions from FuncMapExtenders are bound again for every render.
func (h *TemplateHost) Render(ctx context.Context, route string, model *Node) (template.HTML, error) {
	if h.site == nil || model == nil {
		return "", ErrMissingRenderContext
	}
	cached, err := h.getTemplate(ctx, route, model)
	if err != nil {
		return "", err
	}
	// cached templates are shared by every pass, so each render executes a
	// clone with this component's functions bound to it
	tmpl, err := cached.Clone()
	if err != nil {
		return "", fmt.Errorf("error cloning template %q: %w", route, err)
	}
	tmpl.Funcs(h.funcMap(ctx, model))
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, route, model)
	if err != nil {
		return "", fmt.Errorf("error executing template %q for %s: %w", route, model.ComponentName(), err)
	}
	return template.HTML(buf.String()), nil // #nosec G203
}

func (h *TemplateHost) getTemplate(ctx context.Context, route string, model *Node) (*template.Template, error) {
	var extra []string
	if templater, ok := model.Component().(Templater); ok {
		extra = templater.Templates(ctx)
	}
	key := route
	if len(extra) > 0 {
		key += "|" + strings.Join(extra, "|")
	}
	cache, cacheable := h.site.(TemplateCacher)
	if cacheable {
		if cached := cache.GetCachedTemplate(ctx, key); cached != nil {
			return cached, nil
		}
	}
	dir := h.site.TemplateDir(ctx)
	if dir == nil {
		return nil, ErrNoTemplateDir
	}
	parsed, err := parseTemplates(dir, h.funcMap(ctx, model), route, extra...)
	if err != nil {
		return nil, err
	}
	if cacheable {
		cache.SetCachedTemplate(ctx, key, parsed)
	}
	return parsed, nil
}

func (h *TemplateHost) funcMap(ctx context.Context, model *Node) template.FuncMap {
	results := template.FuncMap{
		"site": func() Site { return h.site },
	}
	if fm, ok := h.site.(FuncMapExtender); ok {
		results = mergeFuncMaps(results, fm.FuncMap(ctx))
	}
	if fm, ok := model.Component().(FuncMapExtender); ok {
		results = mergeFuncMaps(results, fm.FuncMap(ctx))
	}
	return results
}

// parseTemplates parses the template at route, naming it route, and then
// every file matching the extra patterns. A missing route is reported as
// ErrTemplateNotFound.
func parseTemplates(fsys fs.FS, funcs template.FuncMap, route string, patterns ...string) (*template.Template, error) {
	contents, err := fs.ReadFile(fsys, route)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w: %w", route, ErrTemplateNotFound, err)
		}
		return nil, fmt.Errorf("error reading %q: %w", route, err)
	}
	tmpl := template.New(route).Funcs(funcs)
	_, err = tmpl.Parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", route, err)
	}

	var files []string
	for _, pattern := range patterns {
		list, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("error listing files for %q: %w", pattern, err)
		}
		if len(list) < 1 {
			return nil, fmt.Errorf("error parsing %q: %w", pattern, ErrTemplatePatternMatchesNoFiles)
		}
		files = append(files, list...)
	}
	seen := map[string]struct{}{route: {}}
	for _, file := range files {
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		contents, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", file, err)
		}
		_, err = tmpl.New(file).Parse(string(contents))
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", file, err)
		}
	}
	return tmpl, nil
}

// mergeFuncMaps flattens two FuncMaps into one, with the values in
// `override` replacing the values in `in` if they have the same keys.
func mergeFuncMaps(in template.FuncMap, override template.FuncMap) template.FuncMap {
	res := template.FuncMap{}
	for k, v := range in {
		res[k] = v
	}
	for k, v := range override {
		res[k] = v
	}
	return res
}
