package nest

import (
	"context"
	"html/template"
	"io/fs"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Site is an interface for the singleton that holds the templates
// components are rendered with. Consumers should use it to store any
// clients or cross-request state they need; it's available to every
// component template through TemplateHost as the "site" function.
type Site interface {
	// TemplateDir returns an fs.FS containing all the templates needed to
	// render every component on the Site.
	//
	// Component template routes are paths within the fs.FS.
	TemplateDir(ctx context.Context) fs.FS
}

// TemplateCacher is an optional interface for Sites. Those fulfilling it can
// cache their template parsing by route, to save on the overhead of parsing
// the template for every component render. The templates being parsed for a
// given key should be the same every time, but the data may still be
// different, so the output HTML cannot be safely presumed to be cacheable.
type TemplateCacher interface {
	// GetCachedTemplate returns the *template.Template specified by the
	// passed key. It should return nil if the template hasn't been cached
	// yet.
	GetCachedTemplate(ctx context.Context, key string) *template.Template

	// SetCachedTemplate stores the passed *template.Template under the
	// passed key, for later retrieval with GetCachedTemplate.
	//
	// Any errors encountered should be logged, but as this is a
	// best-effort operation, will not be surfaced outside the function.
	SetCachedTemplate(ctx context.Context, key string, tmpl *template.Template)
}

var _ Site = &CachedSite{}
var _ TemplateCacher = &CachedSite{}

// CachedSite is an implementation of the Site interface that can be embedded
// in other Site implementations. It fulfills the Site interface and the
// TemplateCacher interface, caching parsed templates in memory and exposing
// the template fs.FS passed to it in NewCachedSite. A CachedSite must be
// instantiated through NewCachedSite or NewExpiringCachedSite, its empty
// value is not usable.
type CachedSite struct {
	templates *gocache.Cache

	// templateDir is where TemplateHost will look for the templates
	// required by components.
	templateDir fs.FS
}

// NewCachedSite returns a CachedSite instance that is ready to be used.
// Templates are cached until the process exits.
func NewCachedSite(templates fs.FS) *CachedSite {
	return &CachedSite{
		templates:   gocache.New(gocache.NoExpiration, 0),
		templateDir: templates,
	}
}

// NewExpiringCachedSite returns a CachedSite that re-parses templates once
// they've been cached for longer than ttl, so changes to the underlying
// fs.FS are eventually picked up.
func NewExpiringCachedSite(templates fs.FS, ttl time.Duration) *CachedSite {
	return &CachedSite{
		templates:   gocache.New(ttl, 2*ttl),
		templateDir: templates,
	}
}

// GetCachedTemplate returns the cached template associated with the passed
// key, if one exists. If no template is cached for that key, it returns nil.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) GetCachedTemplate(ctx context.Context, key string) *template.Template {
	res, ok := s.templates.Get(key)
	if !ok {
		return nil
	}
	tmpl, ok := res.(*template.Template)
	if !ok {
		logger(ctx).WarnContext(ctx, "wrong type in template cache", "key", key)
		return nil
	}
	return tmpl
}

// SetCachedTemplate caches a template for the given key.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) SetCachedTemplate(_ context.Context, key string, tmpl *template.Template) {
	s.templates.Set(key, tmpl, gocache.DefaultExpiration)
}

// ClearCachedTemplates drops every cached template, so they're parsed again
// the next time they're used.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) ClearCachedTemplates() {
	s.templates.Flush()
}

// TemplateDir returns an fs.FS containing all the templates needed to render a
// Site's components. In this case, we just pass back what the consumer passed
// in.
func (s *CachedSite) TemplateDir(_ context.Context) fs.FS {
	return s.templateDir
}
