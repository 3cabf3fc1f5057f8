package nest

import (
	"bytes"
	"context"
	"net/http"
)

// ServerErrorPager defines an interface that Hosts and Sites can optionally
// implement. If a Handler fails to render a page and its Host implements
// ServerErrorPager, the output of ServerErrorPage will be rendered in a
// fresh Pass instead. A nil Content means there's no error page.
type ServerErrorPager interface {
	ServerErrorPage(ctx context.Context) Content
}

// PageFunc returns the Content to render for a request.
type PageFunc func(r *http.Request) (Content, error)

// Handler is an http.Handler that renders a page for every request, each in
// its own Pass.
type Handler struct {
	// Error, if set, is called instead of rendering the server error page
	// when a page can't be rendered. It's responsible for writing the
	// whole response.
	Error func(w http.ResponseWriter, r *http.Request, err error)

	host Host
	page PageFunc
	opts []Option
}

// NewHandler returns a Handler that renders the Content returned by page
// with host. The options are applied to every Pass.
func NewHandler(host Host, page PageFunc, opts ...Option) *Handler {
	return &Handler{
		host: host,
		page: page,
		opts: opts,
	}
}

// ServeHTTP renders the page for r. If that fails, the Host's server error
// page is rendered if it has one, and a plain text server error message is
// written if it doesn't.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	content, err := h.page(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	err = Render(ctx, &buf, h.host, content, h.opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	if err != nil {
		logger(ctx).ErrorContext(ctx, "error writing page", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger(ctx).ErrorContext(ctx, "error rendering page", "error", err, "path", r.URL.Path)
	if h.Error != nil {
		h.Error(w, r, err)
		return
	}

	var page Content
	if pager, ok := h.host.(ServerErrorPager); ok {
		page = pager.ServerErrorPage(ctx)
	}
	if page != nil {
		var buf bytes.Buffer
		err = Render(ctx, &buf, h.host, page, h.opts...)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, err = buf.WriteTo(w)
			if err != nil {
				logger(ctx).ErrorContext(ctx, "error writing server error page", "error", err)
			}
			return
		}
		// if we can't do that, everything's doomed, doomed, doomed
		// just log it and fall back to text
		logger(ctx).ErrorContext(ctx, "error rendering server error page", "error", err)
	}

	http.Error(w, "Server error.", http.StatusInternalServerError)
}
