package nest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"impractical.co/nest"
)

type HandlerSite struct {
	*nest.CachedSite
}

func (HandlerSite) ServerErrorPage(_ context.Context) nest.Content {
	return nest.El(box{Name: "error.html.tmpl"})
}

type greeting struct {
	Name string
}

func (greeting) TemplateRoute() string {
	return "greeting.html.tmpl"
}

func TestHandler(t *testing.T) {
	t.Parallel()

	templates := fstest.MapFS{
		"greeting.html.tmpl": {Data: []byte(`<p>Hello, {{ .Component.Name }}.</p>`)},
		"broken.html.tmpl":   {Data: []byte(`<p>{{ .Slot "missing" }}</p>`)},
		"error.html.tmpl":    {Data: []byte(`<p>Something went wrong.</p>`)},
	}
	page := func(r *http.Request) (nest.Content, error) {
		switch r.URL.Path {
		case "/hello":
			return nest.El(greeting{Name: r.URL.Query().Get("name")}), nil
		case "/broken":
			return nest.El(box{Name: "broken.html.tmpl"}), nil
		default:
			return nil, errors.New("no such page")
		}
	}

	tests := map[string]struct {
		host     nest.Host
		path     string
		status   int
		expected string
	}{
		"ok": {
			host:     nest.NewTemplateHost(HandlerSite{nest.NewCachedSite(templates)}),
			path:     "/hello?name=%3Cb%3E",
			status:   http.StatusOK,
			expected: "<p>Hello, &lt;b&gt;.</p>",
		},
		"render-error-page": {
			host:     nest.NewTemplateHost(HandlerSite{nest.NewCachedSite(templates)}),
			path:     "/broken",
			status:   http.StatusInternalServerError,
			expected: "<p>Something went wrong.</p>",
		},
		"page-error-page": {
			host:     nest.NewTemplateHost(HandlerSite{nest.NewCachedSite(templates)}),
			path:     "/nope",
			status:   http.StatusInternalServerError,
			expected: "<p>Something went wrong.</p>",
		},
		"no-error-page": {
			host:     nest.NewTemplateHost(nest.NewCachedSite(templates)),
			path:     "/broken",
			status:   http.StatusInternalServerError,
			expected: "Server error.\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			nest.NewHandler(tc.host, page).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.expected, rec.Body.String())
		})
	}
}

func TestHandlerCustomError(t *testing.T) {
	t.Parallel()

	handler := nest.NewHandler(boxHost(), func(*http.Request) (nest.Content, error) {
		return nil, errors.New("nope")
	})
	var got error
	handler.Error = func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.EqualError(t, got, "nope")
}
