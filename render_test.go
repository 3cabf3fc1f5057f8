package nest_test

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"testing"

	"impractical.co/nest"
)

type Greeter struct {
	Who string
}

func (Greeter) TemplateRoute() string {
	return "greeter.html.tmpl"
}

func (g Greeter) FuncMap(_ context.Context) template.FuncMap {
	return template.FuncMap{
		"who": func() string { return g.Who },
	}
}

func TestTemplateHostBindsFuncsPerRender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	host := nest.NewTemplateHost(nest.NewCachedSite(staticFS{
		"greeter.html.tmpl": `hi {{ who }} / {{ .Component.Who }}`,
	}))

	for _, who := range []string{"alice", "bob", "alice"} {
		var out bytes.Buffer
		if err := nest.Render(ctx, &out, host, nest.El(Greeter{Who: who})); err != nil {
			t.Fatalf("Unexpected error rendering for %q: %s", who, err)
		}
		expected := "hi " + who + " / " + who
		if output := out.String(); output != expected {
			t.Errorf("Expected to get %q, got %q", expected, output)
		}
	}
}

func TestTemplateHostConcurrentFuncs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	host := nest.NewTemplateHost(nest.NewCachedSite(staticFS{
		"greeter.html.tmpl": `{{ who }}`,
	}))

	names := []string{"alice", "bob", "carol", "dave"}
	var wg sync.WaitGroup
	errs := make(chan string, 20*len(names))
	for range 20 {
		for _, who := range names {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var out bytes.Buffer
				if err := nest.Render(ctx, &out, host, nest.El(Greeter{Who: who})); err != nil {
					errs <- err.Error()
					return
				}
				if out.String() != who {
					errs <- "expected " + who + ", got " + out.String()
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
