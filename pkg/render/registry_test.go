package render_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, editpage.View, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndNegotiate(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	reg.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	if err := reg.Register(stubRenderer{name: "json", contentType: "application/json"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}

	cases := map[string]string{
		"application/json":                  "json",
		"text/html,application/xhtml+xml":   "vanilla",
		"*/*":                               "vanilla",
		"":                                  "vanilla",
		"text/plain, application/json;q=1":  "json",
		"application/json;q=0.1, text/html": "vanilla",
		"text/html;q=0.5, application/json;q=0.9": "json",
		"application/json;q=0, text/plain":        "vanilla",
		"application/json;q=abc, text/html;q=0.2": "vanilla",
		"text/*, application/json;q=0.3":          "json",
	}
	for accept, want := range cases {
		got, err := reg.Negotiate(accept)
		if err != nil {
			t.Fatalf("negotiate %q: %v", accept, err)
		}
		if got.Name() != want {
			t.Fatalf("negotiate %q: want %s, got %s", accept, want, got.Name())
		}
	}

	if !reg.Has("json") || reg.Has("preact") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestRegistry_NegotiateEmpty(t *testing.T) {
	if _, err := render.NewRegistry().Negotiate("text/html"); err == nil {
		t.Fatalf("expected error without renderers")
	}
}
