package pongo_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-recordedit/pkg/render/template/pongo"
	"github.com/goliatone/go-recordedit/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", struct {
			Name string `json:"name"`
		}{Name: "Ada"}, w)
	})
	if result != "Hello Ada!\n" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}

	included, err := engine.Render("include", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render include: %v", err)
	}
	if included != "<p>Hello Grace!\n</p>\n" {
		t.Fatalf("unexpected include result %q", included)
	}
}

func TestEngine_GlobalContextAndFuncs(t *testing.T) {
	engine := newEngine(t, pongo.WithTemplateFunc(map[string]any{
		"greet": func(name string) string { return "hi " + name },
	}))
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "STAGING hi Ada\n" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	shout := func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}
	if err := engine.RegisterFilter("shout", shout); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", shout); err != nil {
		t.Fatalf("re-register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada", "label": "Primary Color"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA! primary-color\n" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "x"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "1-x" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_BaseDirOverridesAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.tmpl")
	if err := os.WriteFile(path, []byte("Override {{ name }}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine := newEngine(t, pongo.WithBaseDir(dir))

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil || got != "Override Ada" {
		t.Fatalf("expected override, got %q (%v)", got, err)
	}

	if err := os.WriteFile(path, []byte("Changed {{ name }}"), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	got, _ = engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if got != "Override Ada" {
		t.Fatalf("expected cached template before reload, got %q", got)
	}

	engine.Reload()
	got, _ = engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if got != "Changed Ada" {
		t.Fatalf("expected reloaded template, got %q", got)
	}

	got, err = engine.RenderTemplate("include", map[string]any{"name": "Ada"})
	if err != nil || !strings.HasPrefix(got, "<p>") {
		t.Fatalf("expected embedded template next to the override, got %q (%v)", got, err)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
