package vanilla_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/renderers/vanilla"
	"github.com/goliatone/go-recordedit/pkg/testsupport"
)

func mustRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderBlogPost(t *testing.T, renderer *vanilla.Renderer, opts render.RenderOptions) string {
	t.Helper()
	view := testsupport.MustView(t, testsupport.BlogPost, "en", nil)
	out, err := renderer.Render(testsupport.Context(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, out)
		}
	}
}

func assertNotContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(out, fragment) {
			t.Fatalf("output unexpectedly contains %q:\n%s", fragment, out)
		}
	}
}

func TestRenderer_RendersEditForm(t *testing.T) {
	catalog, err := i18n.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	out := renderBlogPost(t, mustRenderer(t), render.RenderOptions{
		Translator:   catalog,
		Action:       "/admin/edit/blog/first-post",
		DeleteAction: "/admin/delete/blog/first-post",
		Hidden:       map[string]string{"csrf": "tok"},
	})

	assertContains(t, out,
		"<title>Edit “Hello World”</title>",
		`action="/admin/edit/blog/first-post"`,
		`formaction="/admin/delete/blog/first-post"`,
		`<input type="hidden" name="csrf" value="tok">`,
		`<input type="hidden" name="_action" value="save" data-action-input>`,
		`name="field:title" value="Hello World"`,
		`<label for="field-title">Title *</label>`,
		`type="date" id="field-pub_date" name="field:pub_date" value="2024-05-01"`,
		`<input type="hidden" name="field:published" value="no">`,
		`name="field:published" value="yes" checked`,
		`name="field:tags" value="go" checked`,
		`name="field:tags" value="ops">`,
		`<hr class="recordedit-line">`,
		`data-leave-prompt="You have unsaved information, are you sure you want to leave this page?"`,
		`<script src="/assets/recordedit.js" defer></script>`,
		">Save Changes</button>",
		">Delete</button>",
	)
	assertNotContains(t, out, `name="field:_id"`, `name="field:_model"`, "data-error-dialog", "aria-required", "data-skip-guard")
	if !strings.Contains(out, " required") {
		t.Fatalf("required field should carry the required attribute:\n%s", out)
	}
}

func TestRenderer_SanitizesDescriptions(t *testing.T) {
	out := renderBlogPost(t, mustRenderer(t), render.RenderOptions{})
	assertContains(t, out, `<div class="recordedit-description">Shown in <em>listings</em></div>`)
	assertNotContains(t, out, "alert(1)")
}

func TestRenderer_RendersErrors(t *testing.T) {
	out := renderBlogPost(t, mustRenderer(t), render.RenderOptions{
		Errors:     map[string][]string{"title": {"Title cannot be empty"}},
		FormErrors: []string{"Backend <down>"},
	})
	assertContains(t, out,
		`class="recordedit-field field-singleline-text width-2-3 has-error" data-field="title"`,
		`aria-invalid="true"`,
		`<li>Title cannot be empty</li>`,
		`data-error-dialog`,
		`<li>Backend &lt;down&gt;</li>`,
		`data-error-dismiss>Close</button>`,
	)
}

func TestRenderer_TemplatesTranslateChrome(t *testing.T) {
	out := renderBlogPost(t, mustRenderer(t), render.RenderOptions{
		Locale:     "de",
		FormErrors: []string{"Backend down"},
	})
	assertContains(t, out, `<html lang="de">`, `data-error-dismiss>Schließen</button>`)

	custom := mustRenderer(t, vanilla.WithTranslator(stubTranslator{"CLOSE": "Dismiss"}))
	out = renderBlogPost(t, custom, render.RenderOptions{FormErrors: []string{"Backend down"}})
	assertContains(t, out, `data-error-dismiss>Dismiss</button>`)
}

type stubTranslator map[string]string

func (s stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := s[key]; ok {
		return msg, nil
	}
	return "", i18n.ErrMissingTranslation
}

func TestRenderer_DeleteHiddenWithoutAction(t *testing.T) {
	out := renderBlogPost(t, mustRenderer(t), render.RenderOptions{})
	assertNotContains(t, out, "formaction=")
}

func TestRenderer_ThemeAndStyles(t *testing.T) {
	themeCfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "--evil": "red;}</style>"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/themes/acme/theme.css"
			}
			return ""
		},
	}
	renderer := mustRenderer(t,
		vanilla.WithDefaultStyles(),
		vanilla.WithStylesheet("/assets/custom.css"),
		vanilla.WithTheme(themeCfg),
		vanilla.WithChromeClasses(vanilla.ChromeClasses{Form: "my-form"}),
	)
	out := renderBlogPost(t, renderer, render.RenderOptions{})

	assertContains(t, out,
		`<link rel="stylesheet" href="/assets/recordedit.css">`,
		`<link rel="stylesheet" href="/themes/acme/theme.css">`,
		`<link rel="stylesheet" href="/assets/custom.css">`,
		`<style>:root { --brand: #123456; }</style>`,
		`data-theme="acme" data-theme-variant="dark"`,
		`class="my-form"`,
	)
	assertNotContains(t, out, "--evil")
}

func TestRenderer_InlineRuntime(t *testing.T) {
	out := renderBlogPost(t, mustRenderer(t, vanilla.WithInlineRuntime()), render.RenderOptions{})
	assertContains(t, out, `addEventListener("beforeunload"`, `action.value = "accelerator"`)
	assertNotContains(t, out, `src="/assets/recordedit.js"`)
}

func TestRenderer_TemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.tmpl")
	if err := os.WriteFile(page, []byte("CUSTOM {{ title }}\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer := mustRenderer(t, vanilla.WithTemplatesDir(dir))
	if got := renderBlogPost(t, renderer, render.RenderOptions{}); got != "CUSTOM Edit “Hello World”\n" {
		t.Fatalf("override not used: %q", got)
	}

	if err := os.WriteFile(page, []byte("CHANGED {{ model }}\n"), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	renderer.Reload()
	if got := renderBlogPost(t, renderer, render.RenderOptions{}); got != "CHANGED blog-post\n" {
		t.Fatalf("reload not applied: %q", got)
	}
}

func TestRenderer_MetadataAndAssets(t *testing.T) {
	renderer := mustRenderer(t)
	if renderer.Name() != "vanilla" || renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected renderer metadata %s %s", renderer.Name(), renderer.ContentType())
	}
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName} {
		if _, err := os.Stat(filepath.Join("assets", name)); err != nil {
			t.Fatalf("asset %s missing: %v", name, err)
		}
	}
	if !strings.Contains(vanilla.RuntimeScript(), "metaKey") {
		t.Fatalf("runtime script should handle the mac accelerator")
	}
}
