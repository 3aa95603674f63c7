package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-recordedit/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestTranslate_Fallbacks(t *testing.T) {
	opts := render.RenderOptions{Translator: stubTranslator{"ERROR": "Fehler"}}

	if got := render.Translate(opts, "de", "ERROR", "Error"); got != "Fehler" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := render.Translate(opts, "de", "MISSING", "Fallback"); got != "Fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := render.Translate(render.RenderOptions{}, "de", "MISSING", ""); got != "MISSING" {
		t.Fatalf("expected key without translator, got %q", got)
	}

	var seen error
	opts.OnMissing = func(_ string, key string, _ []any, err error) string {
		seen = err
		return "[" + key + "]"
	}
	if got := render.Translate(opts, "de", "MISSING", "x"); got != "[MISSING]" || seen == nil {
		t.Fatalf("expected custom missing handler, got %q (%v)", got, seen)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"SAVE_CHANGES": "Save"}, render.TemplateI18nConfig{})

	translate, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected type %T", funcs["translate"])
	}
	if got := translate(map[string]any{"locale": "en"}, "SAVE_CHANGES"); got != "Save" {
		t.Fatalf("translate: got %q", got)
	}
	if got := translate("en", "UNKNOWN"); got != "UNKNOWN" {
		t.Fatalf("missing key should render the key, got %q", got)
	}

	currentLocale, ok := funcs["current_locale"].(func(any) string)
	if !ok {
		t.Fatalf("current_locale helper has unexpected type %T", funcs["current_locale"])
	}
	if got := currentLocale(map[string]any{"locale": "fr"}); got != "fr" {
		t.Fatalf("current_locale: got %q", got)
	}
}
