package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-recordedit/pkg/i18n"
)

// Translator resolves message keys for a locale.
type Translator = i18n.Translator

// MissingTranslationHandler decides what to render when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	for _, param := range params {
		if values, ok := param.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Translate resolves key through the options' translator, falling back to
// fallback (or the key) through the missing handler.
func Translate(opts RenderOptions, locale, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	params := []any{map[string]any{"default": fallback}}

	if opts.Translator == nil {
		return onMissing(locale, key, params, ErrMissingTranslator)
	}
	result, err := opts.Translator.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, params, err)
}
