package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the page state.
type RenderOptions struct {
	// Locale selects the language of renderer chrome. Empty falls back to the
	// view's locale.
	Locale string
	// Translator resolves renderer chrome strings such as the error dialog
	// heading.
	Translator Translator
	// OnMissing controls the string used when a translation is missing.
	OnMissing MissingTranslationHandler
	// Action is the URL the edit form posts to.
	Action string
	// DeleteAction is the URL the delete button posts to.
	DeleteAction string
	// CancelURL is where leaving the page leads.
	CancelURL string
	// Hidden adds hidden inputs, such as request state that must survive a
	// form submission.
	Hidden map[string]string
	// Errors surfaces validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are shown in the error dialog.
	FormErrors []string
	// Theme overrides the renderer's default theme for this render.
	Theme *theme.RendererConfig
}

// ResolvedLocale returns the locale renderers should use for chrome strings.
func (o RenderOptions) ResolvedLocale(viewLocale string) string {
	if o.Locale != "" {
		return o.Locale
	}
	return viewLocale
}
