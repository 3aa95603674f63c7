package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/render"
	rendertemplate "github.com/goliatone/go-recordedit/pkg/render/template"
	"github.com/goliatone/go-recordedit/pkg/render/template/pongo"
	"github.com/goliatone/go-recordedit/pkg/renderers/vanilla/components"
)

const pageTemplate = "page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	policy           *bluemonday.Policy
	assetPrefix      string
	stylesheets      []string
	defaultStyles    bool
	inlineRuntime    bool
	theme            *theme.RendererConfig
	classes          ChromeClasses
	translator       render.Translator
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files missing
// from the directory fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTranslator sets the translator behind the `translate` and
// `current_locale` template helpers. Defaults to the embedded catalogs.
func WithTranslator(translator render.Translator) Option {
	return func(cfg *config) {
		if translator != nil {
			cfg.translator = translator
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation. The
// renderer must provide the `translate` helper used by the bundled templates.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithSanitizer replaces the policy applied to field descriptions.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithAssetPrefix sets the URL prefix the embedded assets are served under.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// WithStylesheet links an additional stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles links the embedded stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.defaultStyles = true
	}
}

// WithInlineRuntime embeds the runtime script in the page instead of linking
// it from the asset prefix.
func WithInlineRuntime() Option {
	return func(cfg *config) {
		cfg.inlineRuntime = true
	}
}

// WithTheme sets the theme used when RenderOptions carry none.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithChromeClasses overrides chrome CSS classes.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.classes = cfg.classes.merge(classes)
	}
}

// WithLogger sets the logger used by the template watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders the edit page as a server-side HTML form.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	components    *components.Registry
	policy        *bluemonday.Policy
	assetPrefix   string
	stylesheets   []string
	defaultStyles bool
	inlineRuntime bool
	theme         *theme.RendererConfig
	classes       ChromeClasses
	templateDir   string
	logger        *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		policy:      bluemonday.UGCPolicy(),
		assetPrefix: "/assets",
		classes:     defaultChromeClasses(),
		logger:      slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: load translations: %w", err)
		}
		cfg.translator = catalog
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithBaseDir(cfg.templateDir),
			pongo.WithExtension(".tmpl"),
			pongo.WithSetName("vanilla"),
			pongo.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		components:    cfg.components,
		policy:        cfg.policy,
		assetPrefix:   cfg.assetPrefix,
		stylesheets:   cfg.stylesheets,
		defaultStyles: cfg.defaultStyles,
		inlineRuntime: cfg.inlineRuntime,
		theme:         cfg.theme,
		classes:       cfg.classes,
		templateDir:   cfg.templateDir,
		logger:        cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Reload drops parsed templates so edits to the template directory show up
// on the next render.
func (r *Renderer) Reload() {
	r.templates.Reload()
}

type pageField struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

type pageScript struct {
	Src    string `json:"src,omitempty"`
	Inline string `json:"inline,omitempty"`
	Defer  bool   `json:"defer"`
	Module bool   `json:"module"`
}

type pageTheme struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"css_vars_style,omitempty"`
}

type pageData struct {
	Locale         string              `json:"locale"`
	Title          string              `json:"title"`
	Model          string              `json:"model"`
	Action         string              `json:"action"`
	DeleteAction   string              `json:"delete_action"`
	CancelURL      string              `json:"cancel_url"`
	CancelLabel    string              `json:"cancel_label"`
	SaveLabel      string              `json:"save_label"`
	DeleteLabel    string              `json:"delete_label"`
	CanBeDeleted   bool                `json:"can_be_deleted"`
	Saving         bool                `json:"saving"`
	PendingChanges bool                `json:"pending_changes"`
	LeavePrompt    string              `json:"leave_prompt"`
	ErrorHeading   string              `json:"error_heading"`
	FormErrors     []string            `json:"form_errors"`
	Hidden         []map[string]string `json:"hidden_fields"`
	Fields         []pageField         `json:"fields"`
	Stylesheets    []string            `json:"stylesheets"`
	Scripts        []pageScript        `json:"scripts"`
	Theme          pageTheme           `json:"theme"`
	Classes        ChromeClasses       `json:"classes"`
}

func (r *Renderer) Render(ctx context.Context, view editpage.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locale := opts.ResolvedLocale(view.Locale)
	themeCfg := opts.Theme
	if themeCfg == nil {
		themeCfg = r.theme
	}
	var partials map[string]string
	if themeCfg != nil {
		partials = themeCfg.Partials
	}

	fields := newComponentRenderer(r.templates, r.components, partials, r.policy, r.classes.Field)
	data := pageData{
		Locale:         locale,
		Title:          view.Title,
		Model:          view.Model,
		Action:         opts.Action,
		DeleteAction:   opts.DeleteAction,
		CancelURL:      opts.CancelURL,
		CancelLabel:    render.Translate(opts, locale, i18n.KeyCancel, "Cancel"),
		SaveLabel:      view.SaveLabel,
		DeleteLabel:    view.DeleteLabel,
		CanBeDeleted:   view.CanBeDeleted && opts.DeleteAction != "",
		Saving:         view.Saving,
		PendingChanges: view.PendingChanges,
		LeavePrompt:    render.Translate(opts, locale, i18n.KeyUnloadActiveTab, "You have unsaved information, are you sure you want to leave this page?"),
		ErrorHeading:   render.Translate(opts, locale, i18n.KeyErrorOccurred, "An Error Occurred"),
		FormErrors:     render.MergeFormErrors(opts.FormErrors, view.Error),
		Classes:        r.classes,
	}

	for _, hidden := range render.SortedHiddenFields(opts.Hidden) {
		data.Hidden = append(data.Hidden, map[string]string{"name": hidden.Name, "value": hidden.Value})
	}

	for _, field := range view.Fields {
		markup, err := fields.render(field, fieldMessages(field, opts.Errors))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		data.Fields = append(data.Fields, pageField{Name: field.Name, HTML: markup})
	}

	data.Stylesheets, data.Scripts = r.assets(fields, themeCfg)
	if themeCfg != nil {
		data.Theme = pageTheme{
			Name:         themeCfg.Theme,
			Variant:      themeCfg.Variant,
			CSSVarsStyle: cssVarsStyle(themeCfg.CSSVars),
		}
	}

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) assets(fields *componentRenderer, themeCfg *theme.RendererConfig) ([]string, []pageScript) {
	var stylesheets []string
	if r.defaultStyles {
		stylesheets = append(stylesheets, r.assetURL(StylesheetName))
	}
	if themeCfg != nil && themeCfg.AssetURL != nil {
		if href := themeCfg.AssetURL("stylesheet"); href != "" {
			stylesheets = append(stylesheets, href)
		}
	}
	stylesheets = append(stylesheets, r.stylesheets...)

	componentStyles, componentScripts := fields.assets()
	for _, href := range componentStyles {
		if !slices.Contains(stylesheets, href) {
			stylesheets = append(stylesheets, href)
		}
	}

	var scripts []pageScript
	for _, script := range componentScripts {
		scripts = append(scripts, pageScript{Src: script.Src, Inline: script.Inline, Defer: script.Defer, Module: script.Module})
	}
	if r.inlineRuntime {
		scripts = append(scripts, pageScript{Inline: RuntimeScript()})
	} else {
		scripts = append(scripts, pageScript{Src: r.assetURL(RuntimeScriptName), Defer: true})
	}
	return stylesheets, scripts
}

func (r *Renderer) assetURL(name string) string {
	return r.assetPrefix + "/" + name
}
