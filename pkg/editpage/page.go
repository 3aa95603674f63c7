// Package editpage implements the record edit page: it loads a record with
// its data model, tracks edits, and saves them back to the admin backend.
// Front ends drive a Page and render its View.
package editpage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// Admin pages the edit page navigates to.
const (
	PagePreview = "preview"
	PageDelete  = "delete"
)

// Loader reads and writes raw records. *client.Client satisfies it.
type Loader interface {
	GetRawRecord(ctx context.Context, ref recordpath.Ref) (datamodel.RawRecord, error)
	PutRawRecord(ctx context.Context, payload client.SavePayload) error
}

// Navigator moves the admin UI to another page for a record.
type Navigator interface {
	TransitionToAdminPage(page, urlPath string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(page, urlPath string)

func (f NavigatorFunc) TransitionToAdminPage(page, urlPath string) {
	f(page, urlPath)
}

// ErrorDialog presents failures to the user.
type ErrorDialog interface {
	ShowError(err error)
}

// ErrorDialogFunc adapts a function to ErrorDialog.
type ErrorDialogFunc func(error)

func (f ErrorDialogFunc) ShowError(err error) {
	f(err)
}

// Option configures a Page.
type Option func(*Page)

// WithRegistry sets the widget registry. Defaults to widgets.NewRegistry().
func WithRegistry(registry *widgets.Registry) Option {
	return func(p *Page) {
		if registry != nil {
			p.registry = registry
		}
	}
}

// WithNavigator sets the navigation target for save and delete.
func WithNavigator(nav Navigator) Option {
	return func(p *Page) {
		if nav != nil {
			p.nav = nav
		}
	}
}

// WithErrorDialog sets where load and save failures are reported.
func WithErrorDialog(dialog ErrorDialog) Option {
	return func(p *Page) {
		if dialog != nil {
			p.dialog = dialog
		}
	}
}

// WithValidator replaces the form validity check used by the save
// accelerator.
func WithValidator(validator FormValidator) Option {
	return func(p *Page) {
		if validator != nil {
			p.validator = validator
		}
	}
}

// WithTranslator sets the translator used for view labels.
func WithTranslator(translator i18n.Translator) Option {
	return func(p *Page) {
		if translator != nil {
			p.translator = translator
		}
	}
}

// WithLocale sets the UI language.
func WithLocale(locale string) Option {
	return func(p *Page) {
		if locale != "" {
			p.locale = locale
		}
	}
}

// WithPlatform sets which modifier the save accelerator uses.
func WithPlatform(platform Platform) Option {
	return func(p *Page) {
		if platform != "" {
			p.platform = platform
		}
	}
}

// WithKeyBus sets the bus the page listens on while mounted.
func WithKeyBus(bus *KeyBus) Option {
	return func(p *Page) {
		if bus != nil {
			p.keys = bus
		}
	}
}

// WithLogger sets the page logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.log = logger
		}
	}
}

// Page is the edit page controller. It is safe for concurrent use; backend
// calls run without holding the page lock.
type Page struct {
	mu          sync.Mutex
	state       State
	gen         uint64
	fieldErrors map[string]string
	unsubscribe func()

	loader     Loader
	registry   *widgets.Registry
	nav        Navigator
	dialog     ErrorDialog
	validator  FormValidator
	translator i18n.Translator
	locale     string
	platform   Platform
	keys       *KeyBus
	log        *slog.Logger
}

// New constructs a page reading and writing records through loader.
func New(loader Loader, options ...Option) *Page {
	p := &Page{
		loader:   loader,
		registry: widgets.NewRegistry(),
		locale:   i18n.DefaultLocale,
		platform: DetectPlatform(),
		keys:     DefaultKeyBus(),
		log:      slog.Default(),
	}
	if catalog, err := i18n.Default(); err == nil {
		p.translator = catalog
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.nav == nil {
		p.nav = NavigatorFunc(func(page, urlPath string) {
			p.log.Info("navigate", slog.String("page", page), slog.String("path", urlPath))
		})
	}
	if p.dialog == nil {
		p.dialog = ErrorDialogFunc(func(err error) {
			p.log.Error("edit page error", slog.Any("error", err))
		})
	}
	if p.validator == nil {
		p.validator = WidgetValidator{Registry: p.registry}
	}
	return p
}

// Registry returns the widget registry used by the page.
func (p *Page) Registry() *widgets.Registry {
	return p.registry
}

// Locale returns the UI language of the page.
func (p *Page) Locale() string {
	return p.locale
}

// Translator returns the translator used for view labels.
func (p *Page) Translator() i18n.Translator {
	return p.translator
}

// Mount starts listening for the save accelerator and loads ref.
func (p *Page) Mount(ctx context.Context, ref recordpath.Ref) error {
	p.mu.Lock()
	if p.unsubscribe == nil {
		p.unsubscribe = p.keys.Subscribe(p.HandleKey)
	}
	p.mu.Unlock()
	return p.load(ctx, ref)
}

// Unmount stops listening for key events and discards in-flight loads.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.gen++
	p.state.Generation = p.gen
}

// Navigate loads ref unless it is the record already shown.
func (p *Page) Navigate(ctx context.Context, ref recordpath.Ref) error {
	p.mu.Lock()
	current := p.state
	p.mu.Unlock()
	if current.Ref.SameRecord(ref) && current.Loaded() {
		return nil
	}
	return p.load(ctx, ref)
}

// Reload loads the current record again.
func (p *Page) Reload(ctx context.Context) error {
	p.mu.Lock()
	ref := p.state.Ref
	p.mu.Unlock()
	if ref.IsZero() {
		return ErrNotLoaded
	}
	return p.load(ctx, ref)
}

func (p *Page) load(ctx context.Context, ref recordpath.Ref) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.apply(LoadStarted{Ref: ref, Generation: gen})
	p.fieldErrors = nil
	p.mu.Unlock()

	raw, err := p.loader.GetRawRecord(ctx, ref)

	p.mu.Lock()
	if err != nil {
		stale := gen != p.state.Generation
		p.apply(LoadFailed{Generation: gen, Err: err})
		p.mu.Unlock()
		if stale {
			return nil
		}
		p.log.Error("load record", slog.String("path", ref.URLPath()), slog.Any("error", err))
		p.dialog.ShowError(err)
		return fmt.Errorf("editpage: load %s: %w", ref.URLPath(), err)
	}

	record := BuildRecordData(raw.DataModel, raw.Data, p.registry)
	p.apply(Loaded{Generation: gen, Record: record, Model: raw.DataModel, Info: raw.RecordInfo})
	applied := p.state.Generation == gen
	p.mu.Unlock()

	if applied {
		p.log.Debug("record loaded",
			slog.String("path", ref.URLPath()),
			slog.String("model", raw.DataModel.ID),
			slog.Int("fields", len(record)))
	}
	return nil
}

// SetFieldValue stores the in-memory value of a field. User edits mark the
// page as having pending changes; UI-only updates do not. A nil value is
// stored as "".
func (p *Page) SetFieldValue(field datamodel.Field, value any, uiChange bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	if !s.Loaded() {
		return ErrNotLoaded
	}
	declared, ok := s.Model.Field(field.Name)
	if !ok || IsIllegalField(declared, *s.Info) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field.Name)
	}
	if !uiChange && FieldDisabled(declared, *s.Info) {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, field.Name)
	}
	p.apply(FieldChanged{Name: declared.Name, Value: value, UIChange: uiChange})
	if _, ok := p.fieldErrors[declared.Name]; ok {
		errs := maps.Clone(p.fieldErrors)
		delete(errs, declared.Name)
		p.fieldErrors = errs
	}
	return nil
}

// SetFieldText decodes submitted text values for a named field and stores
// them as a user edit when they differ from the current value.
func (p *Page) SetFieldText(name string, values []string) (bool, error) {
	p.mu.Lock()
	s := p.state
	p.mu.Unlock()
	if !s.Loaded() {
		return false, ErrNotLoaded
	}
	field, ok := s.Model.Field(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	widget := p.registry.WithFallback(field.Type)
	next := widgets.DecodeForm(widget, values, field.Type)
	current := ValueForField(field, s.Record, p.registry)
	if widgets.Text(next) == widgets.Text(current) {
		return false, nil
	}
	if err := p.SetFieldValue(field, next, false); err != nil {
		return false, err
	}
	return true, nil
}

// Validate runs the form validity check against the current state.
func (p *Page) Validate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.validateLocked()
}

func (p *Page) validateLocked() error {
	err := p.validator.ValidateForm(p.state)
	var verr *ValidationError
	if errors.As(err, &verr) {
		p.fieldErrors = verr.ByField()
	} else if err == nil {
		p.fieldErrors = nil
	}
	return err
}

// Save writes every legal field of the record and, on success, navigates to
// the record's preview. Failures are reported to the error dialog and leave
// the page editable.
func (p *Page) Save(ctx context.Context) error {
	p.mu.Lock()
	s := p.state
	switch {
	case !s.Loaded() || s.Status == StatusLoading:
		p.mu.Unlock()
		return ErrNotLoaded
	case s.Status == StatusSaving:
		p.mu.Unlock()
		return ErrSaveInProgress
	}
	ref := s.Ref
	payload := client.SavePayload{
		Data: BuildPayloadData(*s.Model, *s.Info, s.Record, p.registry),
		Path: ref.Path,
		Alt:  ref.Alt,
	}
	p.apply(SaveStarted{})
	p.mu.Unlock()

	err := p.loader.PutRawRecord(ctx, payload)

	p.mu.Lock()
	if err != nil {
		p.apply(SaveFailed{Err: err})
		p.mu.Unlock()
		p.log.Error("save record", slog.String("path", ref.URLPath()), slog.Any("error", err))
		p.dialog.ShowError(err)
		return fmt.Errorf("editpage: save %s: %w", ref.URLPath(), err)
	}
	p.apply(Saved{})
	current := p.state.Ref.SameRecord(ref)
	p.mu.Unlock()

	p.log.Info("record saved", slog.String("path", ref.URLPath()), slog.Int("fields", len(payload.Data)))
	if current {
		p.nav.TransitionToAdminPage(PagePreview, ref.URLPath())
	}
	return nil
}

// DeleteRecord navigates to the delete page of the current record.
func (p *Page) DeleteRecord() error {
	p.mu.Lock()
	s := p.state
	p.mu.Unlock()
	if !s.Loaded() {
		return ErrNotLoaded
	}
	p.nav.TransitionToAdminPage(PageDelete, s.Ref.URLPath())
	return nil
}

// HandleKey saves on the platform's save accelerator when the form is valid.
// Invalid forms are reported to the error dialog instead.
func (p *Page) HandleKey(ev *KeyEvent) {
	if !IsSaveAccelerator(ev, p.platform) {
		return
	}
	ev.PreventDefault()

	if err := p.Validate(); err != nil {
		if errors.Is(err, ErrNotLoaded) {
			return
		}
		p.dialog.ShowError(err)
		return
	}
	if err := p.Save(ev.context()); err != nil && !errors.Is(err, ErrSaveInProgress) && !errors.Is(err, ErrNotLoaded) {
		p.log.Debug("accelerator save failed", slog.Any("error", err))
	}
}

// PressSaveAccelerator dispatches the platform save shortcut on the page's
// key bus.
func (p *Page) PressSaveAccelerator(ctx context.Context) bool {
	ev := SaveAccelerator(p.platform)
	ev.Context = ctx
	return p.keys.Dispatch(ev)
}

// LeaveGuard returns the confirmation prompt to show before leaving the page
// while edits are pending.
func (p *Page) LeaveGuard() (string, bool) {
	p.mu.Lock()
	pending := p.state.PendingChanges
	p.mu.Unlock()
	if !pending {
		return "", false
	}
	return i18n.T(p.translator, p.locale, i18n.KeyUnloadActiveTab), true
}

// State returns a snapshot of the page state.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// View returns the presentation model, or false while nothing is loaded.
func (p *Page) View() (View, bool) {
	p.mu.Lock()
	s := p.state
	fieldErrors := p.fieldErrors
	p.mu.Unlock()
	return BuildView(s, ViewOptions{
		Locale:      p.locale,
		Translator:  p.translator,
		Registry:    p.registry,
		FieldErrors: fieldErrors,
	})
}

func (p *Page) apply(ev Event) {
	p.state = Reduce(p.state, ev)
}
