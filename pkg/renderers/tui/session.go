package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// Session edits one record interactively. It acts as the page's navigator
// and error dialog: navigation ends the session and errors are printed.
type Session struct {
	page     *editpage.Page
	driver   PromptDriver
	out      io.Writer
	renderer *Renderer
	theme    Theme

	mu       sync.Mutex
	navPage  string
	navPath  string
	lastErrs []error
}

// Outcome tells how a session ended.
type Outcome struct {
	// Page is the admin page the session navigated to ("preview" after a
	// save, "delete" after asking to delete). Empty when the user quit.
	Page    string
	URLPath string
}

type menuAction int

const (
	actionEdit menuAction = iota
	actionSave
	actionDelete
	actionQuit
)

// NewSession creates a session whose page reads and writes through loader.
func NewSession(loader editpage.Loader, options ...Option) *Session {
	s := &Session{}
	r := New(options...)
	s.renderer = r
	s.out = r.settings.out
	s.theme = r.settings.theme
	s.driver = r.settings.driver
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}

	pageOptions := slices.Clone(r.settings.pageOptions)
	pageOptions = append(pageOptions,
		editpage.WithNavigator(s),
		editpage.WithErrorDialog(s),
		editpage.WithKeyBus(editpage.NewKeyBus()),
	)
	s.page = editpage.New(loader, pageOptions...)
	return s
}

// Page exposes the session's edit page.
func (s *Session) Page() *editpage.Page {
	return s.page
}

// TransitionToAdminPage records the navigation that ends the session.
func (s *Session) TransitionToAdminPage(page, urlPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navPage, s.navPath = page, urlPath
}

// ShowError prints err in the error color.
func (s *Session) ShowError(err error) {
	s.mu.Lock()
	s.lastErrs = append(s.lastErrs, err)
	s.mu.Unlock()

	view, _ := s.page.View()
	mapping := render.MapError(view, err)
	heading := i18n.T(s.page.Translator(), s.page.Locale(), i18n.KeyError)
	s.renderer.errColor.Fprintf(s.out, "%s%s\n", s.theme.ErrorPrefix, heading)
	for _, msg := range mapping.Form {
		s.renderer.errColor.Fprintf(s.out, "  %s\n", msg)
	}
	for _, field := range view.Fields {
		for _, msg := range mapping.Fields[field.Name] {
			s.renderer.errColor.Fprintf(s.out, "  %s: %s\n", field.Label, msg)
		}
	}
}

// Errors returns the errors shown so far.
func (s *Session) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lastErrs)
}

// Run loads ref and loops over the action menu until the record is saved,
// deleted or the user quits.
func (s *Session) Run(ctx context.Context, ref recordpath.Ref) (Outcome, error) {
	if err := s.page.Mount(ctx, ref); err != nil {
		return Outcome{}, err
	}
	defer s.page.Unmount()

	if err := s.printSummary(ctx); err != nil {
		return Outcome{}, err
	}

	for {
		if outcome, done := s.outcome(); done {
			return outcome, nil
		}

		action, err := s.chooseAction(ctx)
		if err != nil {
			return Outcome{}, err
		}

		switch action {
		case actionEdit:
			if err := s.editField(ctx); err != nil {
				if errors.Is(err, ErrNoEditableFields) {
					s.info(ctx, err.Error())
					continue
				}
				return Outcome{}, err
			}
		case actionSave:
			s.page.PressSaveAccelerator(ctx)
			if _, done := s.outcome(); !done {
				if err := s.printSummary(ctx); err != nil {
					return Outcome{}, err
				}
			}
		case actionDelete:
			if err := s.page.DeleteRecord(); err != nil {
				return Outcome{}, err
			}
		case actionQuit:
			leave, err := s.confirmLeave(ctx)
			if err != nil {
				return Outcome{}, err
			}
			if leave {
				return Outcome{}, nil
			}
		}
	}
}

func (s *Session) outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.navPage == "" {
		return Outcome{}, false
	}
	return Outcome{Page: s.navPage, URLPath: s.navPath}, true
}

func (s *Session) printSummary(ctx context.Context) error {
	view, ok := s.page.View()
	if !ok {
		return editpage.ErrNotLoaded
	}
	out, err := s.renderer.Render(ctx, view, render.RenderOptions{Translator: s.page.Translator()})
	if err != nil {
		return err
	}
	_, err = s.out.Write(out)
	return err
}

func (s *Session) info(ctx context.Context, msg string) {
	_ = s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) t(key string) string {
	return i18n.T(s.page.Translator(), s.page.Locale(), key)
}

func (s *Session) chooseAction(ctx context.Context) (menuAction, error) {
	view, ok := s.page.View()
	if !ok {
		return 0, editpage.ErrNotLoaded
	}

	labels := []string{s.t(i18n.KeyEditField), view.SaveLabel}
	actions := []menuAction{actionEdit, actionSave}
	if view.CanBeDeleted {
		labels = append(labels, view.DeleteLabel)
		actions = append(actions, actionDelete)
	}
	labels = append(labels, s.t(i18n.KeyQuit))
	actions = append(actions, actionQuit)

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: s.theme.PromptPrefix + view.Title,
		Options: labels,
	})
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(actions) {
		return 0, fmt.Errorf("tui: menu choice %d out of range", idx)
	}
	return actions[idx], nil
}

func (s *Session) confirmLeave(ctx context.Context) (bool, error) {
	prompt, pending := s.page.LeaveGuard()
	if !pending {
		return true, nil
	}
	return s.driver.Confirm(ctx, ConfirmConfig{Message: prompt})
}

func editableFields(view editpage.View) []editpage.FieldView {
	var out []editpage.FieldView
	for _, field := range view.Fields {
		if field.HasValue && !field.Disabled {
			out = append(out, field)
		}
	}
	return out
}

func (s *Session) editField(ctx context.Context) error {
	view, ok := s.page.View()
	if !ok {
		return editpage.ErrNotLoaded
	}
	fields := editableFields(view)
	if len(fields) == 0 {
		return ErrNoEditableFields
	}

	labels := make([]string, len(fields))
	for i, field := range fields {
		labels[i] = fmt.Sprintf("%s (%s)", field.Label, field.Name)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:  s.theme.PromptPrefix + s.t(i18n.KeyEditField),
		Options:  labels,
		PageSize: 15,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(fields) {
		return fmt.Errorf("tui: field choice %d out of range", idx)
	}
	field := fields[idx]

	values, err := s.promptValue(ctx, field)
	if err != nil {
		return err
	}
	if _, err := s.page.SetFieldText(field.Name, values); err != nil {
		return fmt.Errorf("tui: set %s: %w", field.Name, err)
	}
	return nil
}

// promptValue asks for a new value and returns it the way an HTML form would
// submit it.
func (s *Session) promptValue(ctx context.Context, field editpage.FieldView) ([]string, error) {
	message := s.theme.PromptPrefix + field.Label
	help := s.renderer.plain(field.Description)

	switch field.Kind {
	case widgets.KindCheckbox:
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.Checked,
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		if checked {
			return []string{"no", "yes"}, nil
		}
		if field.Unset {
			return []string{""}, nil
		}
		return []string{"no"}, nil

	case widgets.KindCheckboxes:
		options := make([]string, len(field.Choices))
		var defaults []int
		for i, choice := range field.Choices {
			options[i] = choice.Label
			if choice.Selected {
				defaults = append(defaults, i)
			}
		}
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: defaults,
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(picked))
		for _, i := range picked {
			if i >= 0 && i < len(field.Choices) {
				values = append(values, field.Choices[i].Value)
			}
		}
		return values, nil

	case widgets.KindSelect:
		options := []string{"-"}
		defaultIdx := 0
		for i, choice := range field.Choices {
			options = append(options, choice.Label)
			if choice.Selected {
				defaultIdx = i + 1
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx <= 0 || idx > len(field.Choices) {
			return []string{""}, nil
		}
		return []string{field.Choices[idx-1].Value}, nil

	case widgets.KindTextArea, widgets.KindFlow:
		text, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: field.Text,
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return []string{text}, nil

	default:
		text, err := s.driver.Input(ctx, InputConfig{
			Message: message,
			Default: field.Text,
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}
}
