package editpage

import (
	"strings"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// View is the presentation model of a loaded edit page shared by every front
// end.
type View struct {
	Ref            recordpath.Ref `json:"ref"`
	URLPath        string         `json:"url_path"`
	Locale         string         `json:"locale"`
	Title          string         `json:"title"`
	Label          string         `json:"label"`
	Model          string         `json:"model"`
	IsAttachment   bool           `json:"is_attachment"`
	CanBeDeleted   bool           `json:"can_be_deleted"`
	Saving         bool           `json:"saving"`
	PendingChanges bool           `json:"pending_changes"`
	LeavePrompt    string         `json:"leave_prompt,omitempty"`
	SaveLabel      string         `json:"save_label"`
	DeleteLabel    string         `json:"delete_label"`
	Error          string         `json:"error,omitempty"`
	Fields         []FieldView    `json:"fields"`
}

// Field returns the view of a named field.
func (v View) Field(name string) (FieldView, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldView{}, false
}

// FieldView describes one rendered field.
type FieldView struct {
	Name            string       `json:"name"`
	Label           string       `json:"label"`
	Description     string       `json:"description,omitempty"`
	Type            string       `json:"type"`
	Widget          string       `json:"widget"`
	Kind            widgets.Kind `json:"kind"`
	Width           string       `json:"width,omitempty"`
	Value           any          `json:"value"`
	Text            string       `json:"text"`
	Placeholder     any          `json:"placeholder,omitempty"`
	PlaceholderText string       `json:"placeholder_text,omitempty"`
	Disabled        bool         `json:"disabled"`
	Required        bool         `json:"required"`
	HasValue        bool         `json:"has_value"`
	Checked         bool         `json:"checked"`
	Unset           bool         `json:"unset"`
	AddonLabel      string       `json:"addon_label,omitempty"`
	CheckboxLabel   string       `json:"checkbox_label,omitempty"`
	Choices         []ChoiceView `json:"choices,omitempty"`
	Error           string       `json:"error,omitempty"`
}

// ChoiceView is one option of a select or checkboxes field.
type ChoiceView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ViewOptions carries what BuildView needs besides the state.
type ViewOptions struct {
	Locale      string
	Translator  i18n.Translator
	Registry    *widgets.Registry
	FieldErrors map[string]string
}

// BuildView derives the view of a loaded state. It returns false when no
// record is loaded.
func BuildView(state State, opts ViewOptions) (View, bool) {
	if !state.Loaded() {
		return View{}, false
	}
	info := *state.Info
	model := *state.Model

	label := recordLabel(info, opts.Locale)
	titleKey := i18n.KeyEditPageName
	if info.IsAttachment {
		titleKey = i18n.KeyEditAttachmentMetadataOf
	}

	view := View{
		Ref:            state.Ref,
		URLPath:        state.Ref.URLPath(),
		Locale:         opts.Locale,
		Title:          strings.Replace(i18n.T(opts.Translator, opts.Locale, titleKey), "%s", label, 1),
		Label:          label,
		Model:          model.ID,
		IsAttachment:   info.IsAttachment,
		CanBeDeleted:   info.CanBeDeleted,
		Saving:         state.Status == StatusSaving,
		PendingChanges: state.PendingChanges,
		SaveLabel:      i18n.T(opts.Translator, opts.Locale, i18n.KeySaveChanges),
		DeleteLabel:    i18n.T(opts.Translator, opts.Locale, i18n.KeyDelete),
	}
	if state.PendingChanges {
		view.LeavePrompt = i18n.T(opts.Translator, opts.Locale, i18n.KeyUnloadActiveTab)
	}
	if state.Err != nil {
		view.Error = state.Err.Error()
	}

	for _, field := range VisibleFields(model, info) {
		view.Fields = append(view.Fields, buildFieldView(field, state, opts))
	}
	return view, true
}

func buildFieldView(field datamodel.Field, state State, opts ViewOptions) FieldView {
	widget := opts.Registry.WithFallback(field.Type)
	value := ValueForField(field, state.Record, opts.Registry)
	placeholder := PlaceholderForField(field, *state.Info, opts.Registry)
	kind := widget.Kind()

	fv := FieldView{
		Name:          field.Name,
		Label:         i18n.Label(opts.Locale, field.LabelI18n, fieldFallbackLabel(field)),
		Description:   i18n.Label(opts.Locale, field.DescriptionI18n, ""),
		Type:          field.Type.Name,
		Widget:        widget.Name(),
		Kind:          kind,
		Width:         field.Type.Width,
		Value:         value,
		Text:          widgets.Text(value),
		Placeholder:   placeholder,
		Disabled:      FieldDisabled(field, *state.Info),
		Required:      field.Required,
		HasValue:      kind.HasValue(),
		AddonLabel:    i18n.Label(opts.Locale, field.AddonLabelI18n, ""),
		CheckboxLabel: i18n.Label(opts.Locale, field.CheckboxLabel, ""),
		Error:         opts.FieldErrors[field.Name],
	}
	if placeholder != nil {
		fv.PlaceholderText = widgets.Text(placeholder)
	}

	switch kind {
	case widgets.KindCheckbox:
		fv.Checked = widgets.IsTrue(value)
		fv.Unset = widgets.IsEmpty(value)
	case widgets.KindSelect, widgets.KindCheckboxes:
		selected := make(map[string]bool)
		for _, item := range widgets.StringList(value) {
			selected[item] = true
		}
		for _, choice := range field.Choices {
			fv.Choices = append(fv.Choices, ChoiceView{
				Value:    choice.Value,
				Label:    i18n.Label(opts.Locale, choice.LabelI18n, choice.Value),
				Selected: selected[choice.Value],
			})
		}
	}
	return fv
}

func fieldFallbackLabel(field datamodel.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func recordLabel(info datamodel.RecordInfo, locale string) string {
	fallback := info.Label
	if fallback == "" {
		fallback = info.ID
	}
	if fallback == "" {
		fallback = info.Path
	}
	return i18n.Label(locale, info.LabelI18n, fallback)
}
