package editpage

import (
	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// FormValidator checks whether the current form content may be saved. It
// plays the part of the browser's form validity check for the save
// accelerator. A nil error means the form is valid.
type FormValidator interface {
	ValidateForm(state State) error
}

// FormValidatorFunc adapts a function to FormValidator.
type FormValidatorFunc func(State) error

func (f FormValidatorFunc) ValidateForm(state State) error {
	return f(state)
}

// WidgetValidator checks required fields and runs widget validators over
// every visible, enabled field.
type WidgetValidator struct {
	Registry *widgets.Registry
}

// ValidateForm returns a *ValidationError listing every failing field.
func (v WidgetValidator) ValidateForm(state State) error {
	if !state.Loaded() {
		return ErrNotLoaded
	}
	verr := &ValidationError{}
	for _, field := range VisibleFields(*state.Model, *state.Info) {
		if FieldDisabled(field, *state.Info) {
			continue
		}
		widget := v.Registry.WithFallback(field.Type)
		if !widget.Kind().HasValue() {
			continue
		}
		value := ValueForField(field, state.Record, v.Registry)
		if err := FieldValid(field, value, v.Registry); err != nil {
			verr.add(field.Name, err)
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// FieldValid runs the checks of WidgetValidator for a single value.
func FieldValid(field datamodel.Field, value any, registry *widgets.Registry) error {
	widget := registry.WithFallback(field.Type)
	if widgets.IsEmpty(value) {
		if field.Required {
			return ErrRequired
		}
		return nil
	}
	return widgets.Validate(widget, value, field)
}
