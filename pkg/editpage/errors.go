package editpage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded is returned by operations that need a loaded record.
	ErrNotLoaded = errors.New("editpage: record not loaded")
	// ErrSaveInProgress is returned when a save is requested while another
	// save is in flight.
	ErrSaveInProgress = errors.New("editpage: save in progress")
	// ErrUnknownField is returned when a field is not part of the data model.
	ErrUnknownField = errors.New("editpage: unknown field")
	// ErrFieldDisabled is returned when a user edit targets a field that is
	// not editable in the current alternative.
	ErrFieldDisabled = errors.New("editpage: field disabled")
	// ErrInvalidForm wraps every ValidationError.
	ErrInvalidForm = errors.New("editpage: invalid form")
	// ErrRequired is reported for required fields without a value.
	ErrRequired = errors.New("value is required")
)

// FieldError ties a validation failure to a field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects the field errors found by a FormValidator.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidForm.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Error())
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// ByField returns the first message reported for each field.
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string)
	if e == nil {
		return out
	}
	for _, field := range e.Fields {
		if _, exists := out[field.Field]; exists {
			continue
		}
		out[field.Field] = field.Err.Error()
	}
	return out
}

func (e *ValidationError) add(field string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err})
}
