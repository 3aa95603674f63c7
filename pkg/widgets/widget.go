package widgets

import (
	"github.com/goliatone/go-recordedit/pkg/datamodel"
)

// Kind tells front ends which control presents a widget.
type Kind string

const (
	KindText       Kind = "text"
	KindSlug       Kind = "slug"
	KindURL        Kind = "url"
	KindInteger    Kind = "integer"
	KindFloat      Kind = "float"
	KindDate       Kind = "date"
	KindTextArea   Kind = "textarea"
	KindCheckbox   Kind = "checkbox"
	KindCheckboxes Kind = "checkboxes"
	KindSelect     Kind = "select"
	KindFlow       Kind = "flow"
	KindLine       Kind = "line"
	KindSpacing    Kind = "spacing"
	KindInfo       Kind = "info"
	KindHeading    Kind = "heading"
)

// HasValue reports whether controls of this kind carry a field value. Line,
// spacing, info and heading widgets are purely presentational.
func (k Kind) HasValue() bool {
	switch k {
	case KindLine, KindSpacing, KindInfo, KindHeading:
		return false
	default:
		return true
	}
}

// Widget is bound to a field type and owns how that field's value moves
// between its stored form and its in-memory form. Transform capabilities are
// optional; see Serializer, Deserializer, Validator and FormDecoder.
type Widget interface {
	Name() string
	Kind() Kind
}

// Serializer converts an in-memory value into the form stored by the backend.
type Serializer interface {
	SerializeValue(value any, fieldType datamodel.FieldType) any
}

// Deserializer converts a stored value into its in-memory form.
type Deserializer interface {
	DeserializeValue(raw any, fieldType datamodel.FieldType) any
}

// Validator checks an in-memory value. A nil error means the value satisfies
// the widget's constraints.
type Validator interface {
	ValidateValue(value any, field datamodel.Field) error
}

// FormDecoder converts submitted form values into an in-memory value. Widgets
// without a decoder receive the first submitted value through their
// deserializer.
type FormDecoder interface {
	DecodeForm(values []string, fieldType datamodel.FieldType) any
}

// Serialize applies the widget's serializer, passing the value through
// unchanged when the widget has none.
func Serialize(widget Widget, value any, fieldType datamodel.FieldType) any {
	if s, ok := widget.(Serializer); ok {
		return s.SerializeValue(value, fieldType)
	}
	return value
}

// Deserialize applies the widget's deserializer, passing the value through
// unchanged when the widget has none.
func Deserialize(widget Widget, raw any, fieldType datamodel.FieldType) any {
	if d, ok := widget.(Deserializer); ok {
		return d.DeserializeValue(raw, fieldType)
	}
	return raw
}

// Validate runs the widget's validator when it has one.
func Validate(widget Widget, value any, field datamodel.Field) error {
	if v, ok := widget.(Validator); ok {
		return v.ValidateValue(value, field)
	}
	return nil
}

// DecodeForm turns submitted form values into an in-memory value.
func DecodeForm(widget Widget, values []string, fieldType datamodel.FieldType) any {
	if d, ok := widget.(FormDecoder); ok {
		return d.DecodeForm(values, fieldType)
	}
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	return Deserialize(widget, first, fieldType)
}
