package editpage

import (
	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// systemFields are maintained by the backend and never edited or written.
var systemFields = map[string]struct{}{
	"_id":             {},
	"_path":           {},
	"_gid":            {},
	"_alt":            {},
	"_source_alt":     {},
	"_model":          {},
	"_attachment_for": {},
}

// IsIllegalField reports whether a field must be hidden from the editor and
// left out of saves. "_attachment_type" is only editable on attachments.
func IsIllegalField(field datamodel.Field, info datamodel.RecordInfo) bool {
	if _, ok := systemFields[field.Name]; ok {
		return true
	}
	if field.Name == "_attachment_type" {
		return !info.IsAttachment
	}
	return false
}

// BuildRecordData deserializes the raw backend values of every model field
// present in data. Fields missing from data are left out.
func BuildRecordData(model datamodel.DataModel, data map[string]any, registry *widgets.Registry) map[string]any {
	out := make(map[string]any, len(model.Fields))
	for _, field := range model.Fields {
		raw, ok := data[field.Name]
		if !ok {
			continue
		}
		widget := registry.WithFallback(field.Type)
		out[field.Name] = widgets.Deserialize(widget, raw, field.Type)
	}
	return out
}

// BuildPayloadData serializes the record for saving. Every legal field of
// the model is present; fields without a value are written as nil so the
// backend clears them.
func BuildPayloadData(model datamodel.DataModel, info datamodel.RecordInfo, record map[string]any, registry *widgets.Registry) map[string]any {
	out := make(map[string]any, len(model.Fields))
	for _, field := range model.Fields {
		if IsIllegalField(field, info) {
			continue
		}
		value, ok := record[field.Name]
		if !ok {
			out[field.Name] = nil
			continue
		}
		widget := registry.WithFallback(field.Type)
		out[field.Name] = widgets.Serialize(widget, value, field.Type)
	}
	return out
}

// ValueForField returns the in-memory value shown for a field: the stored
// value when present, otherwise the widget's empty value.
func ValueForField(field datamodel.Field, record map[string]any, registry *widgets.Registry) any {
	if value, ok := record[field.Name]; ok {
		return value
	}
	widget := registry.WithFallback(field.Type)
	return widgets.Deserialize(widget, "", field.Type)
}

// PlaceholderForField returns the hint shown while a field is empty: the
// deserialized model default, or the record info value the backend falls
// back to for _slug, _template and _attachment_type. Nil means no hint.
func PlaceholderForField(field datamodel.Field, info datamodel.RecordInfo, registry *widgets.Registry) any {
	if field.Default != nil {
		widget := registry.WithFallback(field.Type)
		return widgets.Deserialize(widget, field.Default, field.Type)
	}
	switch field.Name {
	case "_slug":
		return info.SlugFormat
	case "_template":
		return info.DefaultTemplate
	case "_attachment_type":
		return info.ImpliedAttachmentType
	}
	return nil
}

// FieldDisabled reports whether a field is read-only because it is shared
// across alternatives and the record is open in a non-primary one.
func FieldDisabled(field datamodel.Field, info datamodel.RecordInfo) bool {
	isPrimary := recordpath.New(info.Path, info.Alt).IsPrimary()
	return !field.AltPolicy().Editable(isPrimary)
}

// VisibleFields returns the model fields rendered by the editor, in model
// order.
func VisibleFields(model datamodel.DataModel, info datamodel.RecordInfo) []datamodel.Field {
	out := make([]datamodel.Field, 0, len(model.Fields))
	for _, field := range model.Fields {
		if IsIllegalField(field, info) || field.Hidden {
			continue
		}
		out = append(out, field)
	}
	return out
}
