// Package datamodel describes the record schema and metadata returned by the
// admin backend alongside a record's raw field values.
package datamodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType describes the declared type of a field. The backend sends either
// a bare type name or an object carrying the widget hint and layout sizing.
type FieldType struct {
	Name   string `json:"name"`
	Widget string `json:"widget,omitempty"`
	Size   string `json:"size,omitempty"`
	Width  string `json:"width,omitempty"`
}

// Key returns the identifier used for widget lookup, preferring the widget
// hint over the type name.
func (t FieldType) Key() string {
	if widget := strings.TrimSpace(t.Widget); widget != "" {
		return widget
	}
	return strings.TrimSpace(t.Name)
}

func (t FieldType) String() string {
	return t.Name
}

// UnmarshalJSON accepts both `"string"` and `{"name": "string", ...}`.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = FieldType{}
		return nil
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("datamodel: field type: %w", err)
		}
		*t = FieldType{Name: name}
		return nil
	}
	type plain FieldType
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return fmt.Errorf("datamodel: field type: %w", err)
	}
	*t = FieldType(decoded)
	return nil
}

// Choice is a selectable option of select and checkboxes fields. On the wire
// a choice is a `[value, label_i18n]` pair.
type Choice struct {
	Value     string            `json:"value"`
	LabelI18n map[string]string `json:"label_i18n,omitempty"`
}

// UnmarshalJSON accepts `["value", {"en": "Label"}]`, `["value", "Label"]`
// and `{"value": ..., "label_i18n": ...}`.
func (c *Choice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return fmt.Errorf("datamodel: choice: %w", err)
		}
		if len(pair) == 0 {
			return fmt.Errorf("datamodel: choice: empty pair")
		}
		var value any
		if err := json.Unmarshal(pair[0], &value); err != nil {
			return fmt.Errorf("datamodel: choice value: %w", err)
		}
		out := Choice{Value: fmt.Sprint(value)}
		if len(pair) > 1 {
			labels, err := decodeI18n(pair[1])
			if err != nil {
				return fmt.Errorf("datamodel: choice label: %w", err)
			}
			out.LabelI18n = labels
		}
		*c = out
		return nil
	}
	type plain Choice
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return fmt.Errorf("datamodel: choice: %w", err)
	}
	*c = Choice(decoded)
	return nil
}

func decodeI18n(raw json.RawMessage) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return nil, err
		}
		return map[string]string{"en": label}, nil
	}
	var labels map[string]string
	if err := json.Unmarshal(trimmed, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// FlowBlockModel describes one block type usable inside a flow field.
type FlowBlockModel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	NameI18n map[string]string `json:"name_i18n,omitempty"`
	Fields   []Field           `json:"fields,omitempty"`
	Order    int               `json:"order,omitempty"`
}

// Field is one entry of a data model.
type Field struct {
	Name            string                    `json:"name"`
	Type            FieldType                 `json:"type"`
	Label           string                    `json:"label,omitempty"`
	LabelI18n       map[string]string         `json:"label_i18n,omitempty"`
	DescriptionI18n map[string]string         `json:"description_i18n,omitempty"`
	Default         any                       `json:"default"`
	AltsEnabled     *bool                     `json:"alts_enabled"`
	Required        bool                      `json:"required,omitempty"`
	Hidden          bool                      `json:"hidden,omitempty"`
	AddonLabelI18n  map[string]string         `json:"addon_label_i18n,omitempty"`
	CheckboxLabel   map[string]string         `json:"checkbox_label_i18n,omitempty"`
	Choices         []Choice                  `json:"choices,omitempty"`
	Flowblocks      map[string]FlowBlockModel `json:"flowblocks,omitempty"`
	FlowblockOrder  []string                  `json:"flowblock_order,omitempty"`
}

// AltPolicy returns how the field behaves across alternatives.
func (f Field) AltPolicy() AltPolicy {
	return AltPolicyFromFlag(f.AltsEnabled)
}

// DataModel is the schema of a record.
type DataModel struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PrimaryField string  `json:"primary_field,omitempty"`
	Fields       []Field `json:"fields"`
}

// Field looks a field up by name.
func (m *DataModel) Field(name string) (Field, bool) {
	if m == nil {
		return Field{}, false
	}
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// HasField reports whether the model declares name.
func (m *DataModel) HasField(name string) bool {
	_, ok := m.Field(name)
	return ok
}

// RecordInfo is the backend's metadata about the edited record.
type RecordInfo struct {
	ID                    string            `json:"id"`
	Path                  string            `json:"path"`
	Alt                   string            `json:"alt"`
	Exists                bool              `json:"exists"`
	IsAttachment          bool              `json:"is_attachment"`
	CanBeDeleted          bool              `json:"can_be_deleted"`
	SlugFormat            string            `json:"slug_format"`
	DefaultTemplate       string            `json:"default_template"`
	ImpliedAttachmentType string            `json:"implied_attachment_type"`
	Label                 string            `json:"label"`
	LabelI18n             map[string]string `json:"label_i18n,omitempty"`
}

// RawRecord is the payload of the raw record read endpoint.
type RawRecord struct {
	Data       map[string]any `json:"data"`
	DataModel  DataModel      `json:"datamodel"`
	RecordInfo RecordInfo     `json:"record_info"`
}
