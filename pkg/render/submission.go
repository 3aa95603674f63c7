package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Form protocol shared by the HTML renderer and the handlers decoding its
// submissions. Field inputs are prefixed so record fields starting with an
// underscore never collide with control inputs.
const (
	FieldInputPrefix = "field:"
	ActionInput      = "_action"

	// ActionSave is posted by the save button.
	ActionSave = "save"
	// ActionAccelerator is posted by the keyboard shortcut script.
	ActionAccelerator = "accelerator"
)

// FieldInputName returns the input name of a record field.
func FieldInputName(field string) string {
	return FieldInputPrefix + field
}

// FieldValues extracts the submitted values of every field input.
func FieldValues(form url.Values) map[string][]string {
	out := make(map[string][]string)
	for key, values := range form {
		name, ok := strings.CutPrefix(key, FieldInputPrefix)
		if !ok || name == "" {
			continue
		}
		out[name] = values
	}
	return out
}

// HiddenField represents a hidden form input emitted alongside the fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields for deterministic rendering.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}
