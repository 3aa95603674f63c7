package components

import "github.com/goliatone/go-recordedit/pkg/widgets"

// Component names of the default registry.
const (
	NameInput      = "input"
	NameTextarea   = "textarea"
	NameSelect     = "select"
	NameCheckbox   = "checkbox"
	NameCheckboxes = "checkboxes"
	NameDecoration = "decoration"
)

// NameForKind maps a widget kind to the component presenting it.
func NameForKind(kind widgets.Kind) string {
	switch kind {
	case widgets.KindTextArea, widgets.KindFlow:
		return NameTextarea
	case widgets.KindSelect:
		return NameSelect
	case widgets.KindCheckbox:
		return NameCheckbox
	case widgets.KindCheckboxes:
		return NameCheckboxes
	case widgets.KindLine, widgets.KindSpacing, widgets.KindInfo, widgets.KindHeading:
		return NameDecoration
	default:
		return NameInput
	}
}
