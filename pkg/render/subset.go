package render

import (
	"strings"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// FieldSubset narrows the fields of a view. Empty filters match everything;
// a field must match every non-empty filter.
type FieldSubset struct {
	Names []string
	Kinds []widgets.Kind
	// EditableOnly drops disabled fields and value-less layout widgets.
	EditableOnly bool
}

// ApplySubset removes the fields of view that do not match subset.
func ApplySubset(view *editpage.View, subset FieldSubset) {
	if view == nil {
		return
	}
	names := normaliseTokens(subset.Names)
	kinds := make(map[widgets.Kind]struct{}, len(subset.Kinds))
	for _, kind := range subset.Kinds {
		kinds[kind] = struct{}{}
	}
	if len(names) == 0 && len(kinds) == 0 && !subset.EditableOnly {
		return
	}

	filtered := make([]editpage.FieldView, 0, len(view.Fields))
	for _, field := range view.Fields {
		if len(names) > 0 {
			if _, ok := names[strings.ToLower(field.Name)]; !ok {
				continue
			}
		}
		if len(kinds) > 0 {
			if _, ok := kinds[field.Kind]; !ok {
				continue
			}
		}
		if subset.EditableOnly && (field.Disabled || !field.HasValue) {
			continue
		}
		filtered = append(filtered, field)
	}
	view.Fields = filtered
}

// ParseSubsetNames splits a comma separated name list.
func ParseSubsetNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normaliseTokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if trimmed := strings.ToLower(strings.TrimSpace(value)); trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}
