package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/editpage"
)

// ErrorMapping splits an error into field-level and form-level messages keyed
// by field name.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Empty reports whether the mapping carries no message.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapError turns an edit page error into messages for the view. Validation
// errors of rendered fields become field messages; everything else, including
// messages for fields the view does not render, is form level. Backend
// request errors surface the backend's message when it sent one.
func MapError(view editpage.View, err error) ErrorMapping {
	mapping := ErrorMapping{}
	if err == nil {
		return mapping
	}

	var verr *editpage.ValidationError
	if errors.As(err, &verr) {
		mapping.Fields = make(map[string][]string)
		for _, fieldErr := range verr.Fields {
			message := fieldErr.Err.Error()
			if _, ok := view.Field(fieldErr.Field); !ok {
				mapping.Form = append(mapping.Form, fieldErr.Error())
				continue
			}
			mapping.Fields[fieldErr.Field] = normalizeMessages(append(mapping.Fields[fieldErr.Field], message))
		}
		if len(mapping.Fields) == 0 {
			mapping.Fields = nil
		}
		mapping.Form = normalizeMessages(mapping.Form)
		return mapping
	}

	var reqErr *client.RequestError
	if errors.As(err, &reqErr) && strings.TrimSpace(reqErr.Message) != "" {
		mapping.Form = normalizeMessages([]string{reqErr.Message})
		return mapping
	}
	mapping.Form = normalizeMessages([]string{err.Error()})
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
