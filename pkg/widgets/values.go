package widgets

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-recordedit/pkg/metaformat"
)

// Text formats an in-memory value for display in a text control.
func Text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, ", ")
	case []any:
		return strings.Join(StringList(typed), ", ")
	case []metaformat.FlowBlock:
		return metaformat.SerializeFlow(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// StringList coerces list-like values into a string slice.
func StringList(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return []string{fmt.Sprint(typed)}
	}
}

// IsTrue reports whether a stored boolean value is set.
func IsTrue(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// IsFalse reports whether a stored boolean value is explicitly unset.
func IsFalse(value any) bool {
	switch typed := value.(type) {
	case bool:
		return !typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "false", "no", "0":
			return true
		}
	}
	return false
}

// IsEmpty reports whether a value counts as missing for required fields.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case []metaformat.FlowBlock:
		return len(typed) == 0
	default:
		return false
	}
}
