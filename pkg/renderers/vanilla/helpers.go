package vanilla

import (
	"fmt"
	"sort"
	"strings"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "field-" + cssIdent(trimmed)
}

func choiceID(field, value string) string {
	return controlID(field) + "-" + cssIdent(value)
}

// widthClass turns a Lektor width such as "1/2" into "width-1-2".
func widthClass(width string) string {
	width = strings.TrimSpace(width)
	if width == "" || width == "1/1" {
		return ""
	}
	return "width-" + cssIdent(strings.ReplaceAll(width, "/", "-"))
}

func cssIdent(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := tokens[:0]
	for _, token := range tokens {
		if strings.ContainsAny(token, `"'<>`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// cssVarsStyle renders custom properties as a declaration list. Names and
// values that could break out of the style block are dropped.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		name := "--" + cssIdent(strings.TrimPrefix(key, "--"))
		value := strings.TrimSpace(vars[key])
		if value == "" || strings.ContainsAny(value, "<>{};\\") {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s;", name, value))
	}
	return strings.Join(parts, " ")
}
