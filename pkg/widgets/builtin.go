package widgets

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/metaformat"
)

var (
	// ErrInvalidInteger reports text that is not a whole number.
	ErrInvalidInteger = errors.New("widgets: not a valid integer")
	// ErrInvalidFloat reports text that is not a decimal number.
	ErrInvalidFloat = errors.New("widgets: not a valid number")
	// ErrInvalidURL reports text that is neither an absolute URL nor a path.
	ErrInvalidURL = errors.New("widgets: not a valid URL")
	// ErrInvalidDate reports text that is not a YYYY-MM-DD date.
	ErrInvalidDate = errors.New("widgets: not a valid date")
	// ErrInvalidFlow reports flow text that could not be split into blocks.
	ErrInvalidFlow = errors.New("widgets: not valid flow content")
)

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	floatPattern   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

type textWidget struct {
	name string
	kind Kind
}

func (w textWidget) Name() string { return w.name }
func (w textWidget) Kind() Kind   { return w.kind }

type fallbackWidget struct{}

func (fallbackWidget) Name() string { return "fallback" }
func (fallbackWidget) Kind() Kind   { return KindText }

type fakeWidget struct {
	kind Kind
}

func (w fakeWidget) Name() string { return string(w.kind) }
func (w fakeWidget) Kind() Kind   { return w.kind }

type integerWidget struct{}

func (integerWidget) Name() string { return "integer" }
func (integerWidget) Kind() Kind   { return KindInteger }

func (integerWidget) ValidateValue(value any, _ datamodel.Field) error {
	text := strings.TrimSpace(Text(value))
	if text == "" || integerPattern.MatchString(text) {
		return nil
	}
	return ErrInvalidInteger
}

type floatWidget struct{}

func (floatWidget) Name() string { return "float" }
func (floatWidget) Kind() Kind   { return KindFloat }

func (floatWidget) ValidateValue(value any, _ datamodel.Field) error {
	text := strings.TrimSpace(Text(value))
	if text == "" || floatPattern.MatchString(text) {
		return nil
	}
	return ErrInvalidFloat
}

type urlWidget struct{}

func (urlWidget) Name() string { return "url" }
func (urlWidget) Kind() Kind   { return KindURL }

func (urlWidget) ValidateValue(value any, _ datamodel.Field) error {
	text := strings.TrimSpace(Text(value))
	if text == "" {
		return nil
	}
	parsed, err := url.Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "" && (parsed.Host != "" || parsed.Opaque != "") {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		return nil
	}
	return ErrInvalidURL
}

type dateWidget struct{}

func (dateWidget) Name() string { return "date" }
func (dateWidget) Kind() Kind   { return KindDate }

func (dateWidget) ValidateValue(value any, _ datamodel.Field) error {
	text := strings.TrimSpace(Text(value))
	if text == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", text); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// checkboxWidget keeps booleans in their stored "yes"/"no" text form.
type checkboxWidget struct{}

func (checkboxWidget) Name() string { return "checkbox" }
func (checkboxWidget) Kind() Kind   { return KindCheckbox }

// DecodeForm expects a hidden input holding "" while the value is unset and
// "no" otherwise, followed by the checkbox's own "yes" when ticked. An
// untouched unset value stays unset.
func (checkboxWidget) DecodeForm(values []string, _ datamodel.FieldType) any {
	for _, value := range values {
		if IsTrue(value) {
			return "yes"
		}
	}
	if len(values) > 0 && strings.TrimSpace(values[0]) == "" {
		return ""
	}
	return "no"
}

// checkboxesWidget stores the selected choices as a comma separated list.
type checkboxesWidget struct{}

func (checkboxesWidget) Name() string { return "checkboxes" }
func (checkboxesWidget) Kind() Kind   { return KindCheckboxes }

func (checkboxesWidget) SerializeValue(value any, _ datamodel.FieldType) any {
	return strings.Join(StringList(value), ", ")
}

func (checkboxesWidget) DeserializeValue(raw any, _ datamodel.FieldType) any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		parts := strings.Split(typed, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		if len(out) == 1 && out[0] == "" {
			return []string{}
		}
		return out
	default:
		return StringList(raw)
	}
}

func (checkboxesWidget) DecodeForm(values []string, _ datamodel.FieldType) any {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// flowWidget keeps flow fields as parsed blocks in memory.
type flowWidget struct{}

func (flowWidget) Name() string { return "flow" }
func (flowWidget) Kind() Kind   { return KindFlow }

func (flowWidget) SerializeValue(value any, _ datamodel.FieldType) any {
	switch typed := value.(type) {
	case []metaformat.FlowBlock:
		return metaformat.SerializeFlow(typed)
	default:
		return Text(value)
	}
}

// DeserializeValue parses flow text into blocks. Malformed text is kept as is
// so the user can repair it; the validator rejects it on save.
func (flowWidget) DeserializeValue(raw any, _ datamodel.FieldType) any {
	switch typed := raw.(type) {
	case []metaformat.FlowBlock:
		return typed
	case nil:
		return []metaformat.FlowBlock{}
	default:
		blocks, err := metaformat.ParseFlow(Text(raw))
		if err != nil {
			return Text(raw)
		}
		if blocks == nil {
			blocks = []metaformat.FlowBlock{}
		}
		return blocks
	}
}

func (flowWidget) ValidateValue(value any, _ datamodel.Field) error {
	if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
		if _, err := metaformat.ParseFlow(text); err != nil {
			return ErrInvalidFlow
		}
	}
	return nil
}
