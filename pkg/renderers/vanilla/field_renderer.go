package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/render/template"
	"github.com/goliatone/go-recordedit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	policy    *bluemonday.Policy
	fieldCls  string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string, policy *bluemonday.Policy, fieldClass string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		policy:         policy,
		fieldCls:       fieldClass,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field editpage.FieldView, errs []string) (string, error) {
	componentName := components.NameForKind(field.Kind)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	data := components.ComponentData{
		Template: r.templates,
		Partials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, controlField(field, len(errs) > 0), data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}
	r.usedComponents[componentName] = struct{}{}

	return r.buildFieldMarkup(field, componentName, control.String(), errs), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func controlField(fv editpage.FieldView, invalid bool) components.Field {
	field := components.Field{
		Name:          fv.Name,
		ID:            controlID(fv.Name),
		InputName:     render.FieldInputName(fv.Name),
		Kind:          string(fv.Kind),
		InputType:     "text",
		Text:          fv.Text,
		Placeholder:   fv.PlaceholderText,
		Label:         fv.Label,
		Disabled:      fv.Disabled,
		Required:      fv.Required,
		Checked:       fv.Checked,
		Unset:         fv.Unset,
		Invalid:       invalid,
		AddonLabel:    fv.AddonLabel,
		CheckboxLabel: fv.CheckboxLabel,
	}
	switch fv.Kind {
	case widgets.KindURL:
		field.InputType = "url"
	case widgets.KindDate:
		field.InputType = "date"
	case widgets.KindInteger:
		field.InputType, field.Step = "number", "1"
	case widgets.KindFloat:
		field.InputType, field.Step = "number", "any"
	}
	for _, choice := range fv.Choices {
		field.Choices = append(field.Choices, components.Choice{
			ID:       choiceID(fv.Name, choice.Value),
			Value:    choice.Value,
			Label:    choice.Label,
			Selected: choice.Selected,
		})
	}
	return field
}

func (r *componentRenderer) buildFieldMarkup(field editpage.FieldView, componentName, control string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	classes := []string{r.fieldCls, "field-" + cssIdent(field.Widget)}
	if width := widthClass(field.Width); width != "" {
		classes = append(classes, width)
	}
	if field.Disabled {
		classes = append(classes, "is-disabled")
	}
	if len(errs) > 0 {
		classes = append(classes, "has-error")
	}

	fmt.Fprintf(&builder, `<div class="%s" data-field="%s" data-component="%s">`+"\n",
		html.EscapeString(strings.Join(classes, " ")),
		html.EscapeString(field.Name),
		html.EscapeString(componentName),
	)

	if shouldRenderLabel(field) {
		builder.WriteString(`    <label`)
		if labelSupportsFor(field.Kind) {
			fmt.Fprintf(&builder, ` for="%s"`, html.EscapeString(controlID(field.Name)))
		}
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := r.sanitize(field.Description); desc != "" {
		builder.WriteString(`    <div class="recordedit-description">`)
		builder.WriteString(desc)
		builder.WriteString("</div>\n")
	}

	if len(errs) > 0 {
		builder.WriteString(`    <ul class="recordedit-field-errors">`)
		for _, msg := range errs {
			builder.WriteString(`<li>`)
			builder.WriteString(html.EscapeString(msg))
			builder.WriteString(`</li>`)
		}
		builder.WriteString("</ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

// sanitize keeps the inline markup field descriptions are written with and
// strips everything that could run script.
func (r *componentRenderer) sanitize(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	if r.policy == nil {
		return html.EscapeString(description)
	}
	return strings.TrimSpace(r.policy.Sanitize(description))
}

func shouldRenderLabel(field editpage.FieldView) bool {
	if !field.HasValue {
		return false
	}
	return strings.TrimSpace(field.Label) != ""
}

func labelSupportsFor(kind widgets.Kind) bool {
	return kind != widgets.KindCheckboxes && kind != widgets.KindCheckbox
}

// fieldMessages merges the messages passed for a field with the page's own
// field error.
func fieldMessages(field editpage.FieldView, errs map[string][]string) []string {
	messages := errs[field.Name]
	if field.Error == "" {
		return render.MergeFormErrors(messages)
	}
	return render.MergeFormErrors(messages, field.Error)
}
