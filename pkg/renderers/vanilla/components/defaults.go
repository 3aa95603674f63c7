package components

import (
	"bytes"
	"fmt"
	"strings"
)

const templatePrefix = "components/"

// NewDefaultRegistry returns a registry with a component for every widget
// kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(NameCheckboxes, Descriptor{
		Renderer: templateComponentRenderer("forms.checkboxes", templatePrefix+"checkboxes.tmpl"),
	})
	registry.MustRegister(NameDecoration, Descriptor{
		Renderer: decorationRenderer,
	})
	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field":  field,
			"config": data.Config,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// decorationRenderer draws the value-less widgets. Headings and info boxes
// show the field label; lines and spacing carry no text.
func decorationRenderer(buf *bytes.Buffer, field Field, _ ComponentData) error {
	switch field.Kind {
	case "line":
		buf.WriteString(`<hr class="recordedit-line">`)
	case "spacing":
		buf.WriteString(`<div class="recordedit-spacing"></div>`)
	case "heading":
		fmt.Fprintf(buf, `<h3 class="recordedit-heading">%s</h3>`, escape(field.Label))
	case "info":
		fmt.Fprintf(buf, `<p class="recordedit-info">%s</p>`, escape(field.Label))
	}
	return nil
}
