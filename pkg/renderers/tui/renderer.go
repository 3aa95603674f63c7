package tui

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// Renderer prints a plain text summary of an edit page view.
type Renderer struct {
	settings settings
	strip    *bluemonday.Policy

	title    *color.Color
	label    *color.Color
	muted    *color.Color
	errColor *color.Color
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer.
func New(options ...Option) *Renderer {
	s := settings{out: os.Stdout, theme: defaultTheme()}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	r := &Renderer{
		settings: s,
		strip:    bluemonday.StrictPolicy(),
		title:    color.New(color.Bold, color.Underline),
		label:    color.New(color.Bold),
		muted:    color.New(color.Faint),
		errColor: color.New(color.FgRed),
	}
	if s.color != nil {
		for _, c := range []*color.Color{r.title, r.label, r.muted, r.errColor} {
			if *s.color {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the format produced by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render lists every field with its current text, placeholder, description
// and messages.
func (r *Renderer) Render(ctx context.Context, view editpage.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	r.title.Fprintln(&buf, view.Title)

	for _, field := range view.Fields {
		r.writeField(&buf, field, fieldMessages(field, opts.Errors))
	}

	locale := opts.ResolvedLocale(view.Locale)
	formErrors := render.MergeFormErrors(opts.FormErrors, view.Error)
	if len(formErrors) > 0 {
		r.errColor.Fprintln(&buf, r.settings.theme.ErrorPrefix+render.Translate(opts, locale, i18n.KeyErrorOccurred, "An Error Occurred"))
		for _, msg := range formErrors {
			r.errColor.Fprintf(&buf, "  %s\n", msg)
		}
	}
	if view.PendingChanges {
		r.muted.Fprintln(&buf, r.settings.theme.InfoPrefix+render.Translate(opts, locale, i18n.KeyUnloadActiveTab, "unsaved changes"))
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeField(buf *bytes.Buffer, field editpage.FieldView, messages []string) {
	switch field.Kind {
	case widgets.KindLine, widgets.KindSpacing:
		buf.WriteString("\n")
		return
	case widgets.KindHeading, widgets.KindInfo:
		r.label.Fprintf(buf, "\n%s\n", field.Label)
		return
	}

	label := field.Label
	if field.Required {
		label += " *"
	}
	r.label.Fprintf(buf, "%s", label)
	fmt.Fprintf(buf, ": %s", r.fieldText(field))
	if field.Disabled {
		r.muted.Fprint(buf, " (read-only)")
	}
	buf.WriteString("\n")

	if desc := r.plain(field.Description); desc != "" {
		r.muted.Fprintf(buf, "  %s\n", desc)
	}
	for _, msg := range messages {
		r.errColor.Fprintf(buf, "  %s%s\n", r.settings.theme.ErrorPrefix, msg)
	}
}

func (r *Renderer) fieldText(field editpage.FieldView) string {
	switch field.Kind {
	case widgets.KindCheckbox:
		switch {
		case field.Unset:
			return r.muted.Sprint("-")
		case field.Checked:
			return "[x] " + field.CheckboxLabel
		default:
			return "[ ] " + field.CheckboxLabel
		}
	case widgets.KindCheckboxes, widgets.KindSelect:
		var selected []string
		for _, choice := range field.Choices {
			if choice.Selected {
				selected = append(selected, choice.Label)
			}
		}
		if len(selected) > 0 {
			return strings.Join(selected, ", ")
		}
	default:
		if text := strings.TrimSpace(field.Text); text != "" {
			return singleLine(text)
		}
	}
	if field.PlaceholderText != "" {
		return r.muted.Sprintf("(%s)", field.PlaceholderText)
	}
	return r.muted.Sprint("-")
}

func (r *Renderer) plain(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.strip.Sanitize(description)))
}

func singleLine(text string) string {
	first, rest, found := strings.Cut(text, "\n")
	if !found {
		return first
	}
	lines := strings.Count(rest, "\n") + 1
	return fmt.Sprintf("%s … (+%d lines)", first, lines)
}

func fieldMessages(field editpage.FieldView, errs map[string][]string) []string {
	if field.Error == "" {
		return render.MergeFormErrors(errs[field.Name])
	}
	return render.MergeFormErrors(errs[field.Name], field.Error)
}
