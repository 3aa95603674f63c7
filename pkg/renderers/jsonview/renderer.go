// Package jsonview renders the edit page view as JSON for API clients.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/render"
)

// Document is the JSON body produced by the renderer.
type Document struct {
	View   editpage.View       `json:"view"`
	Errors render.ErrorMapping `json:"errors,omitzero"`
	Hidden map[string]string   `json:"hidden,omitempty"`
}

// Renderer writes views as indented or compact JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent indents the output with the given string.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New returns a JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return "json" }
func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, view editpage.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := Document{
		View: view,
		Errors: render.ErrorMapping{
			Fields: opts.Errors,
			Form:   render.MergeFormErrors(opts.FormErrors, view.Error),
		},
		Hidden: opts.Hidden,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonview: encode view: %w", err)
	}
	return buf.Bytes(), nil
}
