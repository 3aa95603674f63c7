package render

import (
	"context"

	"github.com/goliatone/go-recordedit/pkg/editpage"
)

// Renderer turns an edit page view into a byte representation (HTML, JSON,
// terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view editpage.View, options RenderOptions) ([]byte, error)
}
