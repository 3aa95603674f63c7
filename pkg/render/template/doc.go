// Package template defines the template engine seam used by the HTML
// renderers, keeping renderers independent from the engine behind it.
package template
