// Package widgets maps field types to the widgets that present them and
// transform their values.
package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
)

// Registry resolves widgets by field type. Lookups try the type's widget hint
// first and then its name. Unknown types resolve to the fallback widget
// through WithFallback.
type Registry struct {
	mu       sync.RWMutex
	widgets  map[string]Widget
	fallback Widget
}

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry that only knows the fallback widget.
func NewEmptyRegistry() *Registry {
	return &Registry{
		widgets:  make(map[string]Widget),
		fallback: fallbackWidget{},
	}
}

// Register binds widget to one or more type keys. Without keys the widget's
// own name is used. Later registrations replace earlier ones.
func (r *Registry) Register(widget Widget, keys ...string) error {
	if r == nil {
		return fmt.Errorf("widgets: registry is nil")
	}
	if widget == nil {
		return fmt.Errorf("widgets: widget is required")
	}
	if len(keys) == 0 {
		keys = []string{widget.Name()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return fmt.Errorf("widgets: type key is required for %q", widget.Name())
		}
		r.widgets[trimmed] = widget
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(widget Widget, keys ...string) {
	if err := r.Register(widget, keys...); err != nil {
		panic(err)
	}
}

// SetFallback replaces the widget returned for unknown types.
func (r *Registry) SetFallback(widget Widget) {
	if r == nil || widget == nil {
		return
	}
	r.mu.Lock()
	r.fallback = widget
	r.mu.Unlock()
}

// Lookup returns the widget registered for the field type.
func (r *Registry) Lookup(fieldType datamodel.FieldType) (Widget, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range []string{fieldType.Key(), strings.TrimSpace(fieldType.Name)} {
		if key == "" {
			continue
		}
		if widget, ok := r.widgets[key]; ok {
			return widget, true
		}
	}
	return nil, false
}

// WithFallback returns the widget for the field type, or the fallback widget
// when none is registered.
func (r *Registry) WithFallback(fieldType datamodel.FieldType) Widget {
	if widget, ok := r.Lookup(fieldType); ok {
		return widget
	}
	if r == nil {
		return fallbackWidget{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Types returns the registered type keys in sorted order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.widgets))
	for key := range r.widgets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(textWidget{name: "singleline-text", kind: KindText}, "singleline-text", "string")
	r.MustRegister(textWidget{name: "slug", kind: KindSlug}, "slug")
	r.MustRegister(textWidget{name: "multiline-text", kind: KindTextArea}, "multiline-text", "text", "markdown", "html")
	r.MustRegister(textWidget{name: "select", kind: KindSelect}, "select")
	r.MustRegister(urlWidget{}, "url")
	r.MustRegister(integerWidget{}, "integer", "sort_key")
	r.MustRegister(floatWidget{}, "float")
	r.MustRegister(dateWidget{}, "date")
	r.MustRegister(checkboxWidget{}, "checkbox", "boolean")
	r.MustRegister(checkboxesWidget{}, "checkboxes")
	r.MustRegister(flowWidget{}, "flow")
	for _, kind := range []Kind{KindLine, KindSpacing, KindInfo, KindHeading} {
		r.MustRegister(fakeWidget{kind: kind}, string(kind))
	}
}
