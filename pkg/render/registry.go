package render

import (
	"cmp"
	"fmt"
	"mime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Registry stores renderers by name and resolves them by content type for
// front ends that negotiate on the Accept header.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
// The first registered renderer becomes the negotiation fallback.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Negotiate picks the renderer for the most preferred media type of an
// Accept header value. Preference follows the q weights, then the order of
// the header; q=0 excludes a type. It returns the fallback renderer when
// nothing matches.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, mediaType := range acceptedTypes(accept) {
		for _, name := range r.sortedNamesLocked() {
			renderer := r.renderers[name]
			contentType, _, err := mime.ParseMediaType(renderer.ContentType())
			if err == nil && contentType == mediaType {
				return renderer, nil
			}
		}
	}
	if renderer, ok := r.renderers[r.fallback]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("render: no renderer registered")
}

type acceptedType struct {
	mediaType string
	q         float64
}

// acceptedTypes returns the concrete media types of an Accept header ordered
// by preference. Wildcards and malformed entries are dropped.
func acceptedTypes(accept string) []string {
	var parsed []acceptedType
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || strings.HasSuffix(mediaType, "/*") {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			q, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
		}
		if q <= 0 {
			continue
		}
		parsed = append(parsed, acceptedType{mediaType: mediaType, q: q})
	}
	slices.SortStableFunc(parsed, func(a, b acceptedType) int {
		return cmp.Compare(b.q, a.q)
	})

	out := make([]string, len(parsed))
	for i, entry := range parsed {
		out[i] = entry.mediaType
	}
	return out
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNamesLocked()
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
