package render

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeCatalog holds theme manifests and resolves a name and variant into
// the configuration renderers consume. It satisfies theme.ThemeSelector.
type ThemeCatalog struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog returns an empty catalog.
func NewThemeCatalog() *ThemeCatalog {
	return &ThemeCatalog{manifests: make(map[string]*theme.Manifest)}
}

// Add validates and stores a manifest. The first manifest added becomes the
// fallback for unknown names.
func (c *ThemeCatalog) Add(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	if manifest.Version == "" {
		manifest.Version = "1.0.0"
	}
	if err := theme.NewRegistry().Register(manifest); err != nil {
		return fmt.Errorf("render: theme %q: %w", manifest.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifests[manifest.Name] = manifest
	if c.fallback == "" {
		c.fallback = manifest.Name
	}
	return nil
}

// Names lists the stored themes.
func (c *ThemeCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks a manifest by name, falling back to the first one added. An
// unknown variant resolves to the base theme.
func (c *ThemeCatalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	manifest, ok := c.manifests[name]
	if !ok {
		manifest, ok = c.manifests[c.fallback]
	}
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if _, known := manifest.Variants[variant]; !known {
		variant = ""
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// Resolve selects a theme and flattens it into renderer configuration.
func (c *ThemeCatalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ThemeConfig(selection), nil
}

// ThemeConfig merges a selection's base manifest with its variant. Tokens
// become CSS custom properties named "--<token>".
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := maps.Clone(manifest.Tokens)
	partials := maps.Clone(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overlay))
	}
	maps.Copy(base, overlay)
	return base
}
