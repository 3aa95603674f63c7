// Package i18n holds the admin UI translations and resolves the translated
// labels that data models carry as language maps.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a requested locale has no entry.
const DefaultLocale = "en"

// Message keys used by the edit page.
const (
	KeyDelete                   = "DELETE"
	KeySaveChanges              = "SAVE_CHANGES"
	KeyEditPageName             = "EDIT_PAGE_NAME"
	KeyEditAttachmentMetadataOf = "EDIT_ATTACHMENT_METADATA_OF"
	KeyUnloadActiveTab          = "UNLOAD_ACTIVE_TAB"
	KeyError                    = "ERROR"
	KeyErrorOccurred            = "ERROR_OCCURRED"
	KeyInvalidForm              = "INVALID_FORM"
	KeyEditField                = "EDIT_FIELD"
	KeyQuit                     = "QUIT"
	KeyYes                      = "YES"
	KeyNo                       = "NO"
	KeyCancel                   = "CANCEL"
	KeyClose                    = "CLOSE"
)

// ErrMissingTranslation is returned when neither the locale nor the default
// locale define a key.
var ErrMissingTranslation = errors.New("i18n: missing translation")

//go:embed translations/*.yaml
var embeddedTranslations embed.FS

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is a Translator backed by per-locale YAML message files.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded translations.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(embeddedTranslations, "translations")
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default that panics on failure.
func MustDefault() *Catalog {
	catalog, err := Default()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Load reads every `<locale>.yaml` file found in dir.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}

	catalog := &Catalog{messages: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ".yaml")
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", entry.Name(), err)
		}
		catalog.Add(locale, messages)
	}
	return catalog, nil
}

// Add merges messages into locale.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normaliseLocale(locale)
	if locale == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.messages == nil {
		c.messages = make(map[string]map[string]string)
	}
	dest := c.messages[locale]
	if dest == nil {
		dest = make(map[string]string, len(messages))
		c.messages[locale] = dest
	}
	for key, value := range messages {
		dest[strings.TrimSpace(key)] = value
	}
}

// Locales returns the loaded locales in sorted order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate returns the message for key, trying the locale, its base
// language and finally DefaultLocale. Args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslation
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range candidates(locale) {
		if msg, ok := c.messages[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

// T translates key with t, falling back to the key itself.
func T(t Translator, locale, key string) string {
	if t == nil {
		return key
	}
	msg, err := t.Translate(locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return key
	}
	return msg
}

// Label picks the entry of a translated label map for locale, falling back
// to the base language, DefaultLocale and finally fallback.
func Label(locale string, labels map[string]string, fallback string) string {
	for _, candidate := range candidates(locale) {
		if label := strings.TrimSpace(labels[candidate]); label != "" {
			return label
		}
	}
	return fallback
}

func candidates(locale string) []string {
	locale = normaliseLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, found := strings.Cut(locale, "-"); found && base != "" {
			out = append(out, base)
		}
	}
	if locale != DefaultLocale {
		out = append(out, DefaultLocale)
	}
	return out
}

func normaliseLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}
