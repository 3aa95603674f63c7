// Package config holds the application configuration and its YAML loader.
package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	theme "github.com/goliatone/go-theme"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Backend   BackendConfig     `yaml:"backend"`
	Admin     AdminConfig       `yaml:"admin"`
	Theme     ThemeConfig       `yaml:"theme"`
	Templates TemplatesConfig   `yaml:"templates"`
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if err := c.Theme.Validate(); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if err := c.Templates.Validate(); err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	return nil
}

// ApplicationConfig holds process level settings.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// BackendConfig points at the admin API records are read from and written to.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the backend configuration.
func (c *BackendConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Platforms accepted by AdminConfig.Platform.
const (
	PlatformAuto  = "auto"
	PlatformMac   = "mac"
	PlatformOther = "other"
)

var languagePattern = regexp.MustCompile(`^[a-z]{2}([_-][A-Za-z]{2})?$`)

// AdminConfig controls the edit page front ends.
type AdminConfig struct {
	// BaseURL prefixes every admin page URL, "/admin" by default.
	BaseURL string `yaml:"base_url"`
	// Language selects labels and chrome strings.
	Language string `yaml:"language"`
	// Platform picks the save shortcut; empty detects it.
	Platform string `yaml:"platform"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	c.BaseURL = "/" + strings.Trim(strings.TrimSpace(c.BaseURL), "/")
	if c.Platform == "" {
		c.Platform = PlatformAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Language, validation.Required, validation.Match(languagePattern)),
		validation.Field(&c.Platform, validation.In(PlatformAuto, PlatformMac, PlatformOther)),
	)
}

// PageURL joins the admin base URL with an admin page and record path, as
// in "/admin/preview/root:blog".
func (c *AdminConfig) PageURL(page, urlPath string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + page + "/" + urlPath
}

// ThemeConfig describes the theme applied to the HTML edit page.
type ThemeConfig struct {
	Name       string                       `yaml:"name"`
	Variant    string                       `yaml:"variant"`
	Stylesheet string                       `yaml:"stylesheet"`
	Tokens     map[string]string            `yaml:"tokens"`
	Variants   map[string]map[string]string `yaml:"variants"`
}

// Validate validates the theme configuration.
func (c *ThemeConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	); err != nil {
		return err
	}
	if c.Variant != "" {
		if _, ok := c.Variants[c.Variant]; !ok {
			return fmt.Errorf("variant %q is not declared", c.Variant)
		}
	}
	return nil
}

// Manifest converts the configuration into a theme manifest. Variants only
// override tokens.
func (c *ThemeConfig) Manifest() *theme.Manifest {
	manifest := &theme.Manifest{
		Name:   c.Name,
		Tokens: c.Tokens,
	}
	if c.Stylesheet != "" {
		manifest.Assets = theme.Assets{Files: map[string]string{"stylesheet": c.Stylesheet}}
	}
	if len(c.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(c.Variants))
		for name, tokens := range c.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: tokens}
		}
	}
	return manifest
}

// TemplatesConfig lets deployments override the embedded HTML templates.
type TemplatesConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the templates configuration.
func (c *TemplatesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.When(c.Watch, validation.Required.Error("is required to watch templates"))),
	)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP:     HTTPConfig{Port: 8080},
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000/admin/api",
			Timeout: 30 * time.Second,
		},
		Admin: AdminConfig{
			BaseURL:  "/admin",
			Language: "en",
			Platform: PlatformAuto,
		},
		Theme: ThemeConfig{
			Name:   "default",
			Tokens: map[string]string{"accent": "#2a6fdb"},
		},
	}
}
