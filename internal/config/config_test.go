package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleYAML = `
app:
  log_level: debug
  http:
    port: ${TEST_PORT}
backend:
  base_url: ${TEST_BACKEND}
  timeout: 5s
admin:
  base_url: /cms/
  language: de
theme:
  name: acme
  variant: dark
  tokens:
    accent: "#123456"
  variants:
    dark:
      accent: "#654321"
templates:
  dir: ./templates
  watch: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_BACKEND", "http://127.0.0.1:5000/admin/api")

	cfg := NewDefaultConfig()
	if err := Load(writeConfig(t, sampleYAML), cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.LogLevel != slog.LevelDebug {
		t.Fatalf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Address() != ":9090" {
		t.Fatalf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:5000/admin/api" || cfg.Backend.Timeout != 5*time.Second {
		t.Fatalf("unexpected backend %+v", cfg.Backend)
	}
	if cfg.Admin.BaseURL != "/cms" || cfg.Admin.Platform != PlatformAuto {
		t.Fatalf("admin not normalised: %+v", cfg.Admin)
	}
	if got := cfg.Admin.PageURL("preview", "root:blog"); got != "/cms/preview/root:blog" {
		t.Fatalf("page url = %q", got)
	}
	if !cfg.Templates.Watch || cfg.Templates.Dir != "./templates" {
		t.Fatalf("unexpected templates %+v", cfg.Templates)
	}
}

func TestLoadOrDefault_MissingFileUsesDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"), cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if diff := cmp.Diff(NewDefaultConfig().Backend, cfg.Backend); diff != "" {
		t.Fatalf("backend mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "port", mutate: func(c *Config) { c.App.HTTP.Port = 70000 }, want: "app: Port"},
		{name: "backend url", mutate: func(c *Config) { c.Backend.BaseURL = "" }, want: "backend: BaseURL"},
		{name: "language", mutate: func(c *Config) { c.Admin.Language = "english" }, want: "admin: Language"},
		{name: "platform", mutate: func(c *Config) { c.Admin.Platform = "windows" }, want: "admin: Platform"},
		{name: "variant", mutate: func(c *Config) { c.Theme.Variant = "dark" }, want: `variant "dark" is not declared`},
		{name: "watch without dir", mutate: func(c *Config) { c.Templates.Watch = true }, want: "templates: Dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestThemeConfig_Manifest(t *testing.T) {
	cfg := ThemeConfig{
		Name:       "acme",
		Stylesheet: "/static/acme.css",
		Tokens:     map[string]string{"accent": "#123456"},
		Variants:   map[string]map[string]string{"dark": {"accent": "#654321"}},
	}
	manifest := cfg.Manifest()
	if manifest.Name != "acme" || manifest.Assets.Files["stylesheet"] != "/static/acme.css" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if diff := cmp.Diff(map[string]string{"accent": "#654321"}, manifest.Variants["dark"].Tokens); diff != "" {
		t.Fatalf("variant tokens mismatch (-want +got):\n%s", diff)
	}
}
