package tui

import (
	"io"

	"github.com/goliatone/go-recordedit/pkg/editpage"
)

// Theme holds the prefixes printed in front of session messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

func defaultTheme() Theme {
	return Theme{InfoPrefix: "» ", ErrorPrefix: "✗ "}
}

// Option configures the renderer and sessions.
type Option func(*settings)

type settings struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	color       *bool
	pageOptions []editpage.Option
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where summaries and messages are written.
func WithOutput(out io.Writer) Option {
	return func(s *settings) {
		if out != nil {
			s.out = out
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		s.theme = theme
	}
}

// WithColor forces colored output on or off. Without it the terminal
// detection of fatih/color applies.
func WithColor(enabled bool) Option {
	return func(s *settings) {
		s.color = &enabled
	}
}

// WithPageOptions passes options to the edit page a session creates.
func WithPageOptions(options ...editpage.Option) Option {
	return func(s *settings) {
		s.pageOptions = append(s.pageOptions, options...)
	}
}
