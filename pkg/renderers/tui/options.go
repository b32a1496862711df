package tui

import (
	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Theme captures optional formatting hints the filler applies when printing
// messages. Keep minimal to avoid coupling fill logic to ANSI specifics.
type Theme struct {
	StepPrefix  string
	ErrorPrefix string
	RequiredTag string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	StepPrefix:  "==",
	ErrorPrefix: "!",
	RequiredTag: "*",
}

// Option configures the Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver used by the filler.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithWidgets overrides the registry that picks a prompt per field.
func WithWidgets(registry *widgets.Registry) Option {
	return func(f *Filler) {
		if registry != nil {
			f.widgets = registry
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithLogger sets the filler logger.
func WithLogger(logger logging.Logger) Option {
	return func(f *Filler) {
		f.logger = logging.OrNop(logger)
	}
}

// WithMaxAttempts bounds how many times a blocked step is re-prompted before
// Fill gives up. Zero means no bound.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxAttempts = n
		}
	}
}
