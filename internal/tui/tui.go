// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompt components used by the CLI.
// It wraps charmbracelet/huh so commands ask for input, confirmation, and
// selection through one consistent surface.
package tui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a prompt (ctrl-c or esc).
var ErrCancelled = errors.New("prompt cancelled")

// Theme represents the visual theme for prompt components.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// Config holds common configuration for prompt components.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables plain-text accessible mode for screen readers and
	// non-TTY input.
	Accessible bool
}

// DefaultConfig returns the default prompt configuration. Accessible mode
// is enabled automatically when stdin is not a terminal (pipes, command
// substitution) or when the ACCESSIBLE environment variable is set.
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""
	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// runForm runs a single-field huh form with the shared config, translating
// user aborts into ErrCancelled.
func runForm(field huh.Field, cfg Config) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(getHuhTheme(cfg.Theme)).
		WithAccessible(cfg.Accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
