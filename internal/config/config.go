// SPDX-License-Identifier: MPL-2.0

// Package config handles application settings using Viper and resolves the
// stencil data directories under the user's home.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stencil-cli/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name; it also names the data directory
	// (~/.stencil) and the settings file prefix.
	AppName = "stencil"

	// SettingsFileName is the settings file under the app directory.
	SettingsFileName = "config.toml"

	// storeDirName is the subdirectory holding configuration records.
	storeDirName = "configs"
)

const (
	// ColorSchemeAuto enables color when stderr/stdout is a terminal.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeAlways forces colored output.
	ColorSchemeAlways ColorScheme = "always"
	// ColorSchemeNever disables colored output.
	ColorSchemeNever ColorScheme = "never"
)

// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme specifies the terminal color preference.
	ColorScheme string

	// UISettings holds terminal output preferences.
	UISettings struct {
		Verbose     bool        `mapstructure:"verbose" toml:"verbose"`
		ColorScheme ColorScheme `mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// Settings is the persisted application configuration. It is distinct
	// from the record store: Settings tunes the CLI itself, the store holds
	// the user's named configuration records.
	Settings struct {
		UI UISettings `mapstructure:"ui" toml:"ui"`
	}
)

// Validate checks the color scheme value.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeAlways, ColorSchemeNever:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected auto, always, or never)", ErrInvalidColorScheme, string(c))
	}
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		UI: UISettings{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// AppDir returns the stencil data directory, ~/.stencil on all platforms.
func AppDir() (string, error) {
	if appDirOverride != "" {
		return appDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// StoreDir returns the configuration record directory, ~/.stencil/configs.
func StoreDir() (string, error) {
	appDir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, storeDirName), nil
}

// SettingsPath returns the settings file path, ~/.stencil/config.toml.
func SettingsPath() (string, error) {
	appDir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, SettingsFileName), nil
}

// Load reads the settings file, falling back to defaults when it does not
// exist. A malformed or invalid file is an error; the CLI surfaces it as a
// warning and continues with defaults.
func Load() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return DefaultSettings(), err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	defaults := DefaultSettings()
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return defaults, nil
		}
		return DefaultSettings(), issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(path).
			WithSuggestion("Check the TOML syntax in the file").
			WithSuggestion("Delete the file to fall back to defaults").
			Wrap(err).
			BuildError()
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return DefaultSettings(), issue.NewErrorContext().
			WithOperation("parse settings").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	if err := settings.UI.ColorScheme.Validate(); err != nil {
		return DefaultSettings(), issue.NewErrorContext().
			WithOperation("validate settings").
			WithResource(path).
			WithSuggestion("Set ui.color_scheme to auto, always, or never").
			Wrap(err).
			BuildError()
	}

	return &settings, nil
}

// EnsureDefaultFile writes a default settings file if none exists, creating
// the app directory as needed. Returns the settings path.
func EnsureDefaultFile() (string, error) {
	path, err := SettingsPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", issue.WrapWithOperation(err, "stat settings file")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", issue.WrapWithOperation(err, "create app directory")
	}

	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return "", issue.WrapWithOperation(err, "encode default settings")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write default settings").
			WithResource(path).
			WithSuggestion("Check that the home directory is writable").
			Wrap(err).
			BuildError()
	}
	return path, nil
}
