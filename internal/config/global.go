// SPDX-License-Identifier: MPL-2.0

package config

// appDirOverride allows tests to override the app directory.
// os.UserHomeDir() doesn't reliably respect the HOME environment variable on
// all platforms (e.g., macOS in CI), so tests set an explicit directory.
var appDirOverride string

// SetAppDirOverride sets a custom app directory path, primarily for tests.
func SetAppDirOverride(dir string) {
	appDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	appDirOverride = ""
}
