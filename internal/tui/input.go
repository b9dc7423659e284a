// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/huh"
)

// InputOptions configures the Input component.
type InputOptions struct {
	// Title is the title/prompt displayed above the input.
	Title string
	// Description provides additional context below the title.
	Description string
	// Placeholder is the placeholder text shown when input is empty.
	Placeholder string
	// Value is the initial value of the input.
	Value string
	// CharLimit limits the number of characters (0 for no limit).
	CharLimit int
	// Validate, if non-nil, rejects input until it returns nil.
	Validate func(string) error
	// Config holds common prompt configuration.
	Config Config
}

// Input prompts the user for a line of text.
// Returns the entered value or ErrCancelled if the prompt was aborted.
func Input(opts InputOptions) (string, error) {
	result := opts.Value

	input := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&result)

	if opts.CharLimit > 0 {
		input = input.CharLimit(opts.CharLimit)
	}
	if opts.Validate != nil {
		input = input.Validate(opts.Validate)
	}

	if err := runForm(input, opts.Config); err != nil {
		return "", err
	}
	return result, nil
}
