// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/huh"
)

// ConfirmOptions configures the Confirm component.
type ConfirmOptions struct {
	// Title is the question to display.
	Title string
	// Description provides additional context below the title.
	Description string
	// Affirmative is the text for the affirmative option (default: "Yes").
	Affirmative string
	// Negative is the text for the negative option (default: "No").
	Negative string
	// Default is the preselected answer.
	Default bool
	// Config holds common prompt configuration.
	Config Config
}

// Confirm prompts the user with a yes/no question.
// Returns the answer or ErrCancelled if the prompt was aborted.
func Confirm(opts ConfirmOptions) (bool, error) {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}

	result := opts.Default

	confirm := huh.NewConfirm().
		Title(opts.Title).
		Description(opts.Description).
		Affirmative(opts.Affirmative).
		Negative(opts.Negative).
		Value(&result)

	if err := runForm(confirm, opts.Config); err != nil {
		return false, err
	}
	return result, nil
}
