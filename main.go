// SPDX-License-Identifier: MPL-2.0

// stencil is a starter template for command-line applications: Cobra command
// dispatch, interactive prompts, colored logging, and a file-based named
// configuration store.
package main

import (
	cmd "stencil-cli/cmd/stencil"
)

func main() {
	cmd.Execute()
}
