// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for stencil.
//
// Commands are thin front-ends: they gather input (arguments, flags, or
// interactive prompts), delegate to the App's services, and render status
// output. Business rules live in internal/store and friends.
package cmd
