// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types for the stencil CLI.
//
// ActionableError carries the operation that failed, the resource involved,
// and suggestions for fixing the problem. The issue catalog renders longer
// markdown help pages for the handful of failures that deserve one.
package issue
