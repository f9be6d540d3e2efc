// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the jbp command line.
//
// Every command takes an application directory, selects the packaging
// convention that applies to it and reports on or augments it. Failures are
// mapped to entries of the issue catalog so the user sees how to fix them.
package cmd
