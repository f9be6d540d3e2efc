// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// The flow is always the same: compile the schema, compile the user data,
// unify it with a schema definition such as "#Config", validate, decode.
// Errors carry the file name and the CUE path of the offending field
// (e.g. "config.cue: ui.verbose: conflicting values ...").
package cueutil
