// SPDX-License-Identifier: MPL-2.0

// Package config handles jbp configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the jbp configuration directory
// ($XDG_CONFIG_HOME/jbp on Linux, ~/Library/Application Support/jbp on macOS,
// %APPDATA%\jbp on Windows), falling back to ./config.cue. Files are validated
// against the embedded config_schema.cue. Every key can be overridden with a
// JBP_ environment variable (JBP_THIN_ROOT, JBP_UI_VERBOSE, ...).
package config
