// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes operating system names and the small
// differences jbp has to account for between them.
package platform
