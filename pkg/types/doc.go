// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across jbp:
// filesystem paths handed between packaging components and process exit
// codes reported by the thin dependency cache.
package types
