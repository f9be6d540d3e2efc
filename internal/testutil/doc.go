// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail the test on error
// instead of returning it, plus builders for application fixtures: exploded
// Spring Boot layouts, Play dist layouts, jar archives with manifests.
package testutil
