// SPDX-License-Identifier: MPL-2.0

package config

import "os"

// ConfigDirEnv relocates the config directory, e.g. to the buildpack's own
// resources inside a staging container where no user home exists.
const ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"

// configDirOverride pins ConfigDir in tests.
var configDirOverride string

// overriddenConfigDir returns the pinned directory, then $JBP_CONFIG_DIR.
func overriddenConfigDir() (string, bool) {
	if configDirOverride != "" {
		return configDirOverride, true
	}
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, true
	}
	return "", false
}

// SetConfigDirOverride pins ConfigDir to dir and returns a function that
// restores the previous value. Pass it to t.Cleanup.
func SetConfigDirOverride(dir string) (restore func()) {
	prev := configDirOverride
	configDirOverride = dir
	return func() { configDirOverride = prev }
}
