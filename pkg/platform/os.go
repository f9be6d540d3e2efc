// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ExecutableName returns name as an executable file name on goos. Windows
// launchers carry an .exe suffix.
func ExecutableName(goos, name string) string {
	if goos == Windows && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

// HostExecutableName is ExecutableName for the running platform.
func HostExecutableName(name string) string {
	return ExecutableName(runtime.GOOS, name)
}
