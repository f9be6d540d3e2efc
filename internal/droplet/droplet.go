// SPDX-License-Identifier: MPL-2.0

// Package droplet models the staged copy of an application that packaging
// conventions operate on: its root directory, the shared Java home handle,
// and the additional libraries the buildpack contributes to the classpath.
package droplet

import (
	"path/filepath"

	"github.com/dropletkit/jbp/internal/javahome"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// DefaultThinRoot is where thin applications cache their dependencies,
// relative to the droplet root.
const DefaultThinRoot types.FilesystemPath = ".jbp/thin"

// Droplet is the application being assembled.
//
// JavaHome is shared by pointer with every component that needs runtime
// facts; it must never be copied.
type Droplet struct {
	Root      types.FilesystemPath
	JavaHome  *javahome.JavaHome
	Libraries *Libraries
	// ThinRoot is the thin dependency cache location. Relative values are
	// resolved against Root.
	ThinRoot types.FilesystemPath
}

// New creates a droplet with the default thin root. A nil libs is replaced
// by an empty collection.
func New(root types.FilesystemPath, home *javahome.JavaHome, libs *Libraries) *Droplet {
	if libs == nil {
		libs = NewLibraries()
	}
	return &Droplet{
		Root:      root,
		JavaHome:  home,
		Libraries: libs,
		ThinRoot:  DefaultThinRoot,
	}
}

// ThinCacheDir returns the absolute-or-root-relative thin cache directory.
func (d *Droplet) ThinCacheDir() types.FilesystemPath {
	thin := d.ThinRoot
	if thin == "" {
		thin = DefaultThinRoot
	}
	if filepath.IsAbs(string(thin)) {
		return thin
	}
	return fspath.Join(d.Root, thin)
}
