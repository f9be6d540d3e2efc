// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Attr is a single manifest attribute for fixture manifests.
type Attr struct {
	Name  string
	Value string
}

// ManifestText renders attributes as MANIFEST.MF text, Manifest-Version first.
func ManifestText(attrs ...Attr) string {
	var sb strings.Builder
	sb.WriteString("Manifest-Version: 1.0\r\n")
	for _, a := range attrs {
		sb.WriteString(a.Name)
		sb.WriteString(": ")
		sb.WriteString(a.Value)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	return sb.String()
}

// WriteManifest writes META-INF/MANIFEST.MF under root.
func WriteManifest(t testing.TB, root string, attrs ...Attr) {
	t.Helper()
	MustWriteFile(t, filepath.Join(root, "META-INF", "MANIFEST.MF"), ManifestText(attrs...))
}

// WriteJar writes a zip archive at path holding the given entries
// (slash-separated names to content).
func WriteJar(t testing.TB, path string, entries map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to %s: %v", name, path, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s to %s: %v", name, path, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
}

// WriteManifestJar writes a jar whose only entry is a manifest with attrs.
func WriteManifestJar(t testing.TB, path string, attrs ...Attr) {
	t.Helper()
	WriteJar(t, path, map[string]string{"META-INF/MANIFEST.MF": ManifestText(attrs...)})
}

// Touch creates an empty file, creating parent directories.
func Touch(t testing.TB, path string) {
	t.Helper()
	MustWriteFile(t, path, "")
}

// PlayPre22Dist builds a Play 2.0/2.1 dist under appRoot: a single
// directory holding a start script and lib/<playJar>. It returns the dist
// directory.
func PlayPre22Dist(t testing.TB, appRoot, playJar, startScript string) string {
	t.Helper()
	root := filepath.Join(appRoot, "application-root")
	MustWriteExecutable(t, filepath.Join(root, "start"), startScript)
	Touch(t, filepath.Join(root, "lib", playJar))
	return root
}

// PlayPost22Dist builds a Play 2.2+ dist under appRoot: a single directory
// with bin/<name>, bin/<name>.bat and lib/<playJar>. It returns the script
// path.
func PlayPost22Dist(t testing.TB, appRoot, name, playJar, script string) string {
	t.Helper()
	root := filepath.Join(appRoot, "application-root")
	path := filepath.Join(root, "bin", name)
	MustWriteExecutable(t, path, script)
	MustWriteFile(t, filepath.Join(root, "bin", name+".bat"), "@REM windows launcher\r\n")
	Touch(t, filepath.Join(root, "lib", playJar))
	return path
}
