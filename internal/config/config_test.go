// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dropletkit/jbp/internal/issue"
	"github.com/dropletkit/jbp/internal/packaging"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(t.Context(), opts)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ThinRoot != DefaultThinRoot {
		t.Errorf("ThinRoot = %q, want %q", cfg.ThinRoot, DefaultThinRoot)
	}
	if cfg.JavaHome != "" {
		t.Errorf("JavaHome = %q, want empty", cfg.JavaHome)
	}
	if len(cfg.AdditionalLibraries) != 0 || len(cfg.DisabledConventions) != 0 {
		t.Errorf("lists = %v / %v, want empty", cfg.AdditionalLibraries, cfg.DisabledConventions)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `
java_home: "/opt/jdk"
additional_libraries: ["/buildpack/agent.jar"]
disabled_conventions: ["play-dist-2.0", "spring-boot-thin"]
ui: color_scheme: "dark"
`)

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JavaHome != "/opt/jdk" {
		t.Errorf("JavaHome = %q", cfg.JavaHome)
	}
	if cfg.ThinRoot != DefaultThinRoot {
		t.Errorf("ThinRoot = %q, default should survive a partial file", cfg.ThinRoot)
	}
	if !slices.Equal(cfg.AdditionalLibraries, []string{"/buildpack/agent.jar"}) {
		t.Errorf("AdditionalLibraries = %v", cfg.AdditionalLibraries)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}

	kinds, err := cfg.Conventions()
	if err != nil {
		t.Fatalf("Conventions() error = %v", err)
	}
	want := []packaging.Kind{packaging.KindPlayDist20, packaging.KindSpringBootThin}
	if !slices.Equal(kinds, want) {
		t.Errorf("Conventions() = %v, want %v", kinds, want)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `thin_root: "/var/cache/thin"`)

	cfg, err := load(t, LoadOptions{ConfigFilePath: path, ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThinRoot != "/var/cache/thin" {
		t.Errorf("ThinRoot = %q", cfg.ThinRoot)
	}

	got, err := FilePath(LoadOptions{ConfigFilePath: path})
	if err != nil || got != path {
		t.Errorf("FilePath() = %q, %v; want %q", got, err, path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be actionable, got %T", err)
	}
	if ae.IssueId != issue.ConfigLoadFailedId {
		t.Errorf("IssueId = %v, want ConfigLoadFailedId", ae.IssueId)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown convention", content: `disabled_conventions: ["play-dist-1.0"]`},
		{name: "unknown field", content: `java_path: "/opt/jdk"`},
		{name: "wrong type", content: `ui: verbose: "yes"`},
		{name: "empty library", content: `additional_libraries: [""]`},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`},
		{name: "syntax error", content: `java_home: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeConfig(t, dir, tt.content)

			_, err := load(t, LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q should name the file", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `thin_root: "from-file"`)

	t.Setenv("JBP_THIN_ROOT", "from-env")
	t.Setenv("JBP_JAVA_HOME", "/env/jdk")
	t.Setenv("JBP_UI_VERBOSE", "true")
	t.Setenv("JBP_DISABLED_CONVENTIONS", "play-dist-2.1")

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ThinRoot != "from-env" {
		t.Errorf("ThinRoot = %q, environment should win over the file", cfg.ThinRoot)
	}
	if cfg.JavaHome != "/env/jdk" {
		t.Errorf("JavaHome = %q", cfg.JavaHome)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose should be set from JBP_UI_VERBOSE")
	}
	if !slices.Equal(cfg.DisabledConventions, []string{"play-dist-2.1"}) {
		t.Errorf("DisabledConventions = %v", cfg.DisabledConventions)
	}
}

func TestLoad_InvalidEnvironmentConvention(t *testing.T) {
	t.Setenv("JBP_DISABLED_CONVENTIONS", "grails")

	_, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, packaging.ErrUnknownKind) {
		t.Errorf("error should wrap ErrUnknownKind: %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	original := &Config{
		JavaHome:            "/opt/jdk",
		ThinRoot:            "cache/thin",
		AdditionalLibraries: []string{"/a.jar", "/b.jar"},
		DisabledConventions: []string{"spring-boot-staged"},
		UI:                  UIConfig{ColorScheme: ColorSchemeLight, Verbose: true},
	}

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(original))

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config did not load: %v", err)
	}
	if cfg.JavaHome != original.JavaHome || cfg.ThinRoot != original.ThinRoot {
		t.Errorf("scalars = %q/%q", cfg.JavaHome, cfg.ThinRoot)
	}
	if !slices.Equal(cfg.AdditionalLibraries, original.AdditionalLibraries) {
		t.Errorf("AdditionalLibraries = %v", cfg.AdditionalLibraries)
	}
	if !slices.Equal(cfg.DisabledConventions, original.DisabledConventions) {
		t.Errorf("DisabledConventions = %v", cfg.DisabledConventions)
	}
	if cfg.UI != original.UI {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path, err := CreateDefaultConfig(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	if err := os.WriteFile(path, []byte(`java_home: "/kept"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(LoadOptions{ConfigDirPath: dir}); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `java_home: "/kept"` {
		t.Error("existing config should not be overwritten")
	}
}

func TestConfigDir_Override(t *testing.T) {
	t.Setenv(ConfigDirEnv, "/buildpack/config")

	got, err := ConfigDir()
	if err != nil || got != "/buildpack/config" {
		t.Errorf("ConfigDir() with %s = %q, %v", ConfigDirEnv, got, err)
	}

	restore := SetConfigDirOverride("/custom/jbp")
	got, err = ConfigDir()
	if err != nil || got != "/custom/jbp" {
		t.Errorf("ConfigDir() with override = %q, %v", got, err)
	}

	restore()
	if got, _ := ConfigDir(); got != "/buildpack/config" {
		t.Errorf("ConfigDir() after restore = %q, want the environment value", got)
	}
}

func TestColorSchemeValidate(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if err := cs.Validate(); err != nil {
			t.Errorf("%q.Validate() = %v", cs, err)
		}
	}
	if err := ColorScheme("neon").Validate(); !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("Validate() = %v, want ErrInvalidColorScheme", err)
	}
}
