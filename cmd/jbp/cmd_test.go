// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dropletkit/jbp/internal/config"
	"github.com/dropletkit/jbp/internal/issue"
	"github.com/dropletkit/jbp/internal/manifest"
	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/internal/report"
	"github.com/dropletkit/jbp/internal/testutil"
	"github.com/dropletkit/jbp/pkg/types"
)

const (
	play20Script = "#!/usr/bin/env sh\nexec java $* -cp \"`dirname $0`/lib/*\" play.core.server.NettyServer `dirname $0`\n"

	play21Script = "#!/usr/bin/env sh\n\nscriptdir=`dirname $0`\n" +
		"classpath=\"$scriptdir/lib/play_2.10-2.1.4.jar\"\n" +
		"exec java $* -cp $classpath play.core.server.NettyServer `dirname $0`\n"
)

// staticConfig is a ConfigProvider returning a fixed result.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the command tree with args against cfg.
func run(t *testing.T, cfg *config.Config, args ...string) runResult {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return runWith(t, Dependencies{Config: staticConfig{cfg: cfg}}, args...)
}

func runWith(t *testing.T, deps Dependencies, args ...string) runResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := newRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(t.Context())

	return runResult{stdout: stripANSI(stdout.String()), stderr: stripANSI(stderr.String()), err: err}
}

func TestDetect_PlayDist20(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	root := testutil.PlayPre22Dist(t, app, "play_2.9.1-2.0.4.jar", play20Script)

	res := run(t, nil, "detect", app)
	if res.err != nil {
		t.Fatalf("detect failed: %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		"Convention: play-dist-2.0",
		"Version: 2.0.4",
		"Library directory: " + filepath.Join(root, "lib"),
		"Thin: false",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(app, ".jbp", "packaging.toml")); err == nil {
		t.Error("detect without --report must not write a report")
	}
}

func TestDetect_WritesReport(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	testutil.PlayPre22Dist(t, app, "play_2.10-2.1.4.jar", play21Script)

	res := run(t, nil, "detect", "--report", app)
	if res.err != nil {
		t.Fatalf("detect failed: %v", res.err)
	}

	r, err := report.Read(report.PathFor(types.FilesystemPath(app)))
	if err != nil {
		t.Fatalf("report not readable: %v", err)
	}
	if r.Convention != string(packaging.KindPlayDist21) || r.Version != "2.1.4" {
		t.Errorf("report = %+v", r)
	}
}

func TestDetect_All(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	testutil.WriteManifest(t, app,
		testutil.Attr{Name: "Main-Class", Value: "org.springframework.boot.loader.wrapper.ThinJarWrapper"},
		testutil.Attr{Name: "Start-Class", Value: "com.example.App"},
		testutil.Attr{Name: "Spring-Boot-Version", Value: "3.2.1"},
	)

	res := run(t, nil, "detect", "--all", app)
	if res.err != nil {
		t.Fatalf("detect --all failed: %v", res.err)
	}
	lines := strings.Fields(res.stdout)
	if len(lines) < 2 || lines[0] != string(packaging.KindSpringBootThin) {
		t.Errorf("detect --all = %q, want thin first of several", lines)
	}
}

func TestDetect_NoConvention(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "detect", t.TempDir())

	if !errors.Is(res.err, packaging.ErrNoConvention) {
		t.Fatalf("err = %v, want ErrNoConvention", res.err)
	}
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("err = %#v, want ExitError with code 1", res.err)
	}
	if !strings.Contains(res.stderr, "No packaging convention matches") {
		t.Errorf("stderr should render the catalog entry:\n%s", res.stderr)
	}
}

func TestDetect_DisabledConvention(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	testutil.PlayPre22Dist(t, app, "play_2.9.1-2.0.4.jar", play20Script)

	cfg := config.DefaultConfig()
	cfg.DisabledConventions = []string{"play-dist-2.0"}

	if res := run(t, cfg, "detect", app); !errors.Is(res.err, packaging.ErrNoConvention) {
		t.Errorf("err = %v, want ErrNoConvention", res.err)
	}
}

func TestDetect_MissingApplication(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "detect", filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(res.err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", res.err)
	}
}

func TestLib(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	root := testutil.PlayPre22Dist(t, app, "play_2.9.1-2.0.4.jar", play20Script)

	res := run(t, nil, "lib", app)
	if res.err != nil {
		t.Fatalf("lib failed: %v", res.err)
	}
	if got := strings.TrimSpace(res.stdout); got != filepath.Join(root, "lib") {
		t.Errorf("lib = %q, want %q", got, filepath.Join(root, "lib"))
	}
}

func TestAugment_PlayDist21(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	root := testutil.PlayPre22Dist(t, app, "play_2.10-2.1.4.jar", play21Script)
	lib := filepath.Join(app, ".jbp", "agent", "agent-2.0.jar")
	testutil.MustWriteFile(t, lib, "jar")

	for range 2 {
		res := run(t, nil, "augment", "--lib", lib, app)
		if res.err != nil {
			t.Fatalf("augment failed: %v\n%s", res.err, res.stderr)
		}
		if !strings.Contains(res.stdout, "play-dist-2.1: 1 libraries added") {
			t.Errorf("stdout = %q", res.stdout)
		}
	}

	script := testutil.MustReadFile(t, filepath.Join(root, "start"))
	want := `classpath="$scriptdir/../.jbp/agent/agent-2.0.jar:$scriptdir/lib/play_2.10-2.1.4.jar"` + "\n"
	if !strings.Contains(script, want) {
		t.Errorf("start script =\n%s\nwant line %s", script, want)
	}

	r, err := report.Read(report.PathFor(types.FilesystemPath(app)))
	if err != nil {
		t.Fatalf("augment should write a report: %v", err)
	}
	if len(r.Libraries.Additional) != 1 || r.Libraries.Additional[0] != lib {
		t.Errorf("report libraries = %v", r.Libraries.Additional)
	}
}

func TestAugment_ConfiguredLibraries(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	root := testutil.PlayPre22Dist(t, app, "play_2.9.1-2.0.4.jar", play20Script)
	lib := filepath.Join(t.TempDir(), "agent.jar")
	testutil.MustWriteFile(t, lib, "jar")

	cfg := config.DefaultConfig()
	cfg.AdditionalLibraries = []string{lib}

	if res := run(t, cfg, "augment", "--report=false", app); res.err != nil {
		t.Fatalf("augment failed: %v", res.err)
	}
	if _, err := os.Lstat(filepath.Join(root, "lib", "agent.jar")); err != nil {
		t.Errorf("configured library not linked: %v", err)
	}
	if _, err := os.Stat(filepath.Join(app, ".jbp", "packaging.toml")); err == nil {
		t.Error("--report=false must not write a report")
	}
}

func TestAugment_UnexplodedFatJar(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	testutil.WriteJar(t, filepath.Join(app, "demo.jar"), map[string]string{
		"META-INF/MANIFEST.MF": testutil.ManifestText(
			testutil.Attr{Name: manifest.MainClass, Value: "org.springframework.boot.loader.JarLauncher"},
			testutil.Attr{Name: manifest.SpringBootLib, Value: "BOOT-INF/lib/"},
		),
	})
	agent := filepath.Join(t.TempDir(), "agent.jar")
	testutil.MustWriteFile(t, agent, "jar")

	res := run(t, nil, "augment", "--lib", agent, app)
	if !errors.Is(res.err, packaging.ErrUnexplodedArchive) {
		t.Fatalf("err = %v, want ErrUnexplodedArchive", res.err)
	}
	if !strings.Contains(res.stderr, "unexploded archive") {
		t.Errorf("stderr should render the catalog entry:\n%s", res.stderr)
	}
	if _, err := os.Stat(filepath.Join(app, "BOOT-INF")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("BOOT-INF created beside the archive: %v", err)
	}
}

func TestAugment_ForcedConvention(t *testing.T) {
	t.Parallel()

	app := t.TempDir()
	testutil.PlayPre22Dist(t, app, "play_2.9.1-2.0.4.jar", play20Script)

	res := run(t, nil, "augment", "--convention", "spring-boot-fat-jar", app)
	if !errors.Is(res.err, packaging.ErrNotApplicable) {
		t.Errorf("err = %v, want ErrNotApplicable", res.err)
	}

	res = run(t, nil, "augment", "--convention", "grails", app)
	if !errors.Is(res.err, packaging.ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", res.err)
	}
}

func TestJavaHome(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(home, "release"), "IMPLEMENTOR=\"Eclipse Adoptium\"\nJAVA_VERSION=\"17.0.2\"\n")

	res := run(t, nil, "java-home", home)
	if res.err != nil {
		t.Fatalf("java-home failed: %v", res.err)
	}
	for _, want := range []string{"Version: 17.0.2", "Java 9 or later: true", "Java 10 or later: true"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}

	res = run(t, nil, "java-home", "--java-version", "1.8.0_292", home)
	if res.err != nil {
		t.Fatalf("java-home --java-version failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Java 9 or later: false") {
		t.Errorf("explicit version should win over the release file:\n%s", res.stdout)
	}
}

func TestJavaHome_NotConfigured(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "java-home")
	if !errors.Is(res.err, packaging.ErrMissingJavaHome) {
		t.Errorf("err = %v, want ErrMissingJavaHome", res.err)
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.ThinRoot = "/cache/thin"

	res := run(t, cfg, "config", "dump")
	if res.err != nil {
		t.Fatalf("config dump failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, `thin_root: "/cache/thin"`) {
		t.Errorf("dump =\n%s", res.stdout)
	}
}

func TestExplicitConfigFailureIsFatal(t *testing.T) {
	t.Parallel()

	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("broken")).
		BuildError()
	deps := Dependencies{Config: staticConfig{err: loadErr}}

	res := runWith(t, deps, "--config", "/etc/jbp.cue", "config", "dump")
	if res.err == nil {
		t.Fatal("an explicit broken config should fail the command")
	}

	res = runWith(t, deps, "config", "dump")
	if res.err != nil {
		t.Fatalf("a broken default config should only warn: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Warning") {
		t.Errorf("stderr should carry a warning:\n%s", res.stderr)
	}
	if !strings.Contains(res.stdout, "thin_root") {
		t.Errorf("defaults should be used:\n%s", res.stdout)
	}
}
