package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/modu-ai/webproj/internal/template"
)

// --- Mock implementations for testing ---

type fakeProber struct {
	reachable bool
	calls     int
}

func (p *fakeProber) Reachable(context.Context) bool {
	p.calls++
	return p.reachable
}

type fakeRemote struct {
	content map[template.Kind]string
	err     error
	calls   []template.Kind
}

func (r *fakeRemote) Fetch(_ context.Context, kind template.Kind, _ *template.TemplateContext) ([]byte, error) {
	r.calls = append(r.calls, kind)
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.content[kind]
	if !ok {
		return nil, template.ErrUnavailable
	}
	return []byte(c), nil
}

type recordingReporter struct {
	started  []string
	progress []string
	errs     []error
}

func (r *recordingReporter) StepStart(name, _ string) { r.started = append(r.started, name) }
func (r *recordingReporter) StepComplete(string)      {}
func (r *recordingReporter) StepError(err error)      { r.errs = append(r.errs, err) }

func (r *recordingReporter) StepProgress(done, total int) {
	r.progress = append(r.progress, fmt.Sprintf("%s %d/%d", r.started[len(r.started)-1], done, total))
}

// snapshot returns every path under root mapped to its content ("" for dirs).
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return out
}

func newTestMaterializer(opts ...MaterializerOption) *Materializer {
	return NewMaterializer(template.NewStaticProvider(nil), opts...)
}

func TestMaterialize_CreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Demo")
	spec := testResolve(RawInput{Name: "Demo", Port: "8080"})

	result, err := newTestMaterializer().Materialize(context.Background(), spec, root)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	for _, dir := range DirectoryPlan {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing", dir)
		}
	}
	for _, a := range Artifacts {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(a.Path)))
		if err != nil {
			t.Errorf("artifact %s missing: %v", a.Path, err)
			continue
		}
		if len(bytes.TrimSpace(data)) == 0 {
			t.Errorf("artifact %s is empty", a.Path)
		}
	}

	if len(result.CreatedDirs) != len(DirectoryPlan) {
		t.Errorf("CreatedDirs = %d, want %d", len(result.CreatedDirs), len(DirectoryPlan))
	}
	if len(result.CreatedFiles) != len(Artifacts) {
		t.Errorf("CreatedFiles = %d, want %d", len(result.CreatedFiles), len(Artifacts))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	cfg, _ := os.ReadFile(ConfigPath(root))
	if !strings.Contains(string(cfg), `PORT="8080"`) {
		t.Errorf("project.config missing port:\n%s", cfg)
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	root := t.TempDir()
	spec := testResolve(RawInput{Name: "Demo"})
	m := newTestMaterializer()

	if _, err := m.Materialize(context.Background(), spec, root); err != nil {
		t.Fatalf("first Materialize() error = %v", err)
	}
	first := snapshot(t, root)

	if _, err := m.Materialize(context.Background(), spec, root); err != nil {
		t.Fatalf("second Materialize() error = %v", err)
	}
	second := snapshot(t, root)

	if len(first) != len(second) {
		t.Fatalf("listing changed: %d vs %d entries", len(first), len(second))
	}
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if first[k] != second[k] {
			t.Errorf("content of %s changed", k)
		}
	}
}

func TestMaterialize_OverwritesExistingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Html/index.html", []byte("stale"))

	spec := testResolve(RawInput{Name: "Demo"})
	if _, err := newTestMaterializer().Materialize(context.Background(), spec, root); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "Html", "index.html"))
	if string(data) == "stale" {
		t.Error("existing index.html was not overwritten")
	}
}

func TestMaterialize_NetworkUnreachableKeepsStatic(t *testing.T) {
	root := t.TempDir()
	remote := &fakeRemote{content: map[template.Kind]string{template.KindHTML: "<html>remote</html>"}}
	prober := &fakeProber{reachable: false}

	result, err := newTestMaterializer(WithRemote(remote), WithProber(prober)).
		Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "Html", "index.html"))
	if !strings.Contains(string(data), template.StaticMarker) {
		t.Error("index.html should contain the static marker")
	}
	if strings.Contains(string(data), "remote") {
		t.Error("index.html contains remote content")
	}
	if len(remote.calls) != 0 {
		t.Errorf("remote fetched while offline: %v", remote.calls)
	}
	if prober.calls != 1 {
		t.Errorf("prober calls = %d, want 1", prober.calls)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected an offline warning")
	}
}

func TestMaterialize_RemoteOverride(t *testing.T) {
	root := t.TempDir()
	remote := &fakeRemote{content: map[template.Kind]string{
		template.KindHTML: "<html>remote</html>",
		template.KindCSS:  "body{}",
	}}

	result, err := newTestMaterializer(WithRemote(remote), WithProber(&fakeProber{reachable: true})).
		Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	html, _ := os.ReadFile(filepath.Join(root, "Html", "index.html"))
	if string(html) != "<html>remote</html>" {
		t.Errorf("index.html = %q", html)
	}
	js, _ := os.ReadFile(filepath.Join(root, "JavaScript", "script.js"))
	if !strings.Contains(string(js), "greet") {
		t.Error("script.js should keep static content when remote is unavailable")
	}

	if len(result.RemoteOverrides) != 2 {
		t.Errorf("RemoteOverrides = %v", result.RemoteOverrides)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one for script.js", result.Warnings)
	}
}

func TestMaterialize_RemoteErrorsAreNotFatal(t *testing.T) {
	root := t.TempDir()
	remote := &fakeRemote{err: errors.New("connection reset")}

	result, err := newTestMaterializer(WithRemote(remote), WithProber(&fakeProber{reachable: true})).
		Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(result.Warnings) != len(template.FrontEndKinds()) {
		t.Errorf("Warnings = %v", result.Warnings)
	}
	data, _ := os.ReadFile(filepath.Join(root, "Html", "index.html"))
	if !strings.Contains(string(data), template.StaticMarker) {
		t.Error("static index.html should remain")
	}
}

func TestMaterialize_NoProberSkipsRemote(t *testing.T) {
	remote := &fakeRemote{content: map[template.Kind]string{template.KindHTML: "x"}}
	_, err := newTestMaterializer(WithRemote(remote)).
		Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), t.TempDir())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(remote.calls) != 0 {
		t.Errorf("remote called without prober: %v", remote.calls)
	}
}

func TestMaterialize_IOFailure(t *testing.T) {
	parent := t.TempDir()
	// A regular file where the project root should be makes every mkdir fail.
	root := filepath.Join(parent, "Demo")
	if err := os.WriteFile(root, []byte("in the way"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	reporter := &recordingReporter{}
	_, err := newTestMaterializer(WithReporter(reporter)).
		Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrMaterialize) {
		t.Errorf("expected ErrMaterialize, got %v", err)
	}
	var me *MaterializeError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MaterializeError, got %T", err)
	}
	if me.Op != "mkdir" || !strings.Contains(me.Path, "Demo") {
		t.Errorf("MaterializeError = %+v", me)
	}
	if !IsMaterializeError(err) {
		t.Error("IsMaterializeError() = false")
	}
	if len(reporter.errs) != 1 {
		t.Errorf("reporter errors = %v", reporter.errs)
	}
}

func TestMaterialize_WriteFailureNamesPath(t *testing.T) {
	root := t.TempDir()
	// A directory where a file should go makes the write fail.
	if err := os.MkdirAll(filepath.Join(root, "README.md"), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}

	_, err := newTestMaterializer().Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	var me *MaterializeError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MaterializeError, got %v", err)
	}
	if me.Op != "write" || !strings.HasSuffix(me.Path, "README.md") {
		t.Errorf("MaterializeError = %+v", me)
	}
}

func TestMaterialize_PlanEscapingRootCreatesNothing(t *testing.T) {
	saved := Artifacts
	t.Cleanup(func() { Artifacts = saved })
	Artifacts = append(append([]FileArtifact{}, saved...),
		FileArtifact{Path: "../outside.txt", Kind: template.KindReadme})

	parent := t.TempDir()
	root := filepath.Join(parent, "Demo")
	_, err := newTestMaterializer().Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), root)
	if !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("expected ErrPathTraversal, got %v", err)
	}
	var me *MaterializeError
	if !errors.As(err, &me) || me.Op != "plan" || me.Path != "../outside.txt" {
		t.Errorf("MaterializeError = %+v", me)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("root was created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "outside.txt")); !os.IsNotExist(err) {
		t.Errorf("file written outside root: %v", err)
	}
}

func TestMaterialize_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMaterializer().Materialize(ctx, testResolve(RawInput{Name: "Demo"}), t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMaterialize_ReporterSteps(t *testing.T) {
	reporter := &recordingReporter{}
	_, err := newTestMaterializer(
		WithReporter(reporter),
		WithRemote(&fakeRemote{}),
		WithProber(&fakeProber{reachable: true}),
	).Materialize(context.Background(), testResolve(RawInput{Name: "Demo"}), t.TempDir())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	want := []string{"directories", "files", "remote"}
	if strings.Join(reporter.started, ",") != strings.Join(want, ",") {
		t.Errorf("steps = %v, want %v", reporter.started, want)
	}

	if len(reporter.progress) != len(Artifacts) {
		t.Fatalf("progress events = %v, want one per artifact", reporter.progress)
	}
	for i, got := range reporter.progress {
		if want := fmt.Sprintf("files %d/%d", i+1, len(Artifacts)); got != want {
			t.Errorf("progress[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestMaterialize_FreeTextIsVerbatim(t *testing.T) {
	root := t.TempDir()
	name := "Bob's `Site` ${x}"
	spec := testResolve(RawInput{Name: name, Description: "Use {{.X}} syntax", Author: "{{.Author}}"})
	if len(spec.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", spec.Warnings())
	}

	if _, err := newTestMaterializer().Materialize(context.Background(), spec, root); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	read := func(rel string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	if html := read("Html/index.html"); !strings.Contains(html, "Use {{.X}} syntax") {
		t.Errorf("index.html lost the description:\n%s", html)
	}
	if readme := read("README.md"); !strings.Contains(readme, "{{.Author}}") {
		t.Errorf("README.md lost the author:\n%s", readme)
	}

	literal := "\"Bob's `Site` ${x}\""
	for _, rel := range []string{"Tests/test.js", "Server/index.js", "JavaScript/script.js"} {
		src := read(rel)
		if !strings.Contains(src, literal) {
			t.Errorf("%s does not quote the name as %s:\n%s", rel, literal, src)
		}
		if strings.Contains(src, "'"+name) || strings.Contains(src, "`"+name) {
			t.Errorf("%s embeds the name in a single-quoted or template literal", rel)
		}
	}

	loaded, err := LoadSession(root)
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if loaded.Spec.Name() != name || loaded.Spec.Description() != "Use {{.X}} syntax" {
		t.Errorf("reloaded name %q description %q", loaded.Spec.Name(), loaded.Spec.Description())
	}
}
