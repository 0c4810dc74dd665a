package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modu-ai/webproj/internal/config"
	"github.com/modu-ai/webproj/internal/logging"
	"github.com/modu-ai/webproj/internal/template"
	"github.com/modu-ai/webproj/internal/tooling"
	"github.com/modu-ai/webproj/internal/ui"
)

type fakeChecker struct {
	missing map[string]bool
	calls   int
}

func (c *fakeChecker) Check(_ context.Context, reqs []tooling.Requirement) []tooling.Status {
	c.calls++
	out := make([]tooling.Status, 0, len(reqs))
	for _, r := range reqs {
		st := tooling.Status{Requirement: r}
		if c.missing[r.Name] {
			st.Err = tooling.ErrToolMissing
		} else {
			st.Binary = r.Name
			st.Path = "/usr/bin/" + r.Name
			st.Version = "1.0.0"
		}
		out = append(out, st)
	}
	return out
}

type fakeProber struct{ online bool }

func (p fakeProber) Reachable(context.Context) bool { return p.online }

type fakeVCS struct {
	dirs    []string
	authors []string
	err     error
}

func (v *fakeVCS) Init(_ context.Context, dir, author string) error {
	v.dirs = append(v.dirs, dir)
	v.authors = append(v.authors, author)
	return v.err
}

type fakeInstaller struct {
	installed []string
	env       []string
}

func (i *fakeInstaller) Install(_ context.Context, names []string) error {
	i.installed = append(i.installed, names...)
	return nil
}

type fakeEditor struct{ paths []string }

func (e *fakeEditor) Open(_ context.Context, path string, _ []string) error {
	e.paths = append(e.paths, path)
	return nil
}

// testDeps bundles the fakes behind a Dependencies.
type testDeps struct {
	*Dependencies
	checker   *fakeChecker
	vcs       *fakeVCS
	installer *fakeInstaller
	editor    *fakeEditor
	out       *bytes.Buffer
}

// newTestDeps returns headless, colorless dependencies with no remote
// templates and every tool present.
func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Templates.RemoteURL = ""
	cfg.UI.NoColor = true

	out := &bytes.Buffer{}
	theme := ui.NewTheme(ui.ThemeConfig{NoColor: true})
	headless := ui.NewHeadlessManager()
	headless.ForceHeadless(true)

	td := &testDeps{
		checker:   &fakeChecker{missing: map[string]bool{}},
		vcs:       &fakeVCS{},
		installer: &fakeInstaller{},
		editor:    &fakeEditor{},
		out:       out,
	}
	td.Dependencies = &Dependencies{
		Config:   cfg,
		Logger:   logging.Discard(),
		Theme:    theme,
		Headless: headless,
		Progress: ui.NewProgress(theme, headless, out),
		Static:   template.NewStaticProvider(nil),
		Prober:   fakeProber{online: true},
		Checker:  td.checker,
		Editor:   td.editor,
		VCS:      td.vcs,
	}
	td.NewInstaller = func(env []string) (tooling.PackageInstaller, error) {
		td.installer.env = env
		return td.installer, nil
	}
	return td
}

func strPtr(s string) *string { return &s }

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

var errBoom = errors.New("boom")
