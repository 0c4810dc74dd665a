package console

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modu-ai/webproj/internal/core/project"
	"github.com/modu-ai/webproj/internal/template"
)

type fakeEditor struct {
	paths []string
	env   []string
	err   error
}

func (e *fakeEditor) Open(_ context.Context, path string, env []string) error {
	e.paths = append(e.paths, path)
	e.env = env
	return e.err
}

type fakeProber struct {
	reachable   bool
	hadDeadline bool
}

func (p *fakeProber) Reachable(ctx context.Context) bool {
	deadline, ok := ctx.Deadline()
	p.hadDeadline = ok && time.Until(deadline) <= ProbeTimeout
	return p.reachable
}

func newSession(t *testing.T) project.Session {
	t.Helper()
	created := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	spec := project.Resolve(project.RawInput{Name: "Demo", Author: "ada", Port: "8080"},
		project.WithClock(func() time.Time { return created }),
	)
	root := filepath.Join(t.TempDir(), "Demo")
	m := project.NewMaterializer(template.NewStaticProvider(nil))
	if _, err := m.Materialize(context.Background(), spec, root); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	return project.Session{Spec: spec, Root: root}
}

func staticFacts() []Fact {
	return []Fact{{Key: "Host", Value: "testhost"}, {Key: "OS", Value: "plan9/amd64"}}
}

func TestStep_EditActions(t *testing.T) {
	s := newSession(t)
	ed := &fakeEditor{}
	c := New(s, Deps{Editor: ed})

	for _, choice := range []string{"1", " 2 ", "3"} {
		state, err := c.Step(context.Background(), choice)
		if err != nil {
			t.Fatalf("Step(%q): %v", choice, err)
		}
		if state != StateIdle {
			t.Errorf("Step(%q) state = %v, want idle", choice, state)
		}
	}

	want := []string{
		filepath.Join(s.Root, "Html", "index.html"),
		filepath.Join(s.Root, "CSS", "styles.css"),
		filepath.Join(s.Root, "JavaScript", "script.js"),
	}
	if len(ed.paths) != len(want) {
		t.Fatalf("opened %v, want %v", ed.paths, want)
	}
	for i := range want {
		if ed.paths[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, ed.paths[i], want[i])
		}
	}
	env := strings.Join(ed.env, "\n")
	for _, kv := range []string{"PROJECT_NAME=Demo", "PROJECT_DIR=" + s.Root, "PROJECT_PORT=8080"} {
		if !strings.Contains(env, kv) {
			t.Errorf("editor env missing %q: %v", kv, ed.env)
		}
	}
}

func TestStep_EditorErrorKeepsIdle(t *testing.T) {
	c := New(newSession(t), Deps{Editor: &fakeEditor{err: errors.New("exit status 1")}})
	state, err := c.Step(context.Background(), "1")
	if err == nil || !strings.Contains(err.Error(), "exit status 1") {
		t.Fatalf("err = %v, want editor failure", err)
	}
	if state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

func TestStep_NoEditor(t *testing.T) {
	c := New(newSession(t), Deps{})
	if _, err := c.Step(context.Background(), "2"); err == nil {
		t.Error("expected error without an editor")
	}
}

func TestStep_ExitChoices(t *testing.T) {
	for _, choice := range []string{"0", "q", "Q", "exit", " EXIT "} {
		t.Run(choice, func(t *testing.T) {
			c := New(project.Session{}, Deps{})
			state, err := c.Step(context.Background(), choice)
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if state != StateExited || c.State() != StateExited {
				t.Errorf("state = %v, want exited", state)
			}
			state, _ = c.Step(context.Background(), "1")
			if state != StateExited {
				t.Error("exited console should stay exited")
			}
		})
	}
}

func TestStep_InvalidChoice(t *testing.T) {
	var out strings.Builder
	c := New(project.Session{}, Deps{}, WithOutput(&out))
	for _, choice := range []string{"", "9", "hello", "11"} {
		state, err := c.Step(context.Background(), choice)
		if err != nil {
			t.Fatalf("Step(%q): %v", choice, err)
		}
		if state != StateIdle {
			t.Errorf("Step(%q) state = %v, want idle", choice, state)
		}
	}
	if got := strings.Count(out.String(), "Invalid choice"); got != 4 {
		t.Errorf("Invalid choice printed %d times, want 4:\n%s", got, out.String())
	}
}

func TestStep_ViewTree(t *testing.T) {
	s := newSession(t)
	var out strings.Builder
	c := New(s, Deps{}, WithOutput(&out))
	if _, err := c.Step(context.Background(), "4"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	for _, want := range []string{"Html/\n  index.html", "Config/\n  project.config", "README.md"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tree output missing %q:\n%s", want, out.String())
		}
	}
}

func TestStep_ViewEnvironment(t *testing.T) {
	s := newSession(t)
	var out strings.Builder
	c := New(s, Deps{}, WithOutput(&out), WithHostFacts(staticFacts))
	if _, err := c.Step(context.Background(), "5"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	for _, want := range []string{"Demo", "A new web project", "ada", "8080", "2024-03-09T10:00:00Z", s.Root, "testhost", "plan9/amd64"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("environment output missing %q:\n%s", want, out.String())
		}
	}
}

func TestStep_SetPermissions(t *testing.T) {
	s := newSession(t)
	var out strings.Builder
	var gotRoot string
	perms := func(root string) (*project.PermissionReport, error) {
		gotRoot = root
		return &project.PermissionReport{Applied: 12, Skipped: []project.SkippedEntry{{}}}, nil
	}
	c := New(s, Deps{Permissions: perms}, WithOutput(&out))
	if _, err := c.Step(context.Background(), "6"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if gotRoot != s.Root {
		t.Errorf("permissions root = %q, want %q", gotRoot, s.Root)
	}
	if !strings.Contains(out.String(), "12 entries") || !strings.Contains(out.String(), "1 skipped") {
		t.Errorf("output = %q", out.String())
	}
}

func TestStep_SetPermissionsDefaultPolicy(t *testing.T) {
	s := newSession(t)
	cfg := filepath.Join(s.Root, "Config", "project.config")
	if err := os.Chmod(cfg, 0o666); err != nil {
		t.Fatal(err)
	}
	c := New(s, Deps{})
	if _, err := c.Step(context.Background(), "6"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	info, err := os.Stat(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("config mode = %o, want 640", info.Mode().Perm())
	}
}

func TestStep_CheckConnectivity(t *testing.T) {
	for _, tc := range []struct {
		reachable bool
		want      string
	}{
		{true, "online"},
		{false, "offline"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			var out strings.Builder
			p := &fakeProber{reachable: tc.reachable}
			c := New(project.Session{}, Deps{Prober: p}, WithOutput(&out))
			if _, err := c.Step(context.Background(), "7"); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if !strings.Contains(out.String(), tc.want) {
				t.Errorf("output = %q, want %q", out.String(), tc.want)
			}
			if !p.hadDeadline {
				t.Error("probe should run under a bounded deadline")
			}
		})
	}
}

func TestStep_ViewGuide(t *testing.T) {
	s := newSession(t)

	t.Run("raw", func(t *testing.T) {
		var out strings.Builder
		c := New(s, Deps{}, WithOutput(&out))
		if _, err := c.Step(context.Background(), "8"); err != nil {
			t.Fatalf("Step: %v", err)
		}
		raw, _ := os.ReadFile(filepath.Join(s.Root, "Docs", "vi_instructions.md"))
		if out.String() != string(raw) {
			t.Errorf("guide output differs from file")
		}
	})

	t.Run("rendered", func(t *testing.T) {
		var out strings.Builder
		render := func(md string) (string, error) { return "RENDERED\n", nil }
		c := New(s, Deps{}, WithOutput(&out), WithMarkdown(render))
		if _, err := c.Step(context.Background(), "8"); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if out.String() != "RENDERED\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("render failure falls back", func(t *testing.T) {
		var out strings.Builder
		render := func(string) (string, error) { return "", errors.New("boom") }
		c := New(s, Deps{}, WithOutput(&out), WithMarkdown(render))
		if _, err := c.Step(context.Background(), "8"); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if out.Len() == 0 {
			t.Error("raw guide should be printed")
		}
	})

	t.Run("missing", func(t *testing.T) {
		c := New(project.Session{Root: t.TempDir()}, Deps{})
		if _, err := c.Step(context.Background(), "8"); err == nil {
			t.Error("expected error for missing guide")
		}
	})
}

func TestRun_ScriptedInput(t *testing.T) {
	s := newSession(t)
	ed := &fakeEditor{err: errors.New("editor crashed")}
	c := New(s, Deps{Editor: ed, Prober: &fakeProber{reachable: true}}, WithHostFacts(staticFacts))

	var out strings.Builder
	in := strings.NewReader("bogus\n1\n7\nq\n5\n")
	if err := c.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.State() != StateExited {
		t.Errorf("state = %v, want exited", c.State())
	}
	got := out.String()
	for _, want := range []string{"Invalid choice", "editor crashed", "online", "Project management", "Choice: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(got, "testhost") {
		t.Error("input after exit should not be processed")
	}
	if n := strings.Count(got, "Choice: "); n != 4 {
		t.Errorf("menu shown %d times, want 4", n)
	}
}

func TestRun_EOFExits(t *testing.T) {
	c := New(project.Session{}, Deps{})
	var out strings.Builder
	if err := c.Run(context.Background(), strings.NewReader("9\n"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.State() != StateExited {
		t.Errorf("state = %v, want exited", c.State())
	}
}

func TestRun_Chooser(t *testing.T) {
	choices := []string{"7", "exit"}
	var seen [][]MenuItem
	chooser := func(_ context.Context, items []MenuItem) (string, error) {
		seen = append(seen, items)
		next := choices[0]
		choices = choices[1:]
		return next, nil
	}
	var out strings.Builder
	c := New(project.Session{}, Deps{Prober: &fakeProber{}}, WithChooser(chooser))
	if err := c.Run(context.Background(), nil, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("chooser called %d times, want 2", len(seen))
	}
	items := seen[0]
	if len(items) != 9 || items[0].Key != "1" || items[8].Key != "0" {
		t.Errorf("items = %+v", items)
	}
	if !strings.Contains(out.String(), "offline") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "Choice: ") {
		t.Error("custom chooser should replace the line prompt")
	}
}

func TestRun_ChooserError(t *testing.T) {
	boom := errors.New("tty gone")
	c := New(project.Session{}, Deps{}, WithChooser(func(context.Context, []MenuItem) (string, error) {
		return "", boom
	}))
	if err := c.Run(context.Background(), nil, &strings.Builder{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(project.Session{}, Deps{})
	if err := c.Run(ctx, strings.NewReader("1\n"), &strings.Builder{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateExited.String() != "exited" || State(9).String() != "unknown" {
		t.Error("unexpected State strings")
	}
}
