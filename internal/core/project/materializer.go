package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modu-ai/webproj/internal/defs"
	"github.com/modu-ai/webproj/internal/template"
)

// Prober reports whether the network is reachable.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Result summarizes a materialization pass.
type Result struct {
	Root            string   // Absolute project root.
	CreatedDirs     []string // Plan directories, relative to Root.
	CreatedFiles    []string // Artifact paths, relative to Root.
	RemoteOverrides []string // Artifacts replaced with remote content.
	Warnings        []string // Non-fatal problems.
}

// Materializer creates the project tree for a spec.
type Materializer struct {
	static    template.Provider
	remote    template.Provider // May be nil.
	prober    Prober            // May be nil.
	reporter  Reporter
	validator Validator
	logger    *slog.Logger
}

// MaterializerOption configures a Materializer.
type MaterializerOption func(*Materializer)

// WithRemote sets the provider used for the best-effort front-end override.
func WithRemote(p template.Provider) MaterializerOption {
	return func(m *Materializer) { m.remote = p }
}

// WithProber sets the reachability check that gates the remote override.
func WithProber(p Prober) MaterializerOption {
	return func(m *Materializer) { m.prober = p }
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) MaterializerOption {
	return func(m *Materializer) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) MaterializerOption {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMaterializer creates a Materializer that renders files with static.
func NewMaterializer(static template.Provider, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		static:    static,
		reporter:  NoOpReporter{},
		validator: NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize creates root, every plan directory and every artifact for spec.
// Existing directories are reused and existing files overwritten, so running
// it twice yields the same tree. A filesystem failure aborts the pass and is
// returned as a *MaterializeError; already-created paths are left in place.
// A plan path that escapes root fails the call before anything is created.
// Remote template problems only produce warnings.
func (m *Materializer) Materialize(ctx context.Context, spec ProjectSpec, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	m.logger.Info("materializing project", "root", absRoot, "name", spec.Name(), "port", spec.Port())

	planned := append(append([]string{}, DirectoryPlan...), ArtifactPaths()...)
	if errs := m.validator.ValidatePaths(absRoot, planned); len(errs) > 0 {
		m.logger.Error("project plan escapes root", "path", errs[0].Path, "count", len(errs))
		return nil, &MaterializeError{Path: errs[0].Path, Op: "plan", Err: errs[0].Err}
	}

	result := &Result{Root: absRoot}
	data := spec.TemplateContext()

	// Step 1: directories
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.reporter.StepStart("directories", "creating directory layout")
	if err := m.createDirs(absRoot, result); err != nil {
		m.reporter.StepError(err)
		return result, err
	}
	m.reporter.StepComplete(fmt.Sprintf("%d directories", len(result.CreatedDirs)))

	// Step 2: static files
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.reporter.StepStart("files", "writing project files")
	if err := m.writeStatic(ctx, absRoot, data, result); err != nil {
		m.reporter.StepError(err)
		return result, err
	}
	m.reporter.StepComplete(fmt.Sprintf("%d files", len(result.CreatedFiles)))

	// Step 3: best-effort remote override
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.overrideRemote(ctx, absRoot, data, result); err != nil {
		return result, err
	}

	report := m.validator.ValidateProject(absRoot, ArtifactPaths())
	for _, e := range report.Errors {
		m.warn(result, "generated file failed validation", "path", e.Path, "error", e.Err)
	}

	m.logger.Info("project materialized",
		"dirs", len(result.CreatedDirs),
		"files", len(result.CreatedFiles),
		"remote", len(result.RemoteOverrides),
	)
	return result, nil
}

func (m *Materializer) createDirs(root string, result *Result) error {
	if err := os.MkdirAll(root, defs.DirPerm); err != nil {
		return &MaterializeError{Path: root, Op: "mkdir", Err: err}
	}
	for _, dir := range DirectoryPlan {
		dirPath := filepath.Join(root, dir)
		if err := os.MkdirAll(dirPath, defs.DirPerm); err != nil {
			return &MaterializeError{Path: dirPath, Op: "mkdir", Err: err}
		}
		result.CreatedDirs = append(result.CreatedDirs, dir)
	}
	return nil
}

func (m *Materializer) writeStatic(ctx context.Context, root string, data *template.TemplateContext, result *Result) error {
	for i, a := range Artifacts {
		content, err := m.static.Fetch(ctx, a.Kind, data)
		if err != nil {
			return fmt.Errorf("render %s: %w", a.Path, err)
		}
		if err := writeArtifact(root, a.Path, content); err != nil {
			return err
		}
		result.CreatedFiles = append(result.CreatedFiles, a.Path)
		m.reporter.StepProgress(i+1, len(Artifacts))
		m.logger.Debug("wrote file", "path", a.Path, "bytes", len(content))
	}
	return nil
}

func (m *Materializer) overrideRemote(ctx context.Context, root string, data *template.TemplateContext, result *Result) error {
	if m.remote == nil {
		m.logger.Debug("remote templates disabled")
		return nil
	}
	if m.prober == nil {
		m.logger.Debug("no connectivity probe configured, skipping remote templates")
		return nil
	}

	m.reporter.StepStart("remote", "checking for remote templates")
	if !m.prober.Reachable(ctx) {
		m.warn(result, "network unreachable, keeping built-in templates")
		m.reporter.StepComplete("offline")
		return nil
	}

	for _, kind := range template.FrontEndKinds() {
		a, ok := ArtifactFor(kind)
		if !ok {
			continue
		}
		content, err := m.remote.Fetch(ctx, kind, data)
		if err != nil {
			m.warn(result, "remote template unavailable, keeping built-in", "path", a.Path, "error", err)
			continue
		}
		if err := writeArtifact(root, a.Path, content); err != nil {
			m.reporter.StepError(err)
			return err
		}
		result.RemoteOverrides = append(result.RemoteOverrides, a.Path)
	}
	m.reporter.StepComplete(fmt.Sprintf("%d remote templates", len(result.RemoteOverrides)))
	return nil
}

// warn logs msg and records it on the result.
func (m *Materializer) warn(result *Result, msg string, args ...any) {
	m.logger.Warn(msg, args...)
	w := msg
	for i := 0; i+1 < len(args); i += 2 {
		w += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	result.Warnings = append(result.Warnings, w)
}

// writeArtifact writes content to rel under root, overwriting any existing file.
func writeArtifact(root, rel string, content []byte) error {
	if err := validateArtifactPath(root, rel); err != nil {
		return &MaterializeError{Path: rel, Op: "write", Err: err}
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), defs.DirPerm); err != nil {
		return &MaterializeError{Path: filepath.Dir(full), Op: "mkdir", Err: err}
	}
	if err := os.WriteFile(full, content, defs.FilePerm); err != nil {
		return &MaterializeError{Path: full, Op: "write", Err: err}
	}
	return nil
}

// IsMaterializeError reports whether err came from a failed filesystem write.
func IsMaterializeError(err error) bool {
	var me *MaterializeError
	return errors.As(err, &me)
}
