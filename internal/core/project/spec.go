package project

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/modu-ai/webproj/internal/template"
)

// Resolver defaults.
const (
	DefaultPort        = 3000
	DefaultDescription = "A new web project"
	DefaultNamePrefix  = "WebProject_"
	UnknownAuthor      = "unknown"

	// MaxNameBytes is the longest project name, in bytes, that fits in one
	// path component on common filesystems.
	MaxNameBytes = 255

	// reservedNameChars are rejected in project names on every platform.
	reservedNameChars = `<>:"|?*`
)

// RawInput is unvalidated user input, typically straight from prompts or flags.
type RawInput struct {
	Name        string
	Description string
	Author      string
	Port        string
}

// ProjectSpec is the validated, immutable description of a project.
// It is safe to copy; all accessors return values.
type ProjectSpec struct {
	name        string
	description string
	author      string
	port        int
	createdAt   time.Time
	warnings    []string
}

// Name returns the project name, which is also the directory name.
func (s ProjectSpec) Name() string { return s.name }

// Description returns the project description.
func (s ProjectSpec) Description() string { return s.description }

// Author returns the project author.
func (s ProjectSpec) Author() string { return s.author }

// Port returns the development server port.
func (s ProjectSpec) Port() int { return s.port }

// CreatedAt returns the instant the spec was resolved.
func (s ProjectSpec) CreatedAt() time.Time { return s.createdAt }

// Warnings returns the notices produced while resolving input.
func (s ProjectSpec) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// TemplateContext builds the render data for the spec.
func (s ProjectSpec) TemplateContext() *template.TemplateContext {
	return template.NewTemplateContext(
		template.WithProject(s.name, s.description),
		template.WithAuthor(s.author),
		template.WithPort(s.port),
		template.WithCreatedAt(s.createdAt),
	)
}

// Session pairs a spec with the directory it was materialized into. It is
// passed to anything that launches child processes.
type Session struct {
	Spec ProjectSpec
	Root string
}

// Environ returns the project variables as KEY=value pairs for child processes.
func (s Session) Environ() []string {
	return []string{
		"PROJECT_NAME=" + s.Spec.Name(),
		"PROJECT_DIR=" + s.Root,
		"PROJECT_PORT=" + strconv.Itoa(s.Spec.Port()),
	}
}

// Path joins elem onto the project root.
func (s Session) Path(elem ...string) string {
	return filepath.Join(append([]string{s.Root}, elem...)...)
}

// resolveOptions holds the collaborators used by Resolve.
type resolveOptions struct {
	now        func() time.Time
	lookupUser func() (string, error)
	getenv     func(string) string
}

// ResolveOption configures Resolve.
type ResolveOption func(*resolveOptions)

// WithClock sets the time source used for CreatedAt and the default name.
func WithClock(now func() time.Time) ResolveOption {
	return func(o *resolveOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithUserLookup sets the collaborator that returns the current login name.
func WithUserLookup(fn func() (string, error)) ResolveOption {
	return func(o *resolveOptions) {
		if fn != nil {
			o.lookupUser = fn
		}
	}
}

// WithGetenv sets the environment lookup used for the $USER fallback.
func WithGetenv(fn func(string) string) ResolveOption {
	return func(o *resolveOptions) {
		if fn != nil {
			o.getenv = fn
		}
	}
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

var portValidator = validator.New(validator.WithRequiredStructEnabled())

// Resolve turns raw input into a ProjectSpec. It never fails: invalid values
// fall back to defaults and the reason is recorded in Warnings.
func Resolve(in RawInput, opts ...ResolveOption) ProjectSpec {
	o := resolveOptions{
		now:        time.Now,
		lookupUser: currentUsername,
		getenv:     os.Getenv,
	}
	for _, opt := range opts {
		opt(&o)
	}

	spec := ProjectSpec{createdAt: o.now()}

	spec.name = spec.resolveName(in.Name)

	spec.description = in.Description
	if spec.description == "" {
		spec.description = DefaultDescription
	}

	spec.author = in.Author
	if spec.author == "" {
		spec.author = resolveAuthor(o)
	}

	spec.port = spec.resolvePort(in.Port)

	return spec
}

func (s *ProjectSpec) defaultName() string {
	return DefaultNamePrefix + s.createdAt.Local().Format("20060102")
}

func (s *ProjectSpec) resolveName(raw string) string {
	name := strings.TrimSpace(norm.NFC.String(raw))
	if name == "" {
		return s.defaultName()
	}
	if reason := invalidNameReason(name); reason != "" {
		s.warnings = append(s.warnings,
			fmt.Sprintf("project name %q %s; using %s", raw, reason, s.defaultName()))
		return s.defaultName()
	}
	return name
}

// invalidNameReason explains why name cannot be used as a directory name,
// or returns "" when it can.
func invalidNameReason(name string) string {
	switch {
	case name == "." || name == "..":
		return "is a relative path element"
	case strings.Contains(name, ".."):
		return `contains ".."`
	case strings.ContainsAny(name, `/\`):
		return "contains a path separator"
	case strings.ContainsAny(name, reservedNameChars):
		return "contains a reserved character"
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return "contains a control character"
	case strings.ContainsAny(name, "\u2028\u2029"):
		return "contains a line separator"
	case len(name) > MaxNameBytes:
		return fmt.Sprintf("is longer than %d bytes", MaxNameBytes)
	}
	return ""
}

func resolveAuthor(o resolveOptions) string {
	if name, err := o.lookupUser(); err == nil && strings.TrimSpace(name) != "" {
		return name
	}
	if name := o.getenv("USER"); name != "" {
		return name
	}
	return UnknownAuthor
}

func (s *ProjectSpec) resolvePort(raw string) int {
	if raw == "" {
		return DefaultPort
	}
	if !isDigits(raw) {
		s.warnings = append(s.warnings,
			fmt.Sprintf("port %q is not a number; using %d", raw, DefaultPort))
		return DefaultPort
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.warnings = append(s.warnings,
			fmt.Sprintf("port %q is out of range; using %d", raw, DefaultPort))
		return DefaultPort
	}
	if err := portValidator.Var(n, "min=1024,max=65535"); err != nil {
		s.warnings = append(s.warnings,
			fmt.Sprintf("port %d must be between 1024 and 65535; using %d", n, DefaultPort))
		return DefaultPort
	}
	return n
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
