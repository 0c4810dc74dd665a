package tooling

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Requirement describes one external tool.
type Requirement struct {
	Name         string   // Display name and default binary.
	Alternatives []string // Other binaries that satisfy the requirement.
	MinVersion   string   // Semantic version lower bound; empty means any.
	VersionArgs  []string // Arguments that print the version.
	Package      string   // Package to install when missing; defaults to Name.
}

// Binaries returns every program name that satisfies r, in preference order.
func (r Requirement) Binaries() []string {
	return append([]string{r.Name}, r.Alternatives...)
}

// PackageName returns the package installed for r.
func (r Requirement) PackageName() string {
	if r.Package != "" {
		return r.Package
	}
	return r.Name
}

// Status is the outcome of checking one Requirement.
type Status struct {
	Requirement Requirement
	Binary      string // Program that was found, if any.
	Path        string
	Version     string
	Err         error // nil when satisfied; wraps ErrToolMissing or ErrVersionTooOld.
}

// OK reports whether the requirement is satisfied.
func (s Status) OK() bool { return s.Err == nil }

// DefaultRequirements lists the tools a generated project uses.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Name: "git", VersionArgs: []string{"--version"}},
		{Name: "node", MinVersion: "18.0.0", VersionArgs: []string{"--version"}, Package: "nodejs"},
		{Name: "npm", VersionArgs: []string{"--version"}},
		{Name: "vim", Alternatives: []string{"vi"}, Package: "vim"},
	}
}

// Checker reports which requirements are installed.
type Checker struct {
	lookPath LookPathFunc
	run      RunFunc
	logger   *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) CheckerOption {
	return func(c *Checker) { c.lookPath = fn }
}

// WithRunner replaces the function used to query versions.
func WithRunner(fn RunFunc) CheckerOption {
	return func(c *Checker) { c.run = fn }
}

// WithCheckerLogger sets the logger.
func WithCheckerLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker creates a Checker.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		lookPath: exec.LookPath,
		run:      runOutput,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check evaluates every requirement. It never fails as a whole; problems
// are reported per Status.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) []Status {
	statuses := make([]Status, 0, len(reqs))
	for _, r := range reqs {
		s := c.checkOne(ctx, r)
		if s.OK() {
			c.logger.Debug("tool found", "name", r.Name, "path", s.Path, "version", s.Version)
		} else {
			c.logger.Warn("tool requirement not met", "name", r.Name, "error", s.Err)
		}
		statuses = append(statuses, s)
	}
	return statuses
}

func (c *Checker) checkOne(ctx context.Context, r Requirement) Status {
	s := Status{Requirement: r}

	for _, bin := range r.Binaries() {
		if p, err := c.lookPath(bin); err == nil {
			s.Binary, s.Path = bin, p
			break
		}
	}
	if s.Path == "" {
		s.Err = fmt.Errorf("%w: %s", ErrToolMissing, r.Name)
		return s
	}

	if len(r.VersionArgs) == 0 {
		return s
	}
	out, err := c.run(ctx, s.Path, r.VersionArgs...)
	if err != nil {
		c.logger.Debug("version query failed", "name", r.Name, "error", err)
	}
	v := ParseVersion(out)
	if v != nil {
		s.Version = v.String()
	}

	if r.MinVersion == "" {
		return s
	}
	constraint, err := semver.NewConstraint(">= " + r.MinVersion)
	if err != nil {
		s.Err = fmt.Errorf("parse minimum version for %s: %w", r.Name, err)
		return s
	}
	if v == nil || !constraint.Check(v) {
		got := s.Version
		if got == "" {
			got = "unknown"
		}
		s.Err = fmt.Errorf("%w: %s %s, need >= %s", ErrVersionTooOld, r.Name, got, r.MinVersion)
	}
	return s
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// ParseVersion extracts the first dotted version number from tool output,
// e.g. "git version 2.43.0" or "v20.11.1". Returns nil if none is found.
func ParseVersion(output string) *semver.Version {
	m := versionPattern.FindString(output)
	if m == "" {
		return nil
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return nil
	}
	return v
}

// Missing returns the package names of unsatisfied statuses.
func Missing(statuses []Status) []string {
	var pkgs []string
	for _, s := range statuses {
		if !s.OK() {
			pkgs = append(pkgs, s.Requirement.PackageName())
		}
	}
	return pkgs
}
