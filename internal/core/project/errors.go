// Package project implements the web project scaffolding core: resolving raw
// input into an immutable ProjectSpec, materializing the directory layout and
// files for it, applying the permission policy, and locating and reloading
// existing projects.
package project

import (
	"errors"
	"fmt"
)

// Sentinel errors for the project package.
var (
	// ErrMaterialize indicates a filesystem write failed while building a project.
	ErrMaterialize = errors.New("materialization failed")

	// ErrInvalidRoot indicates the given project root path is invalid or inaccessible.
	ErrInvalidRoot = errors.New("invalid project root path")

	// ErrNotProject indicates no Config/project.config was found.
	ErrNotProject = errors.New("not a webproj project")

	// ErrPathTraversal indicates an artifact path escapes the project root.
	ErrPathTraversal = errors.New("path escapes project root")

	// ErrInvalidJSON indicates a generated JSON file does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// MaterializeError records the path and operation of a failed write.
type MaterializeError struct {
	Path string
	Op   string // "plan", "mkdir" or "write"
	Err  error
}

// Error implements the error interface.
func (e *MaterializeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMaterialize.
func (e *MaterializeError) Is(target error) bool {
	return target == ErrMaterialize
}
