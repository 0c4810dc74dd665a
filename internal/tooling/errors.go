// Package tooling wraps the external programs webproj relies on: it checks
// which required tools are installed, installs missing ones through the
// host package manager, and launches the user's editor.
package tooling

import "errors"

// Sentinel errors for the tooling package.
var (
	// ErrToolMissing indicates a required tool is not on PATH.
	ErrToolMissing = errors.New("tool not found")

	// ErrVersionTooOld indicates a tool is older than the required minimum.
	ErrVersionTooOld = errors.New("tool version too old")

	// ErrNoPackageManager indicates no supported package manager was found.
	ErrNoPackageManager = errors.New("no supported package manager found")

	// ErrNoEditor indicates no editor command could be resolved.
	ErrNoEditor = errors.New("no editor configured")
)
