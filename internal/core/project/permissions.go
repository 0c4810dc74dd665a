package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modu-ai/webproj/internal/defs"
)

// PermissionPolicy maps each class of entry in a project tree to a mode.
// The classes are disjoint: directories, files with an executable suffix,
// other files under ConfigDir, and all remaining regular files.
type PermissionPolicy struct {
	Dir        fs.FileMode
	File       fs.FileMode
	Executable fs.FileMode
	Config     fs.FileMode

	ExecutableSuffixes []string
	ConfigDir          string   // Relative to the project root.
	SkipDirs           []string // Directory names never descended into.
}

// DefaultPermissionPolicy returns the policy applied after materialization.
func DefaultPermissionPolicy() PermissionPolicy {
	return PermissionPolicy{
		Dir:                defs.DirPerm,
		File:               defs.FilePerm,
		Executable:         defs.ExecPerm,
		Config:             defs.ConfigPerm,
		ExecutableSuffixes: []string{defs.ExecutableShell},
		ConfigDir:          defs.ConfigDir,
		SkipDirs:           []string{".git", "node_modules"},
	}
}

// ModeFor returns the mode for the entry at rel (slash or OS separated,
// relative to the root). ok is false for entries the policy does not touch.
func (p PermissionPolicy) ModeFor(rel string, d fs.DirEntry) (mode fs.FileMode, ok bool) {
	switch {
	case d.Type()&fs.ModeSymlink != 0:
		return 0, false
	case d.IsDir():
		return p.Dir, true
	case !d.Type().IsRegular():
		return 0, false
	}

	for _, suffix := range p.ExecutableSuffixes {
		if strings.HasSuffix(d.Name(), suffix) {
			return p.Executable, true
		}
	}

	rel = filepath.ToSlash(rel)
	if p.ConfigDir != "" && strings.HasPrefix(rel, strings.TrimSuffix(p.ConfigDir, "/")+"/") {
		return p.Config, true
	}
	return p.File, true
}

// SkippedEntry records an entry the permission pass could not update.
type SkippedEntry struct {
	Path string
	Err  error
}

// PermissionReport summarizes a permission pass.
type PermissionReport struct {
	Applied int
	Skipped []SkippedEntry
}

// ApplyPermissions walks root once and sets every entry to the mode its class
// maps to. Failures on individual entries are logged and collected; only an
// inaccessible root is returned as an error. Symlinks are left alone.
func ApplyPermissions(root string, policy PermissionPolicy, logger *slog.Logger) (*PermissionReport, error) {
	return applyPermissions(root, policy, logger, os.Chmod)
}

func applyPermissions(root string, policy PermissionPolicy, logger *slog.Logger, chmod func(string, fs.FileMode) error) (*PermissionReport, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	report := &PermissionReport{}
	skip := func(path string, err error) {
		logger.Warn("permission change skipped", "path", path, "error", err)
		report.Skipped = append(report.Skipped, SkippedEntry{Path: path, Err: err})
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory or vanished entry: record and keep going.
			skip(path, err)
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			skip(path, relErr)
			return nil
		}

		if d.IsDir() && rel != "." && slices.Contains(policy.SkipDirs, d.Name()) {
			return filepath.SkipDir
		}

		mode, ok := policy.ModeFor(rel, d)
		if !ok {
			return nil
		}
		if err := chmod(path, mode); err != nil {
			skip(path, err)
			return nil
		}
		report.Applied++
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, filepath.SkipDir) {
		return report, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	logger.Info("permissions applied", "root", root, "applied", report.Applied, "skipped", len(report.Skipped))
	return report, nil
}
