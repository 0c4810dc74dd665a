package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathError associates a validation failure with a relative path.
type PathError struct {
	Path string
	Err  error
}

func (e PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ValidationReport is the outcome of checking a generated project.
type ValidationReport struct {
	Valid        bool
	FilesChecked int
	Errors       []PathError
	Warnings     []string
}

// Validator checks generated project files.
type Validator interface {
	// ValidateJSON reports whether data is well-formed JSON.
	ValidateJSON(data []byte) error

	// ValidatePaths returns an error for every path that escapes root.
	ValidatePaths(root string, files []string) []PathError

	// ValidateProject checks that every file exists, is a non-empty regular
	// file, stays inside root and, for .json files, parses.
	ValidateProject(root string, files []string) *ValidationReport
}

type projectValidator struct{}

// NewValidator creates a Validator.
func NewValidator() Validator {
	return &projectValidator{}
}

func (v *projectValidator) ValidateJSON(data []byte) error {
	if !json.Valid(data) {
		return ErrInvalidJSON
	}
	return nil
}

func (v *projectValidator) ValidatePaths(root string, files []string) []PathError {
	var errs []PathError
	for _, f := range files {
		if err := validateArtifactPath(root, f); err != nil {
			errs = append(errs, PathError{Path: f, Err: err})
		}
	}
	return errs
}

func (v *projectValidator) ValidateProject(root string, files []string) *ValidationReport {
	report := &ValidationReport{Valid: true}

	for _, f := range files {
		report.FilesChecked++

		if err := validateArtifactPath(root, f); err != nil {
			report.Errors = append(report.Errors, PathError{Path: f, Err: err})
			continue
		}

		full := filepath.Join(root, filepath.FromSlash(f))
		info, err := os.Stat(full)
		if err != nil {
			report.Errors = append(report.Errors, PathError{Path: f, Err: err})
			continue
		}
		if info.IsDir() {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s is a directory", f))
			continue
		}
		if info.Size() == 0 {
			report.Errors = append(report.Errors, PathError{Path: f, Err: fmt.Errorf("file is empty")})
			continue
		}

		if strings.HasSuffix(f, ".json") {
			data, err := os.ReadFile(full)
			if err != nil {
				report.Errors = append(report.Errors, PathError{Path: f, Err: err})
				continue
			}
			if err := v.ValidateJSON(data); err != nil {
				report.Errors = append(report.Errors, PathError{Path: f, Err: err})
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// validateArtifactPath rejects relPath if it is absolute or resolves outside projectRoot.
func validateArtifactPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}

	return nil
}
