package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// FindProjectRoot locates the project root by searching start and its
// parents for Config/project.config. An empty start means the working
// directory. Returns an absolute path or an error wrapping ErrNotProject.
func FindProjectRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = wd
	}

	absDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(ConfigPath(absDir)); err == nil && info.Mode().IsRegular() {
			return absDir, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w: no Config/project.config in %s or any parent directory", ErrNotProject, start)
		}
		absDir = parent
	}
}

// LoadSession rebuilds the session for the project at root from its
// Config/project.config. Values pass through Resolve, so a hand-edited file
// with a bad port falls back to the default with a warning.
func LoadSession(root string, opts ...ResolveOption) (Session, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	f, err := os.Open(ConfigPath(absRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, fmt.Errorf("%w: %s", ErrNotProject, absRoot)
		}
		return Session{}, fmt.Errorf("open project config: %w", err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return Session{}, fmt.Errorf("parse project config: %w", err)
	}

	if created, err := time.Parse(time.RFC3339, values["CREATED_AT"]); err == nil {
		opts = append(opts, WithClock(func() time.Time { return created }))
	}

	spec := Resolve(RawInput{
		Name:        values["PROJECT_NAME"],
		Description: values["DESCRIPTION"],
		Author:      values["AUTHOR"],
		Port:        values["PORT"],
	}, opts...)

	return Session{Spec: spec, Root: absRoot}, nil
}
