// Package vcs creates the initial git repository for a generated project.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitialCommitMessage is the message of the first commit.
const InitialCommitMessage = "Initial commit"

// Initializer creates or updates a repository in dir and commits its contents.
type Initializer interface {
	Init(ctx context.Context, dir, author string) error
}

// GitInitializer implements Initializer with go-git; no git binary is needed.
type GitInitializer struct {
	now    func() time.Time
	email  func() string
	logger *slog.Logger
}

// Option configures a GitInitializer.
type Option func(*GitInitializer)

// WithClock sets the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *GitInitializer) { g.now = now }
}

// WithEmail sets the author email lookup.
func WithEmail(fn func() string) Option {
	return func(g *GitInitializer) { g.email = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *GitInitializer) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGitInitializer creates a GitInitializer.
func NewGitInitializer(opts ...Option) *GitInitializer {
	g := &GitInitializer{
		now:    time.Now,
		email:  globalEmail,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// globalEmail reads user.email from the global git config, if any.
func globalEmail() string {
	cfg, err := config.LoadConfig(config.GlobalScope)
	if err != nil {
		return ""
	}
	return cfg.User.Email
}

// Init initializes dir as a repository (reusing an existing one), stages
// every file not excluded by .gitignore and commits as author. A tree with
// nothing new to commit is not an error.
func (g *GitInitializer) Init(ctx context.Context, dir, author string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", dir, err)
	}

	repo, err := git.PlainInit(absDir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		g.logger.Debug("repository exists, reusing", "dir", absDir)
		repo, err = git.PlainOpen(absDir)
	}
	if err != nil {
		return fmt.Errorf("init repository %s: %w", absDir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage files: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	sig := &object.Signature{Name: author, Email: g.email(), When: g.now()}
	hash, err := wt.Commit(InitialCommitMessage, &git.CommitOptions{Author: sig, Committer: sig})
	if errors.Is(err, git.ErrEmptyCommit) {
		g.logger.Info("nothing to commit", "dir", absDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	g.logger.Info("repository initialized", "dir", absDir, "commit", hash.String()[:7])
	return nil
}
