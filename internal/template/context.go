package template

import (
	"time"

	"github.com/modu-ai/webproj/pkg/version"
)

// TemplateContext provides data for template rendering.
// All fields are exported for use with Go's text/template package.
type TemplateContext struct {
	ProjectName string
	Description string
	Author      string
	Port        int
	CreatedAt   string // RFC 3339 timestamp captured when the project spec was resolved
	Year        int
	Version     string // webproj version that generated the files
}

// ContextOption configures a TemplateContext.
type ContextOption func(*TemplateContext)

// NewTemplateContext creates a TemplateContext with defaults, then applies opts.
func NewTemplateContext(opts ...ContextOption) *TemplateContext {
	ctx := &TemplateContext{
		Port:    3000,
		Version: version.GetVersion(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithProject sets the project name and description.
func WithProject(name, description string) ContextOption {
	return func(c *TemplateContext) {
		c.ProjectName = name
		c.Description = description
	}
}

// WithAuthor sets the author.
func WithAuthor(author string) ContextOption {
	return func(c *TemplateContext) {
		c.Author = author
	}
}

// WithPort sets the server port.
func WithPort(port int) ContextOption {
	return func(c *TemplateContext) {
		c.Port = port
	}
}

// WithCreatedAt sets the creation timestamp and derived year.
func WithCreatedAt(t time.Time) ContextOption {
	return func(c *TemplateContext) {
		c.CreatedAt = t.Format(time.RFC3339)
		c.Year = t.Year()
	}
}

// WithVersion overrides the generator version.
func WithVersion(v string) ContextOption {
	return func(c *TemplateContext) {
		c.Version = v
	}
}
