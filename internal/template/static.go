package template

import (
	"context"
	"fmt"
	"io/fs"
)

// StaticMarker is embedded in the built-in index.html so callers can tell
// static content from remotely fetched content.
const StaticMarker = "<!-- webproj:static-template -->"

// StaticProvider renders built-in templates against a TemplateContext.
type StaticProvider struct {
	renderer Renderer
}

// NewStaticProvider creates a StaticProvider over fsys. A nil fsys uses the
// embedded templates.
func NewStaticProvider(fsys fs.FS) *StaticProvider {
	if fsys == nil {
		fsys = EmbeddedTemplates()
	}
	return &StaticProvider{renderer: NewRenderer(fsys)}
}

// Fetch renders the template for kind. It never touches the network.
func (p *StaticProvider) Fetch(ctx context.Context, kind Kind, data *TemplateContext) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := kind.TemplateFile()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if data == nil {
		data = NewTemplateContext()
	}
	out, err := p.renderer.Render(name, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	return out, nil
}
