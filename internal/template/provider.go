package template

import "context"

// Provider supplies file content for an artifact kind.
// Implementations return an error wrapping ErrUnavailable when they cannot
// produce content for the requested kind.
type Provider interface {
	Fetch(ctx context.Context, kind Kind, data *TemplateContext) ([]byte, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, kind Kind, data *TemplateContext) ([]byte, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, kind Kind, data *TemplateContext) ([]byte, error) {
	return f(ctx, kind, data)
}
