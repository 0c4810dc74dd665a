// Package template supplies the content of every generated project file.
// Built-in content comes from embedded text/template files rendered against
// a TemplateContext; front-end files can also be fetched from a remote
// template source.
package template

import "errors"

// Sentinel errors for the template package.
var (
	// ErrTemplateNotFound indicates the named template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingTemplateKey indicates a template referenced a key absent from the data.
	ErrMissingTemplateKey = errors.New("template references missing key")

	// ErrUnexpandedToken indicates template syntax survived rendering.
	ErrUnexpandedToken = errors.New("unexpanded template token in output")

	// ErrUnavailable indicates a provider cannot supply content for a kind.
	ErrUnavailable = errors.New("template unavailable")

	// ErrUnknownKind indicates a Kind outside the artifact catalog.
	ErrUnknownKind = errors.New("unknown template kind")
)
