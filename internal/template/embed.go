package template

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var embeddedFS embed.FS

// EmbeddedTemplates returns the built-in template filesystem rooted at the
// templates directory.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedFS, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
