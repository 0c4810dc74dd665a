package template

// Kind identifies one generated project file.
type Kind string

// Artifact kinds, one per generated file.
const (
	KindHTML        Kind = "html"
	KindCSS         Kind = "css"
	KindJavaScript  Kind = "javascript"
	KindEditorGuide Kind = "editor-guide"
	KindServer      Kind = "server"
	KindTest        Kind = "test"
	KindConfig      Kind = "config"
	KindReadme      Kind = "readme"
	KindPackageJSON Kind = "package-json"
	KindGitIgnore   Kind = "gitignore"
)

// templateFiles maps each kind to its embedded template file.
var templateFiles = map[Kind]string{
	KindHTML:        "index.html.tmpl",
	KindCSS:         "styles.css.tmpl",
	KindJavaScript:  "script.js.tmpl",
	KindEditorGuide: "vi_instructions.md.tmpl",
	KindServer:      "server.js.tmpl",
	KindTest:        "test.js.tmpl",
	KindConfig:      "project.config.tmpl",
	KindReadme:      "README.md.tmpl",
	KindPackageJSON: "package.json.tmpl",
	KindGitIgnore:   "gitignore.tmpl",
}

// Kinds returns every artifact kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindHTML, KindCSS, KindJavaScript,
		KindEditorGuide, KindServer, KindTest,
		KindConfig, KindReadme, KindPackageJSON, KindGitIgnore,
	}
}

// FrontEndKinds returns the kinds a remote source may override.
func FrontEndKinds() []Kind {
	return []Kind{KindHTML, KindCSS, KindJavaScript}
}

// IsFrontEnd reports whether k can be overridden remotely.
func (k Kind) IsFrontEnd() bool {
	switch k {
	case KindHTML, KindCSS, KindJavaScript:
		return true
	}
	return false
}

// TemplateFile returns the embedded template name for k.
func (k Kind) TemplateFile() (string, bool) {
	name, ok := templateFiles[k]
	return name, ok
}
