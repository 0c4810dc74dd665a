package defs

import "io/fs"

// Project subdirectories created under the project root.
const (
	HTMLDir       = "Html"
	CSSDir        = "CSS"
	JavaScriptDir = "JavaScript"
	AssetsDir     = "Assets"
	DataDir       = "Data"
	DocsDir       = "Docs"
	TestsDir      = "Tests"
	ServerDir     = "Server"
	ConfigDir     = "Config"
	BuildDir      = "Build"
)

// Generated file names.
const (
	IndexHTML       = "index.html"
	StylesCSS       = "styles.css"
	ScriptJS        = "script.js"
	EditorGuideMD   = "vi_instructions.md"
	ServerIndexJS   = "index.js"
	TestJS          = "test.js"
	ProjectConfig   = "project.config"
	ReadmeMD        = "README.md"
	PackageJSON     = "package.json"
	GitIgnore       = ".gitignore"
	LogFilePrefix   = "webproj-"
	LogFileExt      = ".log"
	UserConfigYAML  = "config.yaml"
	UserConfigDir   = "webproj"
	DotEnvFile      = ".env"
	ExecutableShell = ".sh"
)

// Default permission modes.
const (
	DirPerm    fs.FileMode = 0o755
	FilePerm   fs.FileMode = 0o644
	ExecPerm   fs.FileMode = 0o755
	ConfigPerm fs.FileMode = 0o640
)
