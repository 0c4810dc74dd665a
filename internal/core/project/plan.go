package project

import (
	"path/filepath"

	"github.com/modu-ai/webproj/internal/defs"
	"github.com/modu-ai/webproj/internal/template"
)

// DirectoryPlan lists the directories created under every project root.
var DirectoryPlan = []string{
	defs.HTMLDir,
	defs.CSSDir,
	defs.JavaScriptDir,
	defs.AssetsDir,
	defs.DataDir,
	defs.DocsDir,
	defs.TestsDir,
	defs.ServerDir,
	defs.ConfigDir,
	defs.BuildDir,
}

// FileArtifact is a generated file: a slash-separated path relative to the
// project root and the template kind that supplies its content.
type FileArtifact struct {
	Path string
	Kind template.Kind
}

// Artifacts lists every generated file. Paths are disjoint.
var Artifacts = []FileArtifact{
	{Path: defs.HTMLDir + "/" + defs.IndexHTML, Kind: template.KindHTML},
	{Path: defs.CSSDir + "/" + defs.StylesCSS, Kind: template.KindCSS},
	{Path: defs.JavaScriptDir + "/" + defs.ScriptJS, Kind: template.KindJavaScript},
	{Path: defs.DocsDir + "/" + defs.EditorGuideMD, Kind: template.KindEditorGuide},
	{Path: defs.ServerDir + "/" + defs.ServerIndexJS, Kind: template.KindServer},
	{Path: defs.TestsDir + "/" + defs.TestJS, Kind: template.KindTest},
	{Path: defs.ConfigDir + "/" + defs.ProjectConfig, Kind: template.KindConfig},
	{Path: defs.ReadmeMD, Kind: template.KindReadme},
	{Path: defs.PackageJSON, Kind: template.KindPackageJSON},
	{Path: defs.GitIgnore, Kind: template.KindGitIgnore},
}

// ArtifactFor returns the artifact generated for kind.
func ArtifactFor(kind template.Kind) (FileArtifact, bool) {
	for _, a := range Artifacts {
		if a.Kind == kind {
			return a, true
		}
	}
	return FileArtifact{}, false
}

// ArtifactPaths returns the relative paths of every artifact.
func ArtifactPaths() []string {
	paths := make([]string, len(Artifacts))
	for i, a := range Artifacts {
		paths[i] = a.Path
	}
	return paths
}

// ConfigPath returns the project.config location under root.
func ConfigPath(root string) string {
	return filepath.Join(root, defs.ConfigDir, defs.ProjectConfig)
}
