package console

import (
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// TreeEntry is one file or directory below a project root.
type TreeEntry struct {
	Path  string // slash-separated, relative to the root
	Name  string
	Depth int // 0 for direct children of the root
	IsDir bool
}

// String renders the entry indented by depth, with directories suffixed by "/".
func (e TreeEntry) String() string {
	name := e.Name
	if e.IsDir {
		name += "/"
	}
	return strings.Repeat("  ", e.Depth) + name
}

// skipInTree lists directory names that are not descended into.
var skipInTree = map[string]bool{".git": true, "node_modules": true}

// Tree walks root depth-first in lexical order. Directories are read only
// as iteration reaches them, and each range over the sequence starts a new
// walk. A directory that cannot be read yields its error and the walk
// continues with its siblings.
func Tree(root string) iter.Seq2[TreeEntry, error] {
	return func(yield func(TreeEntry, error) bool) {
		walkTree(root, "", 0, yield)
	}
}

func walkTree(root, rel string, depth int, yield func(TreeEntry, error) bool) bool {
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return yield(TreeEntry{Path: rel, Depth: depth}, err)
	}
	for _, d := range entries {
		p := d.Name()
		if rel != "" {
			p = rel + "/" + p
		}
		e := TreeEntry{Path: p, Name: d.Name(), Depth: depth, IsDir: d.IsDir()}
		if !yield(e, nil) {
			return false
		}
		if e.IsDir && !skipInTree[e.Name] {
			if !walkTree(root, p, depth+1, yield) {
				return false
			}
		}
	}
	return true
}

// WriteTree prints every entry of Tree(root) to w and returns the number
// of entries written.
func WriteTree(w io.Writer, root string) (int, error) {
	n := 0
	for e, err := range Tree(root) {
		if err != nil {
			if _, werr := io.WriteString(w, "! "+err.Error()+"\n"); werr != nil {
				return n, werr
			}
			continue
		}
		if _, err := io.WriteString(w, e.String()+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
