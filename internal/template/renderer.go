package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"
	"text/template/parse"
	"unicode"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	// jsonEscape escapes a string for safe embedding in JSON values.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
	// jsString renders s as a double-quoted JavaScript string literal,
	// quotes included.
	"jsString": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return `""`
		}
		return string(b)
	},
	// quote escapes a value for a KEY="value" line that dotenv parsers read back verbatim.
	"quote": func(s string) string {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, `$`, `\$`)
		return r.Replace(s)
	},
	// npmName converts a project name to a valid npm package name.
	"npmName": npmName,
}

// npmName lowercases s, turns whitespace into dashes and drops characters
// npm rejects. An empty result becomes "web-project".
func npmName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	name := strings.TrimLeft(b.String(), "._")
	if name == "" {
		return "web-project"
	}
	if len(name) > 214 {
		name = name[:214]
	}
	return name
}

// unexpandedTokenPattern detects Go template actions left in a template's
// literal text. JavaScript template literals (${...}) are not matched.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{-?\s*\.?[A-Za-z_][A-Za-z0-9_.]*\s*-?\}\}`)

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template and executes it with data. Returns
	// ErrMissingTemplateKey if a key is missing and ErrUnexpandedToken if
	// the template's own text would emit a template action. Data values are
	// never inspected.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	if tok := leftoverToken(tmpl.Tree.Root); tok != "" {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, tok, templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}
	return buf.Bytes(), nil
}

// leftoverToken returns the first template action found in the literal text
// or string constants under node, or "".
func leftoverToken(node parse.Node) string {
	switch n := node.(type) {
	case nil:
		return ""
	case *parse.ListNode:
		if n == nil {
			return ""
		}
		for _, c := range n.Nodes {
			if tok := leftoverToken(c); tok != "" {
				return tok
			}
		}
	case *parse.TextNode:
		return string(unexpandedTokenPattern.Find(n.Text))
	case *parse.StringNode:
		return unexpandedTokenPattern.FindString(n.Text)
	case *parse.ActionNode:
		return leftoverToken(n.Pipe)
	case *parse.PipeNode:
		if n == nil {
			return ""
		}
		for _, cmd := range n.Cmds {
			if tok := leftoverToken(cmd); tok != "" {
				return tok
			}
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			if tok := leftoverToken(arg); tok != "" {
				return tok
			}
		}
	case *parse.IfNode:
		return firstToken(n.Pipe, n.List, n.ElseList)
	case *parse.RangeNode:
		return firstToken(n.Pipe, n.List, n.ElseList)
	case *parse.WithNode:
		return firstToken(n.Pipe, n.List, n.ElseList)
	}
	return ""
}

func firstToken(pipe *parse.PipeNode, list, elseList *parse.ListNode) string {
	if tok := leftoverToken(pipe); tok != "" {
		return tok
	}
	if tok := leftoverToken(list); tok != "" {
		return tok
	}
	return leftoverToken(elseList)
}
