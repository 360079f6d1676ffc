package parser

import (
	"strings"

	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/pkg/ast"
	"github.com/weavelang/weave/pkg/token"
)

// ParseScript splits a full weave script into header and body at the
// `---` separator and parses both. The split is textual: the source must
// contain exactly one `---`, and a second occurrence anywhere (including
// inside a string literal in the body) makes the script malformed.
func ParseScript(source string) (*ast.Script, error) {
	idx := strings.Index(source, "---")
	if idx < 0 {
		return nil, diag.Parse(token.Position{Line: 1, Column: 1}, "script is missing the '---' header separator")
	}
	headerText, bodyText := source[:idx], source[idx+len("---"):]
	if strings.Contains(bodyText, "---") {
		return nil, diag.Parse(token.Position{Line: 1, Column: 1}, "script contains more than one '---' separator")
	}
	header, err := parseHeader(headerText)
	if err != nil {
		return nil, err
	}
	body, err := ParseExpressionSource(bodyText)
	if err != nil {
		return nil, err
	}
	return &ast.Script{Header: *header, Body: body}, nil
}

// parseHeader scans the header text line by line: blank lines and line
// comments are skipped, a `/* ... */` block comment may
// span multiple lines, and each remaining line is one of `%dw <version>`,
// `output <format>`, `import <spec>`, or `var <name> = <expression>`.
// var right-hand sides may themselves span multiple physical lines; a
// declaration continues until the next line that starts a new directive,
// a blank line, or the end of the header.
func parseHeader(text string) (*ast.Header, error) {
	lines := splitLinesKeepPos(text)
	h := &ast.Header{}
	inBlockComment := false

	i := 0
	for i < len(lines) {
		raw := lines[i].text
		line := strings.TrimSpace(raw)

		if inBlockComment {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				inBlockComment = false
				line = strings.TrimSpace(line[idx+2:])
				if line == "" {
					i++
					continue
				}
			} else {
				i++
				continue
			}
		}

		if line == "" {
			i++
			continue
		}
		if strings.HasPrefix(line, "//") {
			i++
			continue
		}
		if strings.HasPrefix(line, "/*") {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				rest := strings.TrimSpace(line[idx+2:])
				if rest == "" {
					i++
					continue
				}
				line = rest
			} else {
				inBlockComment = true
				i++
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, "%dw"):
			h.Version = strings.TrimSpace(strings.TrimPrefix(line, "%dw"))
			i++
		case strings.HasPrefix(line, "output "):
			h.Output = strings.TrimSpace(strings.TrimPrefix(line, "output"))
			i++
		case strings.HasPrefix(line, "import "):
			h.Imports = append(h.Imports, strings.TrimSpace(strings.TrimPrefix(line, "import")))
			i++
		case strings.HasPrefix(line, "var "):
			decl, next, err := parseVarDecl(lines, i)
			if err != nil {
				return nil, err
			}
			h.Variables = append(h.Variables, decl)
			i = next
		default:
			return nil, diag.Parse(lines[i].pos, "unrecognized header directive: %q", line)
		}
	}
	if h.Version == "" {
		return nil, diag.Parse(token.Position{Line: 1, Column: 1}, "header is missing required '%%dw <version>' directive")
	}
	return h, nil
}

type headerLine struct {
	text string
	pos  token.Position
}

func splitLinesKeepPos(text string) []headerLine {
	rawLines := strings.Split(text, "\n")
	out := make([]headerLine, len(rawLines))
	for i, l := range rawLines {
		out[i] = headerLine{text: l, pos: token.Position{Line: i + 1, Column: 1}}
	}
	return out
}

// parseVarDecl parses `var name = expr`, where expr may continue onto
// following physical lines up to (but not including) the next line that
// begins a new header directive or is blank. It returns the index of the
// first unconsumed line.
func parseVarDecl(lines []headerLine, start int) (ast.VarDeclaration, int, error) {
	first := strings.TrimSpace(lines[start].text)
	rest := strings.TrimSpace(strings.TrimPrefix(first, "var"))
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return ast.VarDeclaration{}, 0, diag.Parse(lines[start].pos, "malformed var declaration: %q", first)
	}
	name := strings.TrimSpace(rest[:eq])
	if name == "" {
		return ast.VarDeclaration{}, 0, diag.Parse(lines[start].pos, "var declaration is missing a name")
	}
	var exprLines []string
	exprLines = append(exprLines, rest[eq+1:])

	j := start + 1
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j].text)
		if trimmed == "" || startsNewDirective(trimmed) {
			break
		}
		exprLines = append(exprLines, lines[j].text)
		j++
	}

	exprSource := strings.Join(exprLines, "\n")
	expr, err := ParseExpressionSource(exprSource)
	if err != nil {
		return ast.VarDeclaration{}, 0, err
	}
	return ast.VarDeclaration{Name: name, Expression: expr}, j, nil
}

func startsNewDirective(line string) bool {
	for _, kw := range []string{"%dw", "output ", "import ", "var ", "//", "/*"} {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
