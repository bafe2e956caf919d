package declarations

import (
	"strings"
)

// Declaration is one logical unit in an index file: a module
// declaration line plus the attribute lines that travel with it.
type Declaration struct {
	// Name is the declared module identifier
	Name string

	// Visibility is the qualifier token, "" for private modules
	Visibility string

	// Attrs are the recognized attribute lines immediately preceding
	// the declaration, in original order
	Attrs []string

	// Block is Attrs plus the declaration line
	Block []string

	// StartLine and EndLine delimit the block in the scanned lines,
	// both inclusive
	StartLine int
	EndLine   int
}

// Parse scans lines and returns every module declaration found, in file
// order. A line is a declaration when, with its trailing comment
// stripped, it reads as an optionally visibility-qualified `mod name;`.
// Declarations with an inline body are never external-file module
// references and are excluded. For each declaration the scan walks
// backward over immediately preceding blank, comment, and attribute
// lines, collecting the attribute lines into the block.
func Parse(lines []string) []Declaration {
	var decls []Declaration
	for i, line := range lines {
		name, vis, ok := parseDeclLine(line)
		if !ok {
			continue
		}

		start := i
		var attrs []string
	scan:
		for j := i - 1; j >= 0; j-- {
			switch {
			case isAttrLine(lines[j]):
				attrs = append([]string{lines[j]}, attrs...)
				start = j
			case isBlankLine(lines[j]), isCommentLine(lines[j]):
				// eligible, keep scanning upward
			default:
				break scan
			}
		}

		block := make([]string, 0, len(attrs)+1)
		block = append(block, attrs...)
		block = append(block, line)

		decls = append(decls, Declaration{
			Name:       name,
			Visibility: vis,
			Attrs:      attrs,
			Block:      block,
			StartLine:  start,
			EndLine:    i,
		})
	}
	return decls
}

// ExtractName pulls the module identifier out of a declaration line,
// tolerating a missing terminator. Returns "" when the line is not a
// declaration.
func ExtractName(line string) string {
	if name, _, ok := parseDeclLine(line); ok {
		return name
	}
	tokens := strings.Fields(stripLineComment(line))
	for i, tok := range tokens {
		if tok == "mod" && i+1 < len(tokens) {
			name := strings.TrimSuffix(tokens[i+1], ";")
			if isIdentifier(name) {
				return name
			}
		}
	}
	return ""
}

// parseDeclLine tokenizes a single line as a module declaration. The
// line must end with the statement terminator and carry no inline body.
func parseDeclLine(raw string) (name, visibility string, ok bool) {
	code := strings.TrimSpace(stripLineComment(raw))
	if !strings.HasSuffix(code, ";") {
		return "", "", false
	}
	if strings.ContainsAny(code, "{}") {
		return "", "", false
	}

	tokens := strings.Fields(strings.TrimSuffix(code, ";"))
	i := 0
	if i < len(tokens) && isVisibilityToken(tokens[i]) {
		visibility = tokens[i]
		i++
	}
	if i >= len(tokens) || tokens[i] != "mod" {
		return "", "", false
	}
	i++
	if len(tokens) != i+1 {
		return "", "", false
	}
	name = tokens[i]
	if !isIdentifier(name) {
		return "", "", false
	}
	return name, visibility, true
}

// isVisibilityToken recognizes `pub` and restricted forms like
// `pub(crate)` or `pub(super)`.
func isVisibilityToken(tok string) bool {
	if tok == "pub" {
		return true
	}
	return strings.HasPrefix(tok, "pub(") && strings.HasSuffix(tok, ")")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit {
			return false
		}
	}
	return true
}

// stripLineComment removes a trailing line comment, ignoring `//`
// sequences inside string literals.
func stripLineComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case '\\':
			if inString {
				i++
			}
		case '/':
			if !inString && i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

// isAttrLine recognizes outer attributes (`#[...]`). Inner attributes
// (`#![...]`) are file-level and never travel with a declaration.
func isAttrLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "#[") && strings.HasSuffix(t, "]")
}

func isInnerAttrLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#![")
}

func isInnerDocLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//!")
}
