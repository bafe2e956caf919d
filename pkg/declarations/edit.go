package declarations

import (
	"sort"
	"strings"

	"github.com/arthur-debert/modsync/pkg/rules"
)

// BuildLines generates the text lines declaring module name under rule.
// Without cfg conditions it is a single line; with conditions it is one
// attribute/declaration pair per condition, in condition order, so the
// same module can be conditionally declared for multiple targets.
func BuildLines(name string, rule rules.Rule) []string {
	decl := "mod " + name + ";"
	if rule.Visibility != rules.VisibilityPrivate {
		decl = "pub " + decl
	}
	if len(rule.Cfgs) == 0 {
		return []string{decl}
	}
	out := make([]string, 0, len(rule.Cfgs)*2)
	for _, cond := range rule.Cfgs {
		out = append(out, "#[cfg("+cond+")]", decl)
	}
	return out
}

// Insert splices newLines into content as the declaration block for
// name. It is a no-op when name is already declared anywhere in the
// file. The insertion point is after the last existing declaration;
// failing that, after the contiguous leading import block and any blank
// lines trailing it; failing that, after leading file-level doc
// comments and inner attributes. The original trailing-newline
// convention is preserved.
func Insert(content string, newLines []string, name string) string {
	lines, trailingNL := splitLines(content)
	decls := Parse(lines)
	for _, d := range decls {
		if d.Name == name {
			return content
		}
	}

	idx := insertionPoint(lines, decls)

	block := newLines
	if needsSeparator(lines, idx) {
		block = append([]string{""}, newLines...)
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:idx]...)
	out = append(out, block...)
	out = append(out, lines[idx:]...)

	if content == "" {
		// a file created from nothing still gets a final newline
		trailingNL = true
	}
	return joinLines(out, trailingNL)
}

// Remove deletes every declaration block named name, attribute lines
// included. Blocks are processed in reverse index order so earlier
// indices stay valid during removal. Same-name cfg-gated duplicates all
// go in one call. When a removal would leave two consecutive blank
// lines, or a trailing blank at end of file, the blank above the block
// is absorbed into the removal.
func Remove(content string, name string) string {
	lines, trailingNL := splitLines(content)
	decls := Parse(lines)
	for i := len(decls) - 1; i >= 0; i-- {
		d := decls[i]
		if d.Name != name {
			continue
		}
		start, end := d.StartLine, d.EndLine
		if start > 0 && isBlankLine(lines[start-1]) &&
			(end+1 == len(lines) || isBlankLine(lines[end+1])) {
			start--
		}
		lines = append(lines[:start], lines[end+1:]...)
	}
	return joinLines(lines, trailingNL)
}

// Sort regroups all declaration blocks alphabetically by name at the
// position of the first declaration, leaving surrounding code where it
// was. Fewer than two declarations is a no-op.
func Sort(lines []string) []string {
	decls := Parse(lines)
	if len(decls) < 2 {
		return lines
	}

	anchor := decls[0].StartLine

	remaining := make([]string, len(lines))
	copy(remaining, lines)
	for i := len(decls) - 1; i >= 0; i-- {
		d := decls[i]
		remaining = append(remaining[:d.StartLine], remaining[d.EndLine+1:]...)
	}

	sorted := make([]Declaration, len(decls))
	copy(sorted, decls)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var regrouped []string
	for _, d := range sorted {
		regrouped = append(regrouped, d.Block...)
	}

	out := make([]string, 0, len(remaining)+len(regrouped))
	out = append(out, remaining[:anchor]...)
	out = append(out, regrouped...)
	out = append(out, remaining[anchor:]...)
	return out
}

// insertionPoint picks the line index new declarations go before.
func insertionPoint(lines []string, decls []Declaration) int {
	if len(decls) > 0 {
		return decls[len(decls)-1].EndLine + 1
	}

	if end := importBlockEnd(lines); end >= 0 {
		idx := end + 1
		for idx < len(lines) && isBlankLine(lines[idx]) {
			idx++
		}
		return idx
	}

	idx := 0
	for idx < len(lines) && (isInnerDocLine(lines[idx]) || isInnerAttrLine(lines[idx])) {
		idx++
	}
	return idx
}

// importBlockEnd returns the index of the last line of the contiguous
// leading import block, or -1 when the file has none. Grouped imports
// spanning multiple lines are tracked with brace-depth counting so the
// whole group counts as one unit.
func importBlockEnd(lines []string) int {
	depth := 0
	inImport := false
	last := -1
	for i, line := range lines {
		code := strings.TrimSpace(stripLineComment(line))
		switch {
		case inImport:
			depth += strings.Count(code, "{") - strings.Count(code, "}")
			if depth <= 0 && strings.HasSuffix(code, ";") {
				inImport = false
			}
			last = i
		case isImportStart(code):
			depth = strings.Count(code, "{") - strings.Count(code, "}")
			inImport = depth > 0 || !strings.HasSuffix(code, ";")
			last = i
		case code == "" || isCommentLine(line) || isInnerAttrLine(line) || isAttrLine(line):
			// file header or gaps between imports, keep scanning
		default:
			return last
		}
	}
	return last
}

// isImportStart recognizes the first line of a use statement,
// re-exports included.
func isImportStart(code string) bool {
	code = strings.TrimPrefix(code, "pub ")
	return code == "use" || strings.HasPrefix(code, "use ") || strings.HasPrefix(code, "use\t")
}

// needsSeparator reports whether a blank line belongs before a block
// inserted at idx: the preceding line must be non-blank and not part of
// the import block.
func needsSeparator(lines []string, idx int) bool {
	if idx == 0 {
		return false
	}
	if isBlankLine(lines[idx-1]) {
		return false
	}
	if end := importBlockEnd(lines); end >= 0 && idx-1 <= end {
		return false
	}
	return true
}

// splitLines breaks content into lines, remembering whether the
// original ended with a newline so joinLines can restore it.
func splitLines(content string) (lines []string, trailingNL bool) {
	if content == "" {
		return nil, false
	}
	trailingNL = strings.HasSuffix(content, "\n")
	lines = strings.Split(content, "\n")
	if trailingNL {
		lines = lines[:len(lines)-1]
	}
	return lines, trailingNL
}

func joinLines(lines []string, trailingNL bool) string {
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, "\n")
	if trailingNL {
		s += "\n"
	}
	return s
}
