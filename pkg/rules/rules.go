package rules

import "strings"

// Visibility values for generated declarations
const (
	VisibilityPub     = "pub"
	VisibilityPrivate = "private"
)

// Sort modes for index files
const (
	SortAlpha = "alpha"
	SortNone  = "none"
)

// Rule describes how declarations are generated for a set of paths.
// Rules are grouped into an ordered list parsed from one rule file;
// order matters for tie-breaking (first match wins).
type Rule struct {
	Visibility string   // "pub" or "private"
	Sort       string   // "alpha" or "none"
	Fmt        bool     // run the formatter after writes
	Patterns   []string // matcher strings; empty means fallback rule
	Cfgs       []string // conditional-compilation conditions
}

// Default returns the documented default rule: public visibility, no
// sorting, formatter disabled.
func Default() Rule {
	return Rule{
		Visibility: VisibilityPub,
		Sort:       SortNone,
	}
}

// Parse parses rule file text into an ordered list of rules.
// Blocks are separated by blank lines and parsed independently, each
// starting from the default rule. Unknown keys are ignored and malformed
// values leave the field at its prior default; parsing never fails.
func Parse(text string) []Rule {
	var out []Rule
	for _, block := range splitBlocks(text) {
		out = append(out, parseBlock(block))
	}
	return out
}

// splitBlocks splits text into blocks on blank-line boundaries,
// dropping comment lines and empty blocks.
func splitBlocks(text string) [][]string {
	var blocks [][]string
	var current []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(lines []string) Rule {
	rule := Default()
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "visibility":
			if value == VisibilityPub || value == VisibilityPrivate {
				rule.Visibility = value
			}
		case "sort":
			if value == SortAlpha || value == SortNone {
				rule.Sort = value
			}
		case "fmt":
			switch value {
			case "enabled":
				rule.Fmt = true
			case "disabled":
				rule.Fmt = false
			}
		case "pattern":
			rule.Patterns = splitList(value)
		case "cfg":
			rule.Cfgs = SplitConditions(value)
		}
	}
	return rule
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty segments.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitConditions splits a comma-separated cfg value. The split is
// parenthesis-aware: a comma nested inside balanced parentheses does not
// split the value, so compound conditions like all(unix, feature="x")
// stay intact.
func SplitConditions(value string) []string {
	var out []string
	depth := 0
	start := 0
	flush := func(end int) {
		segment := strings.TrimSpace(value[start:end])
		if segment != "" {
			out = append(out, segment)
		}
	}
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(value))
	return out
}
