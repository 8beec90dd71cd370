package foamdict

import (
	"regexp"
	"strings"
)

const indentUnit = "    "

const boundaryFieldKey = "boundaryField"

// Block is a named brace block inside a dictionary
type Block struct {
	Name string
	Span
	Inner string
}

// NameBoundary is what may precede a block name: a line start, whitespace or the
// end of the previous entry. Patterns using it need the (?m) flag.
const NameBoundary = `(?:^|[\s{};])`

func namePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)` + NameBoundary + `(` + regexp.QuoteMeta(name) + `)\s*\{`)
}

// GetBlock finds the first "name {" after a NameBoundary, so that looking up
// inlet_1 never matches my_inlet_1.
func GetBlock(text, name string) (b Block, ok bool) {
	loc := namePattern(name).FindStringSubmatchIndex(text)
	if loc == nil {
		return
	}
	sp, ok := balancedFrom(text, loc[2], Braces)
	if !ok {
		return Block{}, false
	}
	return Block{Name: name, Span: sp, Inner: sp.Inner(text)}, true
}

func HasBlock(text, name string) bool {
	_, ok := GetBlock(text, name)
	return ok
}

// RemoveBlock drops the block and collapses the whitespace before it to one newline
func RemoveBlock(text, name string) string {
	b, ok := GetBlock(text, name)
	if !ok {
		return text
	}
	return strings.TrimRight(text[:b.Start], " \t\r\n") + "\n" + text[b.End:]
}

// SetBody replaces the inner content of the named block. A missing block is appended
// to the first balanced boundaryField, which is itself created at the end of the text
// when none exists.
func SetBody(text, name string, body []string) string {
	if b, ok := GetBlock(text, name); ok {
		indent := lineIndent(text, b.Start)
		return text[:b.Open+1] + "\n" + formatLines(body, indent+indentUnit) + indent + text[b.End-1:]
	}
	return appendToBoundaryField(text, name, body)
}

// UpsertBody is SetBody that leaves an existing block alone
func UpsertBody(text, name string, body []string) string {
	if HasBlock(text, name) {
		return text
	}
	return SetBody(text, name, body)
}

// RenameBlock rewrites the name token of an existing block in place
func RenameBlock(text, oldName, newName string) string {
	b, ok := GetBlock(text, oldName)
	if !ok {
		return text
	}
	return text[:b.Start] + newName + text[b.Start+len(oldName):]
}

// EnsureBlock appends an empty top level block when keyword has no balanced block
func EnsureBlock(text, keyword string) string {
	if _, ok := FindFirstBalanced(text, keywordPattern(keyword, Braces), Braces); ok {
		return text
	}
	return joinSections(text, keyword+"\n{\n}\n")
}

func appendToBoundaryField(text, name string, body []string) string {
	bf, ok := FindFirstBalanced(text, keywordPattern(boundaryFieldKey, Braces), Braces)
	if !ok {
		return joinSections(text, boundaryFieldKey+"\n{\n"+FormatBlock(name, body, indentUnit)+"}\n")
	}
	closing := bf.End - 1
	head := strings.TrimRight(text[:closing], " \t\r\n")
	sep := "\n\n"
	if strings.HasSuffix(head, "{") {
		sep = "\n"
	}
	return head + sep + FormatBlock(name, body, lineIndent(text, bf.Start)+indentUnit) + text[closing:]
}

// FormatBlock renders a block whose name and braces sit at indent, ending in a newline
func FormatBlock(name string, body []string, indent string) string {
	return indent + name + "\n" + indent + "{\n" + formatLines(body, indent+indentUnit) + indent + "}\n"
}

func formatLines(body []string, indent string) string {
	var sb strings.Builder
	for _, line := range body {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func joinSections(text, section string) string {
	head := strings.TrimRight(text, " \t\r\n")
	if head == "" {
		return section
	}
	return head + "\n\n" + section
}
