package foamdict

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const keyWidth = 16

var (
	valueUniform      = regexp.MustCompile(`(?m)^[ \t]*value\s+uniform\s+([^;]+);`)
	gradientUniform   = regexp.MustCompile(`(?m)^[ \t]*gradient\s+uniform\s+([^;]+);`)
	inletValueUniform = regexp.MustCompile(`(?m)^[ \t]*inletValue\s+uniform\s+([^;]+);`)
	typeEntry         = regexp.MustCompile(`(?m)^([ \t]*)type\s+([A-Za-z0-9_:]+)\s*;`)
	valueRHS          = regexp.MustCompile(`(?m)^([ \t]*value\s+uniform\s+)[^;]+;`)
)

func firstGroup(re *regexp.Regexp, inner string) string {
	m := re.FindStringSubmatch(inner)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractUniformValue returns X of "value uniform X;" or ""
func ExtractUniformValue(inner string) string {
	return firstGroup(valueUniform, inner)
}

func ExtractUniformGradient(inner string) string {
	return firstGroup(gradientUniform, inner)
}

func ExtractInletValue(inner string) string {
	return firstGroup(inletValueUniform, inner)
}

func ExtractType(inner string) string {
	m := typeEntry.FindStringSubmatch(inner)
	if m == nil {
		return ""
	}
	return m[2]
}

// ReplaceUniformValue rewrites the right hand side of the patch's "value uniform" entry.
// Without one the entry goes right after the type line, or last in the body.
func ReplaceUniformValue(text, patch, value string) string {
	b, ok := GetBlock(text, patch)
	if !ok {
		return text
	}
	var (
		inner  = b.Inner
		entry  = FormatEntry("value", "uniform "+value)
		indent = lineIndent(text, b.Start)
	)
	switch {
	case valueRHS.MatchString(inner):
		loc := valueRHS.FindStringSubmatchIndex(inner)
		inner = inner[:loc[3]] + value + ";" + inner[loc[1]:]
	case typeEntry.MatchString(inner):
		loc := typeEntry.FindStringSubmatchIndex(inner)
		inner = inner[:loc[1]] + "\n" + inner[loc[2]:loc[3]] + entry + inner[loc[1]:]
	default:
		inner = strings.TrimRight(inner, " \t\r\n") + "\n" + indent + indentUnit + entry + "\n" + indent
	}
	return text[:b.Open+1] + inner + text[b.End-1:]
}

// FormatEntry pads the key to the usual sixteen columns: "type            fixedValue;"
func FormatEntry(key, value string) string {
	if len(key) >= keyWidth {
		return key + " " + value + ";"
	}
	return fmt.Sprintf("%-*s%s;", keyWidth, key, value)
}

// FormatNumber prints the shortest plain decimal for f
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func FormatVector(v [3]float64) string {
	return "(" + FormatNumber(v[0]) + " " + FormatNumber(v[1]) + " " + FormatNumber(v[2]) + ")"
}

// ParseVector reads "(x y z)". Missing or unparseable components are 0.
func ParseVector(s string) (v [3]float64) {
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(s))
	for i := 0; i < 3 && i < len(fields); i++ {
		if f, ok := parseFinite(fields[i]); ok {
			v[i] = f
		}
	}
	return
}

// ParseScalar reads the leading number of s
func ParseScalar(s string) (float64, bool) {
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(s))
	if len(fields) == 0 {
		return 0, false
	}
	return parseFinite(fields[0])
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
