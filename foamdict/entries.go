package foamdict

import (
	"regexp"
	"strings"
)

func entryPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(key) + `[ \t]+)([^;\n]*);`)
}

// GetEntry returns the value of the first "key value;" line, or ""
func GetEntry(text, key string) string {
	m := entryPattern(key).FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}

// SetEntry rewrites the first "key value;" line keeping its key padding. A missing
// entry is inserted on the line before the first anchor block found, or at the end.
func SetEntry(text, key, value string, anchors ...string) string {
	if loc := entryPattern(key).FindStringSubmatchIndex(text); loc != nil {
		return text[:loc[3]] + value + ";" + text[loc[1]:]
	}
	line := FormatEntry(key, value) + "\n"
	for _, anchor := range anchors {
		if sp, ok := FindKeyword(text, anchor); ok {
			bol := strings.LastIndexByte(text[:sp.Start], '\n') + 1
			return text[:bol] + line + "\n" + text[bol:]
		}
	}
	head := strings.TrimRight(text, " \t\r\n")
	if head == "" {
		return line
	}
	return head + "\n" + line
}

// ReplaceList swaps the content between the parentheses of "keyword ( ... )"
func ReplaceList(text, keyword, inner string) (string, bool) {
	sp, ok := FindList(text, keyword)
	if !ok {
		return text, false
	}
	return text[:sp.Open+1] + inner + text[sp.End-1:], true
}
