// Package foamdict locates and rewrites regions of OpenFOAM dictionary text without
// parsing the whole grammar. Everything outside the touched region is kept byte for byte.
package foamdict

import (
	"regexp"
	"strings"
)

type Delims struct {
	Open, Close byte
}

var (
	Braces = Delims{Open: '{', Close: '}'}
	Parens = Delims{Open: '(', Close: ')'}
)

// Span is a balanced region: Start is where the opener matched, Open the opening
// delimiter and End one past the matching close.
type Span struct {
	Start, Open, End int
}

func (s Span) Inner(text string) string {
	return text[s.Open+1 : s.End-1]
}

// FindBalanced scans from the first match of opener. Missing opener, missing delimiter
// and unterminated nesting all report ok == false.
func FindBalanced(text string, opener *regexp.Regexp, d Delims) (sp Span, ok bool) {
	loc := opener.FindStringIndex(text)
	if loc == nil {
		return
	}
	return balancedFrom(text, loc[0], d)
}

// FindFirstBalanced is FindBalanced over every opener match, returning the first one
// that closes.
func FindFirstBalanced(text string, opener *regexp.Regexp, d Delims) (sp Span, ok bool) {
	for _, loc := range opener.FindAllStringIndex(text, -1) {
		if sp, ok = balancedFrom(text, loc[0], d); ok {
			return
		}
	}
	return Span{}, false
}

func balancedFrom(text string, start int, d Delims) (sp Span, ok bool) {
	rel := strings.IndexByte(text[start:], d.Open)
	if rel < 0 {
		return
	}
	sp.Start, sp.Open = start, start+rel
	if sp.End, ok = ScanFrom(text, sp.Open, d); !ok {
		return Span{}, false
	}
	return
}

// ScanFrom returns one past the delimiter that closes the one at open.
func ScanFrom(text string, open int, d Delims) (end int, ok bool) {
	if open < 0 || open >= len(text) || text[open] != d.Open {
		return 0, false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case d.Open:
			depth++
		case d.Close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func keywordPattern(keyword string, d Delims) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\s*` + regexp.QuoteMeta(string(d.Open)))
}

// FindKeyword locates "keyword {" and its balanced body
func FindKeyword(text, keyword string) (Span, bool) {
	return FindBalanced(text, keywordPattern(keyword, Braces), Braces)
}

// FindList locates "keyword (" and its balanced list
func FindList(text, keyword string) (Span, bool) {
	return FindBalanced(text, keywordPattern(keyword, Parens), Parens)
}

// lineIndent is the leading blank run of the line holding pos
func lineIndent(text string, pos int) string {
	bol := strings.LastIndexByte(text[:pos], '\n') + 1
	i := bol
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[bol:i]
}
