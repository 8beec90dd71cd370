// Package boundary keeps the boundaryField patches of the 0/ field files in step
// with the requested patch groups and boundary values.
package boundary

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/tensorhvac/hvaccase/foamdict"
)

// BodyBuilder returns the body lines for patch <prefix>_<index>
type BodyBuilder func(index int) []string

// Group is one indexed patch group to be reconciled to Count members
type Group struct {
	Prefix    string
	Count     int
	Body      BodyBuilder
	Overwrite bool                  // replace existing bodies instead of leaving them alone
	Value     func(index int) string // optional "value uniform" rewrite after the upsert
}

type indexedName struct {
	name  string
	index int
}

func indexedPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)` + foamdict.NameBoundary + `(` + regexp.QuoteMeta(prefix) + `_(\d+))\s*\{`)
}

// indexedNames lists every distinct <prefix>_<digits> block name as spelled in text
func indexedNames(text, prefix string) (names []indexedName) {
	seen := make(map[string]bool)
	for _, m := range indexedPattern(prefix).FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		index, err := strconv.Atoi(m[2])
		if err != nil {
			index = -1
		}
		names = append(names, indexedName{name: m[1], index: index})
	}
	return
}

// ListIndexedPatches returns the distinct indices of <prefix>_<n> blocks, ascending
func ListIndexedPatches(text, prefix string) (indices []int) {
	seen := make(map[int]bool)
	for _, n := range indexedNames(text, prefix) {
		if n.index < 0 || seen[n.index] {
			continue
		}
		seen[n.index] = true
		indices = append(indices, n.index)
	}
	sort.Ints(indices)
	return
}

// MaxIndex is the highest index present for prefix, 0 when there is none
func MaxIndex(text, prefix string) int {
	indices := ListIndexedPatches(text, prefix)
	if len(indices) == 0 {
		return 0
	}
	return indices[len(indices)-1]
}

func PatchName(prefix string, index int) string {
	return prefix + "_" + strconv.Itoa(index)
}

// NormalizeLegacy migrates un-numbered patches: "inlet" becomes "inlet_1", or is
// dropped when "inlet_1" already exists.
func NormalizeLegacy(text string, prefixes ...string) string {
	for _, prefix := range prefixes {
		if !foamdict.HasBlock(text, prefix) {
			continue
		}
		first := PatchName(prefix, 1)
		if foamdict.HasBlock(text, first) {
			text = foamdict.RemoveBlock(text, prefix)
		} else {
			text = foamdict.RenameBlock(text, prefix, first)
		}
	}
	return text
}

// RemoveSurplus drops every <prefix>_<n> block that is not one of prefix_1..prefix_count.
// Zero and zero-padded spellings such as inlet_01 are always dropped.
func RemoveSurplus(text, prefix string, count int) string {
	for _, n := range indexedNames(text, prefix) {
		if n.index >= 1 && n.index <= count && n.name == PatchName(prefix, n.index) {
			continue
		}
		for foamdict.HasBlock(text, n.name) {
			text = foamdict.RemoveBlock(text, n.name)
		}
	}
	return text
}

// Reconcile makes the group's blocks exactly prefix_1..prefix_Count. Existing indices
// are never renumbered. Applying the same group twice changes nothing the second time.
func Reconcile(text string, g Group) string {
	text = RemoveSurplus(text, g.Prefix, g.Count)
	for i := 1; i <= g.Count; i++ {
		name := PatchName(g.Prefix, i)
		var body []string
		if g.Body != nil {
			body = g.Body(i)
		}
		if g.Overwrite {
			text = foamdict.SetBody(text, name, body)
		} else {
			text = foamdict.UpsertBody(text, name, body)
		}
		if g.Value != nil {
			text = foamdict.ReplaceUniformValue(text, name, g.Value(i))
		}
	}
	return text
}
