package mesh

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
)

// DefaultFeatureExtract is used when the case has no surfaceFeatureExtractDict yet
const DefaultFeatureExtract = `FoamFile
{
    version     2.0;
    format      ascii;
    class       dictionary;
    object      surfaceFeatureExtractDict;
}
`

// featureEntry locates "name.stl { ... }" starting at the beginning of its line
func featureEntry(text, name string) (start, end int, ok bool) {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(name) + `\.stl\s*\{`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return
	}
	end, ok = foamdict.ScanFrom(text, loc[1]-1, foamdict.Braces)
	return loc[0], end, ok
}

func featureEntries(text string, role types.PatchRole) (indices []int) {
	re := regexp.MustCompile(`(?m)^\s*` + role.String() + `_(\d+)\.stl\s*\{`)
	seen := map[int]bool{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		i, err := strconv.Atoi(m[1])
		if err != nil || seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return
}

func featureBlock(name string, angle float64) string {
	return name + ".stl\n{\n" +
		"    " + foamdict.FormatEntry("extractionMethod", "extractFromSurface") + "\n" +
		"    " + foamdict.FormatEntry("includedAngle", foamdict.FormatNumber(angle)) + "\n" +
		"}"
}

// SetFeatureEntry replaces the entry for name or appends a new one
func SetFeatureEntry(text, name string, angle float64) string {
	block := featureBlock(name, angle)
	if start, end, ok := featureEntry(text, name); ok {
		return text[:start] + block + text[end:]
	}
	return strings.TrimRight(text, " \t\r\n") + "\n\n" + block + "\n"
}

// RemoveFeatureEntry drops the entry for name and closes the gap to one blank line
func RemoveFeatureEntry(text, name string) string {
	start, end, ok := featureEntry(text, name)
	if !ok {
		return text
	}
	head := strings.TrimRight(text[:start], " \t\r\n")
	tail := strings.TrimLeft(text[end:], " \t\r\n")
	switch {
	case tail == "":
		return head + "\n"
	case head == "":
		return tail
	}
	return head + "\n\n" + tail
}

// UpsertFeatureExtract writes one extraction entry per meshed surface of the indexed
// groups. Unchecked groups lose every entry, indexed or not, and checked groups lose
// the indices above their count.
func UpsertFeatureExtract(text string, c Checklist, n Counts, angle float64) string {
	if strings.TrimSpace(text) == "" {
		text = DefaultFeatureExtract
	}
	n = n.For(c)
	roles := []types.PatchRole{types.Role_Inlet, types.Role_Object, types.Role_Wall, types.Role_Outlet}
	existing := make(map[types.PatchRole][]int, len(roles))
	for _, role := range roles {
		existing[role] = featureEntries(text, role)
	}
	for _, role := range roles {
		for i := 1; i <= n.Of(role); i++ {
			text = SetFeatureEntry(text, types.NewPatchName(role, i), angle)
		}
	}
	for _, role := range roles {
		if !c.Has(role) {
			for _, i := range existing[role] {
				text = RemoveFeatureEntry(text, types.NewPatchName(role, i))
			}
			text = RemoveFeatureEntry(text, role.String())
			text = purgeFeatureEntries(text, role)
			continue
		}
		for _, i := range existing[role] {
			if i > n.Of(role) {
				text = RemoveFeatureEntry(text, types.NewPatchName(role, i))
			}
		}
	}
	return text
}

// purgeFeatureEntries drops any <role>_<n>.stl entry left behind by hand edits
func purgeFeatureEntries(text string, role types.PatchRole) string {
	re := regexp.MustCompile(`(?m)^[ \t]*(` + role.String() + `_\d+)\.stl\s*\{`)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		for {
			out := RemoveFeatureEntry(text, m[1])
			if out == text {
				break
			}
			text = out
		}
	}
	return text
}
