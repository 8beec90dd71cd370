package mesh

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
)

// surface is one meshed STL with its refinement level
type surface struct {
	name  string
	level LevelPair
}

// surfaces lists the checked surfaces in dictionary order: single surfaces first,
// then the indexed groups.
func surfaces(c Checklist, n Counts, local LevelPair) (out []surface) {
	for _, role := range []types.PatchRole{types.Role_Ceiling, types.Role_Floor} {
		if c.Has(role) {
			out = append(out, surface{role.String(), LevelPair{0, 0}})
		}
	}
	groups := []struct {
		role  types.PatchRole
		level LevelPair
	}{
		{types.Role_Outlet, LevelPair{0, 1}},
		{types.Role_Inlet, LevelPair{0, 1}},
		{types.Role_Object, local},
		{types.Role_Wall, LevelPair{0, 0}},
	}
	for _, g := range groups {
		for i := 1; i <= n.Of(g.role); i++ {
			out = append(out, surface{types.NewPatchName(g.role, i), g.level})
		}
	}
	if c.Wind {
		out = append(out, surface{types.Role_Wind.String(), LevelPair{0, 0}})
	}
	return
}

func missing(section, file string) error {
	return fmt.Errorf("%w: could not find '%s { ... }' in %s", ErrMissingSection, section, file)
}

// replaceInner swaps a section's content for lines, one per row, keeping the closing
// brace at the indentation of the section keyword
func replaceInner(text string, sp foamdict.Span, lines []string) string {
	indent := keywordIndent(text, sp.Start)
	var sb strings.Builder
	sb.WriteString(text[:sp.Open+1])
	sb.WriteByte('\n')
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	sb.WriteString(text[sp.End-1:])
	return sb.String()
}

func keywordIndent(text string, pos int) string {
	line := text[strings.LastIndexByte(text[:pos], '\n')+1 : pos]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// castellated locates castellatedMeshControls and hands its content to edit
func castellated(text string, edit func(body string) (string, error)) (string, error) {
	cmc, ok := foamdict.FindKeyword(text, "castellatedMeshControls")
	if !ok {
		return text, missing("castellatedMeshControls", SnappyFile)
	}
	body, err := edit(text[cmc.Open+1 : cmc.End-1])
	if err != nil {
		return text, err
	}
	return text[:cmc.Open+1] + body + text[cmc.End-1:], nil
}

// RewriteGeometry replaces the geometry section and the refinementSurfaces of
// castellatedMeshControls with one entry per checked surface
func RewriteGeometry(text string, c Checklist, n Counts, local LevelPair) (string, error) {
	list := surfaces(c, n.For(c), local)

	geo, ok := foamdict.FindKeyword(text, "geometry")
	if !ok {
		return text, missing("geometry", SnappyFile)
	}
	lines := make([]string, 0, len(list))
	for _, s := range list {
		lines = append(lines, fmt.Sprintf("    %s.stl { type triSurfaceMesh; name %s; }", s.name, s.name))
	}
	text = replaceInner(text, geo, lines)

	return castellated(text, func(body string) (string, error) {
		rs, ok := foamdict.FindKeyword(body, "refinementSurfaces")
		if !ok {
			return body, missing("refinementSurfaces", SnappyFile)
		}
		lines := make([]string, 0, len(list))
		for _, s := range list {
			lines = append(lines, fmt.Sprintf("        %-16s{ level %s; }", s.name, s.level))
		}
		return replaceInner(body, rs, lines), nil
	})
}

var nCellsBetweenLevels = regexp.MustCompile(`\bnCellsBetweenLevels\b.*?;`)

// RewriteFeatures drops every features list in castellatedMeshControls and injects a
// fresh one after nCellsBetweenLevels, or at the end of the section
func RewriteFeatures(text string, c Checklist, n Counts, levels FeatureLevels) (string, error) {
	n = n.For(c)
	return castellated(text, func(body string) (string, error) {
		for {
			sp, ok := foamdict.FindList(body, "features")
			if !ok {
				break
			}
			end := sp.End
			if semi := skipSpace(body, end); semi < len(body) && body[semi] == ';' {
				end = semi + 1
			}
			body = strings.TrimRight(body[:sp.Start], " \t\r\n") + body[end:]
		}

		var sb strings.Builder
		sb.WriteString("\n    features\n    (\n")
		groups := []struct {
			role  types.PatchRole
			level int
		}{
			{types.Role_Inlet, levels.Inlet},
			{types.Role_Object, levels.Object},
			{types.Role_Wall, levels.Wall},
		}
		for _, g := range groups {
			for i := 1; i <= n.Of(g.role); i++ {
				fmt.Fprintf(&sb, "        { file \"%s.eMesh\"; level %d; }\n", types.NewPatchName(g.role, i), g.level)
			}
		}
		sb.WriteString("    );")

		if loc := nCellsBetweenLevels.FindStringIndex(body); loc != nil {
			return body[:loc[1]] + sb.String() + body[loc[1]:], nil
		}
		return strings.TrimRight(body, " \t\r\n") + sb.String() + "\n", nil
	})
}

func skipSpace(text string, i int) int {
	for i < len(text) && strings.IndexByte(" \t\r\n", text[i]) >= 0 {
		i++
	}
	return i
}

var locationPattern = regexp.MustCompile(`(\blocationInMesh\s*\()\s*[-+.\deE]+\s+[-+.\deE]+\s+[-+.\deE]+(\s*\)\s*;)`)

// replaceLocation rewrites the numbers of the first locationInMesh entry
func replaceLocation(text, vec string) (string, bool) {
	loc := locationPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, false
	}
	return text[:loc[3]] + vec + text[loc[4]:], true
}

// ReplaceLocationInMesh sets locationInMesh, preferring the entry inside
// castellatedMeshControls and inserting one at the end of that section when absent
func ReplaceLocationInMesh(text string, p [3]float64) string {
	vec := FormatCoord(p[0]) + " " + FormatCoord(p[1]) + " " + FormatCoord(p[2])
	out, err := castellated(text, func(body string) (string, error) {
		if b, ok := replaceLocation(body, vec); ok {
			return b, nil
		}
		return strings.TrimRight(body, " \t\r\n") + "\n    locationInMesh (" + vec + ");\n", nil
	})
	if err == nil {
		return out
	}
	if out, ok := replaceLocation(text, vec); ok {
		return out
	}
	return strings.TrimRight(text, " \t\r\n") + "\n\nlocationInMesh (" + vec + ");\n"
}

// InferChecklist reads which surfaces the geometry section already meshes. When it
// names none of them every surface is checked.
func InferChecklist(text string) Checklist {
	var body string
	if geo, ok := foamdict.FindKeyword(text, "geometry"); ok {
		body = geo.Inner(text)
	}
	present := func(names ...string) bool {
		for _, name := range names {
			q := regexp.QuoteMeta(name)
			if regexp.MustCompile(`\bname\s+`+q+`\s*;`).MatchString(body) ||
				regexp.MustCompile(`(?i)\b`+q+`\.stl`).MatchString(body) {
				return true
			}
		}
		return false
	}
	c := Checklist{
		Ceiling: present("ceiling"),
		Floor:   present("floor"),
		Inlet:   present("inlet_1", "inlet"),
		Object:  present("object_1", "object"),
		Outlet:  present("outlet_1", "outlet"),
		Wall:    present("wall_1", "wall"),
		Wind:    present("wind"),
	}
	if !c.Any() {
		return AllSurfaces
	}
	return c
}

// InferCounts reads the highest index per group from the geometry section
func InferCounts(text string) (n Counts) {
	geo, ok := foamdict.FindKeyword(text, "geometry")
	if !ok {
		return
	}
	body := geo.Inner(text)
	highest := func(role types.PatchRole) (top int) {
		re := regexp.MustCompile(`\b` + role.String() + `_(\d+)\.stl\b`)
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if i, err := strconv.Atoi(m[1]); err == nil {
				top = max(top, i)
			}
		}
		return
	}
	return Counts{
		Inlets:  highest(types.Role_Inlet),
		Objects: highest(types.Role_Object),
		Outlets: highest(types.Role_Outlet),
		Walls:   highest(types.Role_Wall),
	}
}

var (
	objectSurface = regexp.MustCompile(`\b(object_\d+)\s*\{`)
	levelPair     = regexp.MustCompile(`\blevel\s*\(\s*(\d+)\s+(\d+)\s*\)\s*;`)
)

// LocalResolutionFromSnappy maps the first object refinement level found in
// refinementSurfaces back to its local resolution preset
func LocalResolutionFromSnappy(text string) (string, bool) {
	rs, ok := foamdict.FindKeyword(text, "refinementSurfaces")
	if !ok {
		return "", false
	}
	body := rs.Inner(text)
	seen := map[string]bool{}
	for _, m := range objectSurface.FindAllStringSubmatch(body, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		b, ok := foamdict.GetBlock(body, m[1])
		if !ok {
			continue
		}
		lv := levelPair.FindStringSubmatch(b.Inner)
		if lv == nil {
			continue
		}
		lo, _ := strconv.Atoi(lv[1])
		hi, _ := strconv.Atoi(lv[2])
		for _, key := range LocalPresets {
			if LocalLevels[key] == (LevelPair{lo, hi}) {
				return key, true
			}
		}
		return "", false
	}
	return "", false
}
