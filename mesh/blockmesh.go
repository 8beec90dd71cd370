package mesh

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tensorhvac/hvaccase/foamdict"
)

// Expansion is the fraction of each extent added on both sides of the background box
const Expansion = 0.01

// FormatCoord prints integers as they are and everything else rounded to six decimals
func FormatCoord(v float64) string {
	return foamdict.FormatNumber(scalar.Round(v, 6))
}

// Expand grows the box by frac of its extent along each axis
func Expand(box r3.Box, frac float64) r3.Box {
	d := r3.Scale(frac, r3.Sub(box.Max, box.Min))
	return r3.Box{Min: r3.Sub(box.Min, d), Max: r3.Add(box.Max, d)}
}

// Midpoint is the centre of the box
func Midpoint(box r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(box.Min, box.Max))
}

func corner(x, y, z float64) string {
	return "    (" + FormatCoord(x) + " " + FormatCoord(y) + " " + FormatCoord(z) + ")"
}

// VerticesBlock renders the eight hex corners, bottom face then top face
func VerticesBlock(box r3.Box) string {
	b := Expand(box, Expansion)
	face := func(z float64) []string {
		return []string{
			corner(b.Min.X, b.Min.Y, z),
			corner(b.Max.X, b.Min.Y, z),
			corner(b.Max.X, b.Max.Y, z),
			corner(b.Min.X, b.Max.Y, z),
		}
	}
	lines := append([]string{"vertices", "("}, face(b.Min.Z)...)
	lines = append(append(lines, ""), face(b.Max.Z)...)
	return strings.Join(append(lines, ");"), "\n")
}

var verticesKeyword = regexp.MustCompile(`\bvertices\b`)

// ReplaceVertices swaps the vertices list, keyword through its closing ");", for
// the corners of the expanded box
func ReplaceVertices(text string, box r3.Box) (string, error) {
	loc := verticesKeyword.FindStringIndex(text)
	if loc == nil {
		return text, fmt.Errorf("%w: no 'vertices' keyword in %s", ErrMissingSection, BlockMeshFile)
	}
	open := strings.IndexByte(text[loc[0]:], '(')
	if open < 0 {
		return text, fmt.Errorf("%w: malformed vertices in %s, missing '('", ErrMissingSection, BlockMeshFile)
	}
	end, ok := foamdict.ScanFrom(text, loc[0]+open, foamdict.Parens)
	if !ok {
		return text, fmt.Errorf("%w: malformed vertices in %s, unterminated ')'", ErrMissingSection, BlockMeshFile)
	}
	if semi := skipSpace(text, end); semi < len(text) && text[semi] == ';' {
		end = semi + 1
	}
	return text[:loc[0]] + VerticesBlock(box) + text[end:], nil
}

// CellCounts divides each extent of the box by delta, with at least one cell per axis
func CellCounts(box r3.Box, delta float64) (n [3]int) {
	size := r3.Sub(box.Max, box.Min)
	for i, extent := range []float64{size.X, size.Y, size.Z} {
		n[i] = max(1, int(math.Round(math.Abs(extent)/delta)))
	}
	return
}

var hexCells = regexp.MustCompile(`(blocks[\s\S]*?hex\s*\(\s*(?:\d+\s+){7}\d+\s*\)\s*)\(\s*\d+\s+\d+\s+\d+\s*\)`)

// ReplaceCellCounts rewrites the cell counts of the first hex block
func ReplaceCellCounts(text string, n [3]int) (string, error) {
	loc := hexCells.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, fmt.Errorf("%w: could not find cell counts in %s", ErrMissingSection, BlockMeshFile)
	}
	return text[:loc[3]] + fmt.Sprintf("(%d %d %d)", n[0], n[1], n[2]) + text[loc[1]:], nil
}
