package readers

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/mesh"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeName replaces every character OpenFOAM would choke on with '_'
func SanitizeName(name string) string {
	return unsafeName.ReplaceAllString(filepath.Base(name), "_")
}

var facetNormal = regexp.MustCompile(`(?i)facet\s+normal`)

// IsASCIISTL is true when the head of data reads like an ascii solid with facets
func IsASCIISTL(data []byte) bool {
	head := data[:min(len(data), 2048)]
	return looksSolid(head) && facetNormal.Match(head)
}

func vec3(v [3]float32) string {
	return mesh.FormatCoord(float64(v[0])) + " " + mesh.FormatCoord(float64(v[1])) + " " + mesh.FormatCoord(float64(v[2]))
}

// ToASCIISTL re-encodes a binary STL as an ascii solid named solid
func ToASCIISTL(data []byte, solid string) (string, error) {
	facets, err := ReadBinaryFacets(data)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "solid %s\n", solid)
	for _, f := range facets {
		fmt.Fprintf(&sb, "  facet normal %s\n    outer loop\n", vec3(f.Normal))
		for _, v := range f.Vertices {
			fmt.Fprintf(&sb, "      vertex %s\n", vec3(v))
		}
		sb.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&sb, "endsolid %s", solid)
	return sb.String(), nil
}

// Import copies one surface file into constant/triSurface under a sanitized name.
// Binary STLs are stored as ascii so every reader in the tool chain accepts them.
func Import(ctx *casefile.Context, name string, data []byte) (rel string, err error) {
	if !IsSurfaceFile(name) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	clean := SanitizeName(name)
	rel = TriSurfaceDir + "/" + clean
	text := string(data)
	if strings.EqualFold(filepath.Ext(clean), ".stl") && !IsASCIISTL(data) {
		solid := strings.TrimSuffix(clean, filepath.Ext(clean))
		if text, err = ToASCIISTL(data, solid); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
	}
	if err = ctx.Write(rel, text); err != nil {
		return "", err
	}
	ctx.Logger().Info("imported surface", zap.String("from", name), zap.String("path", rel),
		zap.Bool("converted", text != string(data)))
	return rel, nil
}

// Clear removes every surface file from constant/triSurface and returns how many
// went. Files that cannot be removed are logged and left.
func Clear(ctx *casefile.Context) (n int, err error) {
	names, err := SurfaceNames(ctx)
	if err != nil {
		return 0, err
	}
	tree, _ := ctx.Tree()
	for _, name := range names {
		if err := tree.Remove(ctx.CaseRoot, TriSurfaceDir+"/"+name); err != nil {
			ctx.Logger().Warn("failed removing surface", zap.String("name", name), zap.Error(err))
			continue
		}
		n++
	}
	ctx.Logger().Info("cleared surfaces", zap.Int("removed", n))
	return n, nil
}
