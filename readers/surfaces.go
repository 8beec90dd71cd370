package readers

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/mesh"
	"github.com/tensorhvac/hvaccase/types"
)

// TriSurfaceDir holds the case's surface files
const TriSurfaceDir = "constant/triSurface"

var (
	ErrNoSurfaces  = errors.New("no STL/OBJ files found in " + TriSurfaceDir)
	ErrNoBounds    = errors.New("failed to compute a valid bounding box from " + TriSurfaceDir)
	ErrUnsupported = errors.New("unsupported surface file extension")
	ErrNoTree      = errors.New("file accessor cannot list or read binary files")
)

var surfaceExt = regexp.MustCompile(`(?i)\.(stl|obj)$`)

// IsSurfaceFile reports whether name has an .stl or .obj extension
func IsSurfaceFile(name string) bool {
	return surfaceExt.MatchString(name)
}

// ReadSurfaceFile bounds a surface file, choosing the reader by extension
func ReadSurfaceFile(name string, data []byte) (r3.Box, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return ReadSTL(data)
	case ".obj":
		return ReadOBJ(data)
	}
	return r3.Box{}, fmt.Errorf("%s: %w", name, ErrUnsupported)
}

// SurfaceNames lists the surface files of the case in name order
func SurfaceNames(ctx *casefile.Context) ([]string, error) {
	tree, ok := ctx.Tree()
	if !ok {
		return nil, ErrNoTree
	}
	all, err := tree.ListDir(ctx.CaseRoot, TriSurfaceDir)
	if err != nil {
		if casefile.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, name := range all {
		if IsSurfaceFile(name) {
			names = append(names, name)
		}
	}
	return names, nil
}

func union(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y), Z: min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y), Z: max(a.Max.Z, b.Max.Z)},
	}
}

// BoundingBox is the union of the extents of every readable surface file. Files
// that cannot be read or parsed are logged and skipped.
func BoundingBox(ctx *casefile.Context) (r3.Box, error) {
	log := ctx.Logger()
	names, err := SurfaceNames(ctx)
	if err != nil {
		return r3.Box{}, err
	}
	if len(names) == 0 {
		return r3.Box{}, ErrNoSurfaces
	}
	tree, _ := ctx.Tree()
	var (
		box    r3.Box
		parsed int
	)
	for _, name := range names {
		data, err := tree.ReadFile(ctx.CaseRoot, TriSurfaceDir+"/"+name)
		if err != nil {
			log.Warn("failed reading surface", zap.String("name", name), zap.Error(err))
			continue
		}
		b, err := ReadSurfaceFile(name, data)
		if err != nil {
			log.Warn("could not parse surface", zap.String("name", name), zap.Error(err))
			continue
		}
		if parsed == 0 {
			box = b
		} else {
			box = union(box, b)
		}
		parsed++
	}
	if parsed == 0 {
		return r3.Box{}, ErrNoBounds
	}
	log.Debug("surface bounding box", zap.Int("files", parsed),
		zap.Float64s("min", []float64{box.Min.X, box.Min.Y, box.Min.Z}),
		zap.Float64s("max", []float64{box.Max.X, box.Max.Y, box.Max.Z}))
	return box, nil
}

var indexedSurface = regexp.MustCompile(`(?i)^(inlet|object|outlet|wall)_(\d+)\.(?:stl|obj)$`)

// DetectCounts takes the highest <role>_<n> index per indexed role from file names
func DetectCounts(names []string) (n mesh.Counts) {
	for _, name := range names {
		m := indexedSurface.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		i, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		switch types.NewPatchRole(strings.ToLower(m[1])) {
		case types.Role_Inlet:
			n.Inlets = max(n.Inlets, i)
		case types.Role_Object:
			n.Objects = max(n.Objects, i)
		case types.Role_Outlet:
			n.Outlets = max(n.Outlets, i)
		case types.Role_Wall:
			n.Walls = max(n.Walls, i)
		}
	}
	return
}

// MergeCounts raises configured counts to what the surface files show, never lowering them
func MergeCounts(configured, detected mesh.Counts) mesh.Counts {
	return mesh.Counts{
		Inlets:  max(configured.Inlets, detected.Inlets),
		Objects: max(configured.Objects, detected.Objects),
		Outlets: max(configured.Outlets, detected.Outlets),
		Walls:   max(configured.Walls, detected.Walls),
	}
}
