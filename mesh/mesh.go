package mesh

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tensorhvac/hvaccase/casefile"
)

// Report describes what an Apply wrote
type Report struct {
	Written        []string
	Delta          float64
	Cells          [3]int
	Location       [3]float64
	LocationSource string // "manual" or "auto-midpoint"
}

// Preset is the state a mesh editor starts from, inferred from snappyHexMeshDict
type Preset struct {
	Checklist       Checklist
	Counts          Counts
	LocalResolution string
}

// Load infers the checklist, counts and local resolution from the current
// snappyHexMeshDict. A missing dictionary yields every surface checked.
func Load(ctx *casefile.Context) (p Preset, err error) {
	text, err := ctx.Read(SnappyFile)
	if err != nil && !casefile.IsNotExist(err) {
		return p, fmt.Errorf("loading mesh settings: %w", err)
	}
	p.Checklist = InferChecklist(text)
	p.Counts = InferCounts(text)
	if key, ok := LocalResolutionFromSnappy(text); ok {
		p.LocalResolution = key
	} else {
		p.LocalResolution = "medium"
	}
	return p, nil
}

// ApplyToText rewrites the three dictionaries in memory
func ApplyToText(snappy, blockMesh, features string, s Settings, box r3.Box) (sn, bm, fe string, rep Report, err error) {
	if rep.Delta, err = s.GlobalDelta(); err != nil {
		return
	}
	if sn, err = RewriteGeometry(snappy, s.Checklist, s.Counts, s.LocalPair()); err != nil {
		return
	}
	if sn, err = RewriteFeatures(sn, s.Checklist, s.Counts, s.Levels()); err != nil {
		return
	}
	if bm, err = ReplaceVertices(blockMesh, box); err != nil {
		return
	}
	rep.Cells = CellCounts(box, rep.Delta)
	if bm, err = ReplaceCellCounts(bm, rep.Cells); err != nil {
		return
	}
	if s.Location != nil {
		rep.Location, rep.LocationSource = *s.Location, "manual"
	} else {
		mid := Midpoint(box)
		rep.Location, rep.LocationSource = [3]float64{mid.X, mid.Y, mid.Z}, "auto-midpoint"
	}
	sn = ReplaceLocationInMesh(sn, rep.Location)
	fe = UpsertFeatureExtract(features, s.Checklist, s.Counts, s.Angle())
	return
}

// Apply rewrites surfaceFeatureExtractDict, blockMeshDict and snappyHexMeshDict in
// that order. Every edit is computed before the first write, so a missing section
// leaves the case untouched. Written lists the files written before any I/O error.
func Apply(ctx *casefile.Context, s Settings, box r3.Box) (rep Report, err error) {
	log := ctx.Logger()
	snappy, err := ctx.Read(SnappyFile)
	if err != nil {
		return rep, fmt.Errorf("applying mesh settings: %w", err)
	}
	blockMesh, err := ctx.Read(BlockMeshFile)
	if err != nil {
		return rep, fmt.Errorf("applying mesh settings: %w", err)
	}
	features, err := ctx.Read(FeatureExtractFile)
	if err != nil {
		if !casefile.IsNotExist(err) {
			return rep, fmt.Errorf("applying mesh settings: %w", err)
		}
		log.Info("creating surface feature extraction dictionary", zap.String("path", FeatureExtractFile))
		features = DefaultFeatureExtract
	}

	sn, bm, fe, rep, err := ApplyToText(snappy, blockMesh, features, s, box)
	if err != nil {
		return rep, err
	}
	for _, f := range []struct{ rel, text string }{
		{FeatureExtractFile, fe},
		{BlockMeshFile, bm},
		{SnappyFile, sn},
	} {
		if err = ctx.Write(f.rel, f.text); err != nil {
			return rep, err
		}
		rep.Written = append(rep.Written, f.rel)
	}
	log.Info("applied mesh settings",
		zap.Float64("delta", rep.Delta),
		zap.Ints("cells", rep.Cells[:]),
		zap.Float64s("locationInMesh", rep.Location[:]),
		zap.String("source", rep.LocationSource),
		zap.Strings("written", rep.Written))
	return rep, nil
}
