// Package mesh rewrites the meshing dictionaries of a case: the snappyHexMeshDict
// geometry and refinement sections, the surfaceFeatureExtractDict entries and the
// background blockMeshDict.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/tensorhvac/hvaccase/types"
)

const (
	SnappyFile         = "system/snappyHexMeshDict"
	BlockMeshFile      = "system/blockMeshDict"
	FeatureExtractFile = "system/surfaceFeatureExtractDict"
)

const DefaultIncludedAngle = 150.

var (
	ErrMissingSection = errors.New("missing dictionary section")
	ErrInvalidDelta   = errors.New("manual cell size must be a positive number")
)

// Checklist marks which surfaces take part in meshing
type Checklist struct {
	Ceiling bool `json:"ceiling"`
	Floor   bool `json:"floor"`
	Inlet   bool `json:"inlet"`
	Object  bool `json:"object"`
	Outlet  bool `json:"outlet"`
	Wall    bool `json:"wall"`
	Wind    bool `json:"wind"`
}

// AllSurfaces is the checklist used when nothing can be inferred
var AllSurfaces = Checklist{true, true, true, true, true, true, true}

func (c Checklist) Has(role types.PatchRole) bool {
	switch role {
	case types.Role_Ceiling:
		return c.Ceiling
	case types.Role_Floor:
		return c.Floor
	case types.Role_Inlet:
		return c.Inlet
	case types.Role_Object:
		return c.Object
	case types.Role_Outlet:
		return c.Outlet
	case types.Role_Wall:
		return c.Wall
	case types.Role_Wind:
		return c.Wind
	}
	return false
}

func (c Checklist) Any() bool {
	return c.Ceiling || c.Floor || c.Inlet || c.Object || c.Outlet || c.Wall || c.Wind
}

// Counts is the number of surfaces per indexed role
type Counts struct {
	Inlets  int `json:"inlets"`
	Objects int `json:"objects"`
	Outlets int `json:"outlets"`
	Walls   int `json:"walls"`
}

func (n Counts) Of(role types.PatchRole) int {
	switch role {
	case types.Role_Inlet:
		return n.Inlets
	case types.Role_Object:
		return n.Objects
	case types.Role_Outlet:
		return n.Outlets
	case types.Role_Wall:
		return n.Walls
	}
	return 0
}

// For returns the counts actually meshed: a checked group has at least one surface,
// an unchecked group has none.
func (n Counts) For(c Checklist) Counts {
	pick := func(on bool, v int) int {
		if !on {
			return 0
		}
		return max(v, 1)
	}
	return Counts{
		Inlets:  pick(c.Inlet, n.Inlets),
		Objects: pick(c.Object, n.Objects),
		Outlets: pick(c.Outlet, n.Outlets),
		Walls:   pick(c.Wall, n.Walls),
	}
}

// LevelPair is a snappyHexMesh refinement level (min max)
type LevelPair [2]int

func (l LevelPair) String() string {
	return fmt.Sprintf("(%d %d)", l[0], l[1])
}

// LocalLevels maps the local resolution presets to object refinement levels
var LocalLevels = map[string]LevelPair{
	"coarse": {1, 2},
	"medium": {2, 3},
	"fine":   {3, 4},
}

// LocalPresets is LocalLevels' keys in display order
var LocalPresets = []string{"coarse", "medium", "fine"}

// FeatureLevels are the edge refinement levels of the feature list
type FeatureLevels struct {
	Inlet  int `json:"inlet"`
	Object int `json:"object"`
	Wall   int `json:"wall"`
}

var DefaultFeatureLevels = FeatureLevels{Inlet: 2, Object: 2, Wall: 1}

// Settings is everything one mesh apply needs besides the geometry bounding box
type Settings struct {
	Checklist        Checklist      `json:"checklist"`
	Counts           Counts         `json:"counts"`
	GlobalResolution string         `json:"globalResolution"` // coarse, medium, fine or manual
	Delta            float64        `json:"delta,omitempty"`  // manual cell size
	LocalResolution  string         `json:"localResolution"`
	Location         *[3]float64    `json:"location,omitempty"` // nil places it at the box midpoint
	IncludedAngle    float64        `json:"includedAngle,omitempty"`
	FeatureLevels    *FeatureLevels `json:"featureLevels,omitempty"`
}

// DeltaFromPreset is the background cell size of a global resolution preset
func DeltaFromPreset(key string) float64 {
	switch key {
	case "coarse":
		return 0.4
	case "fine":
		return 0.1
	}
	return 0.2
}

// GlobalDelta resolves the background cell size
func (s Settings) GlobalDelta() (float64, error) {
	if s.GlobalResolution != "manual" {
		return DeltaFromPreset(s.GlobalResolution), nil
	}
	if math.IsNaN(s.Delta) || math.IsInf(s.Delta, 0) || s.Delta <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDelta, s.Delta)
	}
	return s.Delta, nil
}

// LocalPair resolves the object refinement levels, medium when the key is unknown
func (s Settings) LocalPair() LevelPair {
	if l, ok := LocalLevels[s.LocalResolution]; ok {
		return l
	}
	return LocalLevels["medium"]
}

func (s Settings) Angle() float64 {
	if s.IncludedAngle <= 0 {
		return DefaultIncludedAngle
	}
	return s.IncludedAngle
}

func (s Settings) Levels() FeatureLevels {
	if s.FeatureLevels == nil {
		return DefaultFeatureLevels
	}
	return *s.FeatureLevels
}
