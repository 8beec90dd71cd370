// Package settings edits the case-wide dictionaries: the initial temperature, gravity
// and the comfort function object on the general side, and the run control and
// domain decomposition on the solver side.
package settings

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tensorhvac/hvaccase/boundary"
	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/units"
)

const GravityFile = "constant/g"

// GravityDirections are the usual gravity vectors, keyed by the axis they point down
var GravityDirections = map[string]string{
	"-z": "0 0 -9.81",
	"-y": "0 -9.81 0",
	"-x": "-9.81 0 0",
}

var internalUniform = regexp.MustCompile(`(?m)^[ \t]*internalField\s+uniform\s+([^;]+);`)

// ExtractInternalField returns X of "internalField uniform X;" or ""
func ExtractInternalField(text string) string {
	m := internalUniform.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ReplaceInternalField sets "internalField uniform value;", inserting it before
// boundaryField when the file has none
func ReplaceInternalField(text, value string) string {
	return foamdict.SetEntry(text, "internalField", "uniform "+value, "boundaryField")
}

var gravityValue = regexp.MustCompile(`value\s+\(?\s*([-0-9.eE+\s]+?)\s*\)?\s*;`)

// ParseGravity returns the components of constant/g's value, single spaced
func ParseGravity(text string) (string, bool) {
	m := gravityValue.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.Join(strings.Fields(m[1]), " "), true
}

// BuildGravity renders constant/g for a vector given as "x y z" or "(x y z)"
func BuildGravity(vec string) string {
	g := strings.Trim(foamdict.FormatVector(foamdict.ParseVector(vec)), "()")
	return `FoamFile
{
    version     2.0;
    format      ascii;
    class       uniformDimensionedVectorField;
    object      g;
}

` + foamdict.FormatEntry("dimensions", "[0 1 -2 0 0 0 0]") + "\n" +
		foamdict.FormatEntry("value", "("+g+")") + "\n\n"
}

// General is the general settings page: initial temperature, gravity and comfort
type General struct {
	InitialT     string                `json:"initialT,omitempty"`
	InitialTUnit units.TemperatureUnit `json:"initialTUnit,omitempty"`
	Gravity      string                `json:"gravity,omitempty"`
	Comfort      Comfort               `json:"comfort"`
}

// LoadGeneral reads the current values. Gravity and comfort are optional files.
func LoadGeneral(ctx *casefile.Context) (g General, err error) {
	t, err := ctx.Read(boundary.TemperatureFile)
	if err != nil {
		return g, fmt.Errorf("loading general settings: %w", err)
	}
	g.InitialT, g.InitialTUnit = ExtractInternalField(t), units.Kelvin

	if text, err := ctx.Read(GravityFile); err == nil {
		g.Gravity, _ = ParseGravity(text)
	} else if !casefile.IsNotExist(err) {
		return g, fmt.Errorf("loading general settings: %w", err)
	}
	if text, err := ctx.Read(ComfortFile); err == nil {
		g.Comfort = ParseComfort(text)
	} else if !casefile.IsNotExist(err) {
		return g, fmt.Errorf("loading general settings: %w", err)
	}
	return g, nil
}

// ApplyGeneral writes 0/T (only when an initial temperature is given), constant/g
// (only when a gravity vector is given) and system/FOcomfort, in that order. Comfort
// values present in the existing file are kept unless g overrides them.
func ApplyGeneral(ctx *casefile.Context, g General) (written []string, err error) {
	log := ctx.Logger()
	if k, ok := units.ParseTemperature(g.InitialT, g.InitialTUnit); ok {
		var t string
		if t, err = ctx.Read(boundary.TemperatureFile); err != nil {
			return written, err
		}
		if err = ctx.Write(boundary.TemperatureFile, ReplaceInternalField(t, foamdict.FormatNumber(k))); err != nil {
			return written, err
		}
		written = append(written, boundary.TemperatureFile)
	}
	if strings.TrimSpace(g.Gravity) != "" {
		if err = ctx.Write(GravityFile, BuildGravity(g.Gravity)); err != nil {
			return written, err
		}
		written = append(written, GravityFile)
	}

	var existing Comfort
	switch text, rerr := ctx.Read(ComfortFile); {
	case rerr == nil:
		existing = ParseComfort(text)
	case !casefile.IsNotExist(rerr):
		return written, rerr
	}
	if err = ctx.Write(ComfortFile, BuildComfort(existing.Merge(g.Comfort))); err != nil {
		return written, err
	}
	written = append(written, ComfortFile)
	log.Info("applied general settings", zap.Strings("written", written))
	return written, nil
}
