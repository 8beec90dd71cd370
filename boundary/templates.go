package boundary

import (
	"strings"

	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
)

const (
	DefaultInletU   = "(0 0 0)"
	DefaultInletT   = 290.
	DefaultOutletT  = 290.
	DefaultObjectT  = 308.
	DefaultWallT    = 300.
	DefaultSurfaceT = 300. // floor and ceiling
)

// AuxFields are regenerated from the templates below, in this order
var AuxFields = []string{"alphat", "epsilon", "omega", "k", "nut", "p", "p_rgh"}

func entry(key, value string) string {
	return foamdict.FormatEntry(key, value)
}

var (
	internalValue = entry("value", "$internalField")
	wallCoeffs    = []string{entry("Cmu", "0.09"), entry("kappa", "0.41"), entry("E", "9.8")}
)

type auxTemplate struct {
	inlet, object []string
}

// Field x role body table. Walls use the object row.
var auxTemplates = map[string]auxTemplate{
	"alphat": {
		inlet:  []string{entry("type", "calculated"), internalValue},
		object: []string{entry("type", "compressible::alphatWallFunction"), entry("Prt", "0.85"), internalValue},
	},
	"epsilon": {
		inlet:  []string{entry("type", "fixedValue"), internalValue},
		object: append(append([]string{entry("type", "epsilonWallFunction")}, wallCoeffs...), internalValue),
	},
	"omega": {
		inlet:  []string{entry("type", "fixedValue"), internalValue},
		object: []string{entry("type", "omegaWallFunction"), internalValue},
	},
	"k": {
		inlet:  []string{entry("type", "fixedValue"), internalValue},
		object: []string{entry("type", "kqRWallFunction"), internalValue},
	},
	"nut": {
		inlet:  []string{entry("type", "calculated"), internalValue},
		object: append(append([]string{entry("type", "nutkWallFunction")}, wallCoeffs...), internalValue),
	},
	"p": {
		inlet:  []string{entry("type", "calculated"), internalValue},
		object: []string{entry("type", "calculated"), internalValue},
	},
	"p_rgh": {
		inlet:  []string{entry("type", "fixedFluxPressure"), entry("gradient", "uniform 0"), internalValue},
		object: []string{entry("type", "fixedFluxPressure"), entry("gradient", "uniform 0"), internalValue},
	},
}

// AuxBody returns the template body of an auxiliary field for a patch role
func AuxBody(field string, role types.PatchRole) ([]string, bool) {
	tpl, ok := auxTemplates[field]
	if !ok {
		return nil, false
	}
	switch role {
	case types.Role_Inlet:
		return tpl.inlet, true
	case types.Role_Object, types.Role_Wall:
		return tpl.object, true
	}
	return nil, false
}

// TypeBodyForMode renders a thermal patch body. value is the temperature in K for
// fixed mode and the gradient in K/m for flux mode; driven ignores it.
func TypeBodyForMode(mode types.BoundaryMode, value float64) []string {
	switch mode {
	case types.Mode_Fixed:
		return []string{entry("type", "fixedValue"), entry("value", "uniform "+foamdict.FormatNumber(value))}
	case types.Mode_Flux:
		return []string{entry("type", "fixedGradient"), entry("gradient", "uniform "+foamdict.FormatNumber(value))}
	}
	return []string{entry("type", "zeroGradient")}
}

// DetectMode infers the thermal mode from a patch body's type line
func DetectMode(inner string) types.BoundaryMode {
	t := foamdict.ExtractType(inner)
	switch {
	case strings.Contains(t, "zeroGradient"):
		return types.Mode_Driven
	case strings.Contains(t, "fixedGradient"):
		return types.Mode_Flux
	case strings.Contains(t, "fixedValue"):
		return types.Mode_Fixed
	}
	if foamdict.ExtractUniformValue(inner) != "" {
		return types.Mode_Fixed
	}
	return types.Mode_Driven
}

func fixedValueBody(value string) []string {
	return []string{entry("type", "fixedValue"), entry("value", "uniform "+value)}
}

func inletOutletBody(value string) []string {
	return []string{entry("type", "inletOutlet"), entry("inletValue", "uniform "+value), entry("value", "uniform "+value)}
}

var noSlipBody = []string{entry("type", "noSlip")}
