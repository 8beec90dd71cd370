package boundary

import (
	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
	"github.com/tensorhvac/hvaccase/units"
)

// FlowSpec is one inlet or outlet row as entered: U is "(x y z)" in UUnit, T in TUnit.
// Blank values fall back to (0 0 0) and 290 K.
type FlowSpec struct {
	U     string                `json:"U,omitempty"`
	UUnit units.VelocityUnit    `json:"UUnit,omitempty"`
	T     string                `json:"T,omitempty"`
	TUnit units.TemperatureUnit `json:"TUnit,omitempty"`
}

// ThermalSpec is one object, wall, floor or ceiling row
type ThermalSpec struct {
	Mode     types.BoundaryMode    `json:"Mode"`
	T        string                `json:"T,omitempty"`
	TUnit    units.TemperatureUnit `json:"TUnit,omitempty"`
	Gradient string                `json:"Gradient,omitempty"` // K/m, any sign
}

type WindSpec struct {
	Enabled bool                  `json:"Enabled"`
	U       [3]float64            `json:"U"` // m/s
	T       string                `json:"T,omitempty"`
	TUnit   units.TemperatureUnit `json:"TUnit,omitempty"`
}

// BoundaryConfig is the complete boundary condition set applied in one save. A nil
// Floor or Ceiling leaves that patch as it is.
type BoundaryConfig struct {
	Inlets  []FlowSpec    `json:"Inlets,omitempty"`
	Outlets []FlowSpec    `json:"Outlets,omitempty"`
	Objects []ThermalSpec `json:"Objects,omitempty"`
	Walls   []ThermalSpec `json:"Walls,omitempty"`
	Floor   *ThermalSpec  `json:"Floor,omitempty"`
	Ceiling *ThermalSpec  `json:"Ceiling,omitempty"`
	Wind    WindSpec      `json:"Wind"`
}

// Velocity returns the row's vector in m/s, formatted for the file
func (f FlowSpec) Velocity() string {
	if f.U == "" {
		return DefaultInletU
	}
	v := foamdict.ParseVector(f.U)
	for i := range v {
		v[i] = units.ToMetersPerSecond(v[i], f.UUnit)
	}
	return foamdict.FormatVector(v)
}

// Temperature returns the row's temperature in K, or fallback when blank or invalid
func (f FlowSpec) Temperature(fallback float64) string {
	k, ok := units.ParseTemperature(f.T, f.TUnit)
	if !ok {
		k = fallback
	}
	return foamdict.FormatNumber(k)
}

// Body renders the temperature patch body for the row's mode
func (s ThermalSpec) Body(defaultT float64) []string {
	var value float64
	switch s.Mode {
	case types.Mode_Fixed:
		var ok bool
		if value, ok = units.ParseTemperature(s.T, s.TUnit); !ok {
			value = defaultT
		}
	case types.Mode_Flux:
		value, _ = units.ParseNumber(s.Gradient)
	}
	return TypeBodyForMode(s.Mode, value)
}

func (w WindSpec) Velocity() string {
	return foamdict.FormatVector(w.U)
}

func (w WindSpec) Temperature() (string, bool) {
	k, ok := units.ParseTemperature(w.T, w.TUnit)
	if !ok {
		return "", false
	}
	return foamdict.FormatNumber(k), true
}
