package settings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tensorhvac/hvaccase/foamdict"
)

const ComfortFile = "system/FOcomfort"

// Comfort holds the entries of the comfort function object. Nil fields are
// unset: they take the existing file's value on merge and the default on build.
type Comfort struct {
	Clothing        *float64 `json:"clothing,omitempty"`
	MetabolicRate   *float64 `json:"metabolicRate,omitempty"`
	RelHumidity     *float64 `json:"relHumidity,omitempty"`
	PSat            *float64 `json:"pSat,omitempty"`
	ExtWork         *float64 `json:"extWork,omitempty"`
	Tolerance       *float64 `json:"tolerance,omitempty"`
	MaxClothIter    *float64 `json:"maxClothIter,omitempty"`
	MeanVelocity    *bool    `json:"meanVelocity,omitempty"`
	Region          string   `json:"region,omitempty"`
	Enabled         *bool    `json:"enabled,omitempty"`
	Log             *bool    `json:"log,omitempty"`
	TimeStart       *float64 `json:"timeStart,omitempty"`
	TimeEnd         *float64 `json:"timeEnd,omitempty"`
	ExecuteControl  string   `json:"executeControl,omitempty"`
	ExecuteInterval *float64 `json:"executeInterval,omitempty"`
	WriteControl    string   `json:"writeControl,omitempty"`
	WriteInterval   *float64 `json:"writeInterval,omitempty"`
}

func Float(f float64) *float64 { return &f }
func Bool(b bool) *bool       { return &b }

func entryValue(inner, key, pattern string) (string, bool) {
	re := regexp.MustCompile(`(?m)^\s*` + key + `\s+(` + pattern + `)\s*;`)
	m := re.FindStringSubmatch(inner)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func numberIn(inner, key string) *float64 {
	s, ok := entryValue(inner, key, `[+-]?\d*\.?\d+(?:[eE][+-]?\d+)?`)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func boolIn(inner, key string) *bool {
	s, ok := entryValue(inner, key, `true|false`)
	if !ok {
		return nil
	}
	return Bool(s == "true")
}

func wordIn(inner, key string) string {
	s, _ := entryValue(inner, key, `[A-Za-z0-9_+-]+`)
	return s
}

// ParseComfort reads the comfort { } block. A file without one gives the zero Comfort.
func ParseComfort(text string) (c Comfort) {
	sp, ok := foamdict.FindKeyword(text, "comfort")
	if !ok {
		return
	}
	t := sp.Inner(text)
	return Comfort{
		Clothing:        numberIn(t, "clothing"),
		MetabolicRate:   numberIn(t, "metabolicRate"),
		RelHumidity:     numberIn(t, "relHumidity"),
		PSat:            numberIn(t, "pSat"),
		ExtWork:         numberIn(t, "extWork"),
		Tolerance:       numberIn(t, "tolerance"),
		MaxClothIter:    numberIn(t, "maxClothIter"),
		MeanVelocity:    boolIn(t, "meanVelocity"),
		Region:          wordIn(t, "region"),
		Enabled:         boolIn(t, "enabled"),
		Log:             boolIn(t, "log"),
		TimeStart:       numberIn(t, "timeStart"),
		TimeEnd:         numberIn(t, "timeEnd"),
		ExecuteControl:  wordIn(t, "executeControl"),
		ExecuteInterval: numberIn(t, "executeInterval"),
		WriteControl:    wordIn(t, "writeControl"),
		WriteInterval:   numberIn(t, "writeInterval"),
	}
}

func pickF(a, b *float64) *float64 {
	if b != nil {
		return b
	}
	return a
}

func pickB(a, b *bool) *bool {
	if b != nil {
		return b
	}
	return a
}

func pickS(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

// Merge overlays the set fields of over onto c
func (c Comfort) Merge(over Comfort) Comfort {
	return Comfort{
		Clothing:        pickF(c.Clothing, over.Clothing),
		MetabolicRate:   pickF(c.MetabolicRate, over.MetabolicRate),
		RelHumidity:     pickF(c.RelHumidity, over.RelHumidity),
		PSat:            pickF(c.PSat, over.PSat),
		ExtWork:         pickF(c.ExtWork, over.ExtWork),
		Tolerance:       pickF(c.Tolerance, over.Tolerance),
		MaxClothIter:    pickF(c.MaxClothIter, over.MaxClothIter),
		MeanVelocity:    pickB(c.MeanVelocity, over.MeanVelocity),
		Region:          pickS(c.Region, over.Region),
		Enabled:         pickB(c.Enabled, over.Enabled),
		Log:             pickB(c.Log, over.Log),
		TimeStart:       pickF(c.TimeStart, over.TimeStart),
		TimeEnd:         pickF(c.TimeEnd, over.TimeEnd),
		ExecuteControl:  pickS(c.ExecuteControl, over.ExecuteControl),
		ExecuteInterval: pickF(c.ExecuteInterval, over.ExecuteInterval),
		WriteControl:    pickS(c.WriteControl, over.WriteControl),
		WriteInterval:   pickF(c.WriteInterval, over.WriteInterval),
	}
}

// ComfortDefaults are the values written for unset fields
var ComfortDefaults = Comfort{
	Clothing:        Float(0.5),
	MetabolicRate:   Float(1.2),
	RelHumidity:     Float(60),
	PSat:            Float(100714),
	ExtWork:         Float(0),
	Tolerance:       Float(1e-4),
	MaxClothIter:    Float(100),
	MeanVelocity:    Bool(false),
	Region:          "region0",
	Enabled:         Bool(true),
	Log:             Bool(true),
	TimeStart:       Float(0),
	TimeEnd:         Float(10000),
	ExecuteControl:  "writeTime",
	ExecuteInterval: Float(-1),
	WriteControl:    "writeTime",
	WriteInterval:   Float(-1),
}

const foamBanner = `/*--------------------------------*- C++ -*----------------------------------*\
| =========                 |                                                 |
| \\      /  F ield         | OpenFOAM: The Open Source CFD Toolbox           |
|  \\    /   O peration     | Version:  v2406                                 |
|   \\  /    A nd           | Website:  www.openfoam.com                      |
|    \\/     M anipulation  |                                                 |
\*---------------------------------------------------------------------------*/
`

const foamFooter = "// ************************************************************************* //\n"

// BuildComfort renders system/FOcomfort, filling unset fields from ComfortDefaults
func BuildComfort(c Comfort) string {
	v := ComfortDefaults.Merge(c)
	num := func(f *float64) string { return foamdict.FormatNumber(*f) }
	var sb strings.Builder
	line := func(key, value string) { fmt.Fprintf(&sb, "    %s\n", foamdict.FormatEntry(key, value)) }

	sb.WriteString(foamBanner + "\ncomfort\n{\n    // Mandatory entries\n")
	line("type", "comfort")
	line("libs", "(fieldFunctionObjects)")
	sb.WriteString("\n    // Optional entries\n")
	line("clothing", num(v.Clothing))
	line("metabolicRate", num(v.MetabolicRate))
	line("extWork", num(v.ExtWork))
	sb.WriteString("    // Trad            0.0;\n")
	line("relHumidity", num(v.RelHumidity))
	line("pSat", num(v.PSat))
	line("tolerance", num(v.Tolerance))
	line("maxClothIter", num(v.MaxClothIter))
	line("meanVelocity", strconv.FormatBool(*v.MeanVelocity))
	sb.WriteString("\n    // Inherited entries\n")
	line("region", v.Region)
	line("enabled", strconv.FormatBool(*v.Enabled))
	line("log", strconv.FormatBool(*v.Log))
	line("timeStart", num(v.TimeStart))
	line("timeEnd", num(v.TimeEnd))
	line("executeControl", v.ExecuteControl)
	line("executeInterval", num(v.ExecuteInterval))
	line("writeControl", v.WriteControl)
	line("writeInterval", num(v.WriteInterval))
	sb.WriteString("}\n\n\n" + foamFooter)
	return sb.String()
}
