// Package units converts between the units an editor offers and the SI units
// that are always stored in the case files (Kelvin, m/s).
package units

import (
	"math"
	"strconv"
	"strings"
)

type TemperatureUnit string

const (
	Kelvin     TemperatureUnit = "K"
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

type VelocityUnit string

const (
	MetersPerSecond VelocityUnit = "m/s"
	FeetPerMinute   VelocityUnit = "ft/min"
	FeetPerSecond   VelocityUnit = "ft/s"
	KilometersPerHr VelocityUnit = "km/h"
	MilesPerHour    VelocityUnit = "mph"
)

const (
	zeroCelsius   = 273.15
	ftMinToMs     = 0.00508
	ftSecToMs     = 0.3048
	kmhPerMs      = 3.6
	mphToMs       = 0.44704
	fahrenheitOff = 32.
)

var TemperatureUnits = []TemperatureUnit{Kelvin, Celsius, Fahrenheit}

var VelocityUnits = []VelocityUnit{MetersPerSecond, FeetPerMinute, FeetPerSecond, KilometersPerHr, MilesPerHour}

// ToKelvin converts v expressed in unit to Kelvin. Unknown units are treated as Kelvin.
func ToKelvin(v float64, unit TemperatureUnit) float64 {
	switch unit {
	case Celsius:
		return v + zeroCelsius
	case Fahrenheit:
		return (v-fahrenheitOff)*5/9 + zeroCelsius
	}
	return v
}

func FromKelvin(k float64, unit TemperatureUnit) float64 {
	switch unit {
	case Celsius:
		return k - zeroCelsius
	case Fahrenheit:
		return (k-zeroCelsius)*9/5 + fahrenheitOff
	}
	return k
}

// ToMetersPerSecond converts v expressed in unit to m/s. Unknown units are treated as m/s.
func ToMetersPerSecond(v float64, unit VelocityUnit) float64 {
	switch unit {
	case FeetPerMinute:
		return v * ftMinToMs
	case FeetPerSecond:
		return v * ftSecToMs
	case KilometersPerHr:
		return v / kmhPerMs
	case MilesPerHour:
		return v * mphToMs
	}
	return v
}

func FromMetersPerSecond(ms float64, unit VelocityUnit) float64 {
	switch unit {
	case FeetPerMinute:
		return ms / ftMinToMs
	case FeetPerSecond:
		return ms / ftSecToMs
	case KilometersPerHr:
		return ms * kmhPerMs
	case MilesPerHour:
		return ms / mphToMs
	}
	return ms
}

// ParseNumber reads a decimal number the way an editor field holds it: surrounding
// whitespace and parentheses are ignored, a comma is accepted as decimal separator.
// Empty, non-numeric and non-finite input reports ok == false.
func ParseNumber(raw string) (v float64, ok bool) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "()"))
	if s == "" {
		return 0, false
	}
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[0]
	}
	s = strings.Replace(s, ",", ".", 1)
	var err error
	if v, err = strconv.ParseFloat(s, 64); err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseTemperature converts an editor value to Kelvin.
func ParseTemperature(raw string, unit TemperatureUnit) (float64, bool) {
	v, ok := ParseNumber(raw)
	if !ok {
		return 0, false
	}
	return ToKelvin(v, unit), true
}

// ParseVelocity converts a single editor velocity component to m/s.
func ParseVelocity(raw string, unit VelocityUnit) (float64, bool) {
	v, ok := ParseNumber(raw)
	if !ok {
		return 0, false
	}
	return ToMetersPerSecond(v, unit), true
}

// FormatDisplay renders a value with two decimals, the precision editors show.
func FormatDisplay(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ValidTemperatureUnit(u TemperatureUnit) bool {
	for _, t := range TemperatureUnits {
		if t == u {
			return true
		}
	}
	return false
}

func ValidVelocityUnit(u VelocityUnit) bool {
	for _, t := range VelocityUnits {
		if t == u {
			return true
		}
	}
	return false
}
