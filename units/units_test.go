package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestConversions(t *testing.T) {
	{ // Fixed points
		assert.InDelta(t, 273.15, ToKelvin(0, Celsius), 1e-12)
		assert.InDelta(t, 273.15, ToKelvin(32, Fahrenheit), 1e-12)
		assert.InDelta(t, 373.15, ToKelvin(212, Fahrenheit), 1e-9)
		assert.Equal(t, 290., ToKelvin(290, Kelvin))
		assert.InDelta(t, 0.508, ToMetersPerSecond(100, FeetPerMinute), 1e-12)
		assert.InDelta(t, 0.3048, ToMetersPerSecond(1, FeetPerSecond), 1e-12)
		assert.InDelta(t, 10., ToMetersPerSecond(36, KilometersPerHr), 1e-12)
		assert.InDelta(t, 0.44704, ToMetersPerSecond(1, MilesPerHour), 1e-12)
		assert.Equal(t, 3., ToMetersPerSecond(3, MetersPerSecond))
	}
	{ // Round trips within 1e-6 relative
		values := []float64{-40, -1.5, 0.001, 1, 20, 37.5, 295, 1e4}
		for _, v := range values {
			for _, u := range TemperatureUnits {
				back := FromKelvin(ToKelvin(v, u), u)
				assert.True(t, scalar.EqualWithinAbsOrRel(v, back, 1e-9, 1e-6),
					"temperature %v %s came back as %v", v, u, back)
			}
			for _, u := range VelocityUnits {
				back := FromMetersPerSecond(ToMetersPerSecond(v, u), u)
				assert.True(t, scalar.EqualWithinAbsOrRel(v, back, 1e-9, 1e-6),
					"velocity %v %s came back as %v", v, u, back)
			}
		}
	}
}

func TestParse(t *testing.T) {
	v, ok := ParseTemperature("20", Celsius)
	assert.True(t, ok)
	assert.InDelta(t, 293.15, v, 1e-9)

	_, ok = ParseTemperature("", Kelvin)
	assert.False(t, ok)
	_, ok = ParseTemperature("warm", Kelvin)
	assert.False(t, ok)
	_, ok = ParseTemperature("NaN", Kelvin)
	assert.False(t, ok)

	v, ok = ParseVelocity("(3.6)", KilometersPerHr)
	assert.True(t, ok)
	assert.InDelta(t, 1., v, 1e-12)

	v, ok = ParseNumber(" 0,25 ")
	assert.True(t, ok)
	assert.Equal(t, 0.25, v)

	assert.Equal(t, "20.00", FormatDisplay(FromKelvin(293.15, Celsius)))
	assert.True(t, ValidVelocityUnit("mph"))
	assert.False(t, ValidTemperatureUnit("R"))
}
