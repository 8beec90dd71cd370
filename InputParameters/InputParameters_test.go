package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorhvac/hvaccase/types"
	"github.com/tensorhvac/hvaccase/units"
)

var office = []byte(`
Title: "Office 2.14"
Boundaries:
  Inlets:
    - U: (0 0 -150)
      UUnit: ft/min
      T: "18"
      TUnit: C
  Outlets:
    - {}
  Objects:
    - Mode: fixed
      T: "35"
      TUnit: C
  Walls:
    - Mode: driven
  Floor:
    Mode: flux
    Gradient: "-0.5"
  Wind:
    Enabled: false
Mesh:
  checklist: {inlet: true, outlet: true, object: true, wall: true, floor: true, ceiling: true}
  counts: {inlets: 1, outlets: 1, objects: 1, walls: 1}
  globalResolution: manual
  delta: 0.15
  localResolution: fine
General:
  initialT: "22"
  initialTUnit: C
  gravity: 0 0 -9.81
  comfort:
    clothing: 0.7
    relHumidity: 45
Solver:
  endTime: "2000"
  subdomains: 6
`)

func TestParse(t *testing.T) {
	var cp CaseParameters
	require.NoError(t, cp.Parse(office))
	assert.Equal(t, "Office 2.14", cp.Title)

	require.NotNil(t, cp.Boundaries)
	assert.Len(t, cp.Boundaries.Inlets, 1)
	assert.Equal(t, units.FeetPerMinute, cp.Boundaries.Inlets[0].UUnit)
	assert.Equal(t, "18", cp.Boundaries.Inlets[0].T)
	assert.Equal(t, types.Mode_Fixed, cp.Boundaries.Objects[0].Mode)
	require.NotNil(t, cp.Boundaries.Floor)
	assert.Equal(t, types.Mode_Flux, cp.Boundaries.Floor.Mode)
	assert.Nil(t, cp.Boundaries.Ceiling)

	require.NotNil(t, cp.Mesh)
	assert.True(t, cp.Mesh.Checklist.Floor)
	assert.False(t, cp.Mesh.Checklist.Wind)
	d, err := cp.Mesh.GlobalDelta()
	require.NoError(t, err)
	assert.Equal(t, 0.15, d)

	require.NotNil(t, cp.General)
	assert.Equal(t, units.Celsius, cp.General.InitialTUnit)
	assert.Equal(t, 0.7, *cp.General.Comfort.Clothing)
	assert.Nil(t, cp.General.Comfort.MetabolicRate)

	require.NotNil(t, cp.Solver)
	assert.Equal(t, 6, cp.Solver.Subdomains)
	assert.Equal(t, "", cp.Solver.DeltaT)

	{ // marshal round trip
		data, err := cp.Marshal()
		require.NoError(t, err)
		var back CaseParameters
		require.NoError(t, back.Parse(data))
		assert.Equal(t, cp, back)
	}
}

func TestValidate(t *testing.T) {
	var cp CaseParameters
	require.NoError(t, cp.Parse([]byte("Title: empty\n")))
	assert.Nil(t, cp.Mesh)
	assert.True(t, errors.Is(Section("Mesh", cp.Mesh != nil), ErrNoSection))

	err := (&CaseParameters{}).Parse([]byte(`
Boundaries:
  Inlets:
    - UUnit: knots
  Walls:
    - TUnit: R
Mesh:
  globalResolution: manual
  localResolution: extreme
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown velocity unit "knots"`)
	assert.Contains(t, err.Error(), `unknown temperature unit "R"`)
	assert.Contains(t, err.Error(), `unknown local resolution "extreme"`)

	err = (&CaseParameters{}).Parse([]byte("Boundaries:\n  Objects:\n    - Mode: hot\n"))
	assert.Error(t, err)
}
