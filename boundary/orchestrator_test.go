package boundary

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
	"github.com/tensorhvac/hvaccase/units"
)

const caseRoot = "/case"

const velocityField = `FoamFile
{
    version     2.0;
    format      ascii;
    class       volVectorField;
    object      U;
}

dimensions      [0 1 -1 0 0 0 0];

internalField   uniform (0 0 0);

boundaryField
{
    inlet
    {
        type            fixedValue;
        value           uniform (1 0 0);
    }

    object_1
    {
        type            noSlip;
    }

    outlet_1
    {
        type            inletOutlet;
        inletValue      uniform (0.5 0 0);
        value           uniform (0 0 0);
    }

    floor
    {
        type            noSlip;
    }
}
`

const temperatureField = `FoamFile
{
    version     2.0;
    format      ascii;
    class       volScalarField;
    object      T;
}

dimensions      [0 0 0 1 0 0 0];

internalField   uniform 293;

boundaryField
{
    inlet
    {
        type            fixedValue;
        value           uniform 295;
    }

    object_1
    {
        type            fixedValue;
        value           uniform 308;
    }

    floor
    {
        type            fixedGradient;
        gradient        uniform -4;
    }
}
`

const alphatField = `FoamFile
{
    class       volScalarField;
    object      alphat;
}

internalField   uniform 0;

boundaryField
{
    inlet
    {
        type            calculated;
        value           $internalField;
    }

    object_1
    {
        type            compressible::alphatWallFunction;
        value           $internalField;
    }

    object_2
    {
        type            compressible::alphatWallFunction;
        value           $internalField;
    }
}
`

func newCase(t *testing.T, files map[string]string) (*casefile.Context, *casefile.FS) {
	fs := casefile.NewFS(afero.NewMemMapFs())
	for rel, text := range files {
		require.NoError(t, fs.WriteTextFile(caseRoot, rel, text))
	}
	ctx, err := casefile.NewContext(caseRoot, fs, zaptest.NewLogger(t))
	require.NoError(t, err)
	return ctx, fs
}

func mustRead(t *testing.T, ctx *casefile.Context, rel string) string {
	text, err := ctx.Read(rel)
	require.NoError(t, err)
	return text
}

func TestLoad(t *testing.T) {
	ctx, _ := newCase(t, map[string]string{
		VelocityFile:    velocityField,
		TemperatureFile: temperatureField,
	})
	cfg, err := Load(ctx)
	require.NoError(t, err)

	require.Len(t, cfg.Inlets, 1)
	assert.Equal(t, FlowSpec{U: "(1 0 0)", UUnit: units.MetersPerSecond, T: "295", TUnit: units.Kelvin}, cfg.Inlets[0])
	require.Len(t, cfg.Outlets, 1)
	assert.Equal(t, "(0.5 0 0)", cfg.Outlets[0].U)
	assert.Equal(t, "290", cfg.Outlets[0].T)
	require.Len(t, cfg.Objects, 1)
	assert.Equal(t, ThermalSpec{Mode: types.Mode_Fixed, T: "308", TUnit: units.Kelvin}, cfg.Objects[0])
	assert.Empty(t, cfg.Walls)
	require.NotNil(t, cfg.Floor)
	assert.Equal(t, types.Mode_Flux, cfg.Floor.Mode)
	assert.Equal(t, "-4", cfg.Floor.Gradient)
	require.NotNil(t, cfg.Ceiling)
	assert.Equal(t, ThermalSpec{Mode: types.Mode_Fixed, TUnit: units.Kelvin}, *cfg.Ceiling)
	assert.False(t, cfg.Wind.Enabled)

	// Legacy names were migrated on disk
	u := mustRead(t, ctx, VelocityFile)
	assert.True(t, foamdict.HasBlock(u, "inlet_1"))
	assert.False(t, foamdict.HasBlock(u, "inlet"))
	tt := mustRead(t, ctx, TemperatureFile)
	assert.True(t, foamdict.HasBlock(tt, "inlet_1"))
}

func TestApply(t *testing.T) {
	ctx, _ := newCase(t, map[string]string{
		VelocityFile:    velocityField,
		TemperatureFile: temperatureField,
		AuxFile("alphat"): alphatField,
		AuxFile("p_rgh"):  "boundaryField\n{\n}\n",
	})
	cfg := BoundaryConfig{
		Inlets: []FlowSpec{
			{U: "(1 0 0)", UUnit: units.MetersPerSecond, T: "295", TUnit: units.Kelvin},
			{},
		},
		Objects: []ThermalSpec{{Mode: types.Mode_Driven}},
		Walls:   []ThermalSpec{{Mode: types.Mode_Fixed, T: "20", TUnit: units.Celsius}},
		Floor:   &ThermalSpec{Mode: types.Mode_Fixed},
		Wind:    WindSpec{Enabled: true, U: [3]float64{0, 2, 0}},
	}
	written, err := Apply(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{VelocityFile, TemperatureFile, AuxFile("alphat"), AuxFile("p_rgh")}, written)

	u := mustRead(t, ctx, VelocityFile)
	tt := mustRead(t, ctx, TemperatureFile)
	assert.Equal(t, []int{1, 2}, ListIndexedPatches(u, "inlet"))
	assert.Equal(t, []int{1, 2}, ListIndexedPatches(tt, "inlet"))

	b, ok := foamdict.GetBlock(u, "inlet_2")
	require.True(t, ok)
	assert.Contains(t, b.Inner, "value           uniform (0 0 0);")
	b, _ = foamdict.GetBlock(tt, "inlet_2")
	assert.Equal(t, "290", foamdict.ExtractUniformValue(b.Inner))
	b, _ = foamdict.GetBlock(tt, "inlet_1")
	assert.Equal(t, "295", foamdict.ExtractUniformValue(b.Inner))

	b, _ = foamdict.GetBlock(tt, "object_1")
	assert.Equal(t, "\n        type            zeroGradient;\n    ", b.Inner)
	b, _ = foamdict.GetBlock(u, "wall_1")
	assert.Equal(t, "noSlip", foamdict.ExtractType(b.Inner))
	b, _ = foamdict.GetBlock(tt, "wall_1")
	assert.Equal(t, "293.15", foamdict.ExtractUniformValue(b.Inner))

	b, _ = foamdict.GetBlock(tt, "floor")
	assert.Equal(t, "300", foamdict.ExtractUniformValue(b.Inner))
	assert.False(t, foamdict.HasBlock(tt, "ceiling"))

	b, _ = foamdict.GetBlock(u, "wind")
	assert.Equal(t, "(0 2 0)", foamdict.ExtractInletValue(b.Inner))
	assert.False(t, foamdict.HasBlock(tt, "wind"))

	b, _ = foamdict.GetBlock(u, "outlet_1")
	assert.Equal(t, "(0 0 0)", foamdict.ExtractInletValue(b.Inner))

	alphat := mustRead(t, ctx, AuxFile("alphat"))
	assert.Equal(t, []int{1}, ListIndexedPatches(alphat, "object"))
	assert.Equal(t, []int{1, 2}, ListIndexedPatches(alphat, "inlet"))
	assert.Equal(t, []int{1}, ListIndexedPatches(alphat, "wall"))
	b, _ = foamdict.GetBlock(alphat, "wall_1")
	assert.Contains(t, b.Inner, "Prt             0.85;")

	prgh := mustRead(t, ctx, AuxFile("p_rgh"))
	b, ok = foamdict.GetBlock(prgh, "inlet_2")
	require.True(t, ok)
	assert.Equal(t, "fixedFluxPressure", foamdict.ExtractType(b.Inner))

	// A second save with the same set changes nothing
	_, err = Apply(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, u, mustRead(t, ctx, VelocityFile))
	assert.Equal(t, tt, mustRead(t, ctx, TemperatureFile))
	assert.Equal(t, alphat, mustRead(t, ctx, AuxFile("alphat")))
}

type failingWrites struct {
	casefile.FileAccessor
	fail string
}

func (f failingWrites) WriteTextFile(caseRoot, relPath, text string) error {
	if relPath == f.fail {
		return errors.New("disk full")
	}
	return f.FileAccessor.WriteTextFile(caseRoot, relPath, text)
}

func TestApplyPartialFailure(t *testing.T) {
	files := map[string]string{
		VelocityFile:      "boundaryField\n{\n}\n",
		TemperatureFile:   "boundaryField\n{\n}\n",
		AuxFile("alphat"): "boundaryField\n{\n}\n",
		AuxFile("k"):      "boundaryField\n{\n}\n",
	}
	for _, tc := range []struct {
		fail    string
		written []string
	}{
		{VelocityFile, nil},
		{TemperatureFile, []string{VelocityFile}},
		{AuxFile("k"), []string{VelocityFile, TemperatureFile, AuxFile("alphat")}},
	} {
		ctx, fs := newCase(t, files)
		ctx.Files = failingWrites{FileAccessor: fs, fail: tc.fail}
		written, err := Apply(ctx, BoundaryConfig{})
		assert.Error(t, err, tc.fail)
		assert.Equal(t, tc.written, written, tc.fail)
		text, _ := fs.ReadTextFile(caseRoot, tc.fail)
		assert.Equal(t, "boundaryField\n{\n}\n", text)
	}
	{ // Missing velocity file aborts before anything is written
		ctx, _ := newCase(t, map[string]string{TemperatureFile: "boundaryField\n{\n}\n"})
		written, err := Apply(ctx, BoundaryConfig{})
		assert.True(t, casefile.IsNotExist(err))
		assert.Empty(t, written)
	}
}
