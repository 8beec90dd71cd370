package settings

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tensorhvac/hvaccase/boundary"
	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/units"
)

const temperature = `dimensions      [0 0 0 1 0 0 0];

internalField   uniform 300;

boundaryField
{
    inlet_1
    {
        type            fixedValue;
        value           uniform 290;
    }
}
`

const controlDict = `application     buoyantSimpleFoam;

startTime       0;

endTime         1000;

writeInterval   100;

functions
{
    #includeFunc FOcomfort
}
`

func newCase(t *testing.T, files map[string]string) *casefile.Context {
	fs := afero.NewMemMapFs()
	for rel, text := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/case", rel), []byte(text), 0644))
	}
	ctx, err := casefile.NewContext("/case", casefile.NewFS(fs), zaptest.NewLogger(t))
	require.NoError(t, err)
	return ctx
}

func read(t *testing.T, ctx *casefile.Context, rel string) string {
	text, err := ctx.Read(rel)
	require.NoError(t, err)
	return text
}

func TestInternalField(t *testing.T) {
	assert.Equal(t, "300", ExtractInternalField(temperature))
	assert.Equal(t, "", ExtractInternalField("internalField nonuniform List<scalar> 0();"))

	out := ReplaceInternalField(temperature, "296.5")
	assert.Equal(t, strings.Replace(temperature, "uniform 300;", "uniform 296.5;", 1), out)
	assert.Equal(t, out, ReplaceInternalField(out, "296.5"))

	{ // missing entry goes before boundaryField
		in := "dimensions      [0 0 0 1 0 0 0];\n\nboundaryField\n{\n}\n"
		want := "dimensions      [0 0 0 1 0 0 0];\n\ninternalField   uniform 300;\n\nboundaryField\n{\n}\n"
		if diff := cmp.Diff(want, ReplaceInternalField(in, "300")); diff != "" {
			t.Errorf("internalField insert (-want +got):\n%s", diff)
		}
	}
}

func TestGravity(t *testing.T) {
	g := BuildGravity("(0 0 -9.81)")
	assert.Contains(t, g, "class       uniformDimensionedVectorField;")
	assert.Contains(t, g, "dimensions      [0 1 -2 0 0 0 0];\nvalue           (0 0 -9.81);\n")
	v, ok := ParseGravity(g)
	require.True(t, ok)
	assert.Equal(t, "0 0 -9.81", v)

	v, ok = ParseGravity("value ( 0   -9.81 0 ) ;")
	assert.True(t, ok)
	assert.Equal(t, "0 -9.81 0", v)
	_, ok = ParseGravity("dimensions [0 1 -2 0 0 0 0];")
	assert.False(t, ok)

	assert.Equal(t, BuildGravity(GravityDirections["-y"]), BuildGravity("(0 -9.81 0)"))
}

func TestComfort(t *testing.T) {
	{ // round trip
		c := Comfort{Clothing: Float(0.8), Region: "air", MeanVelocity: Bool(true), WriteInterval: Float(5)}
		text := BuildComfort(c)
		assert.Contains(t, text, "comfort\n{\n    // Mandatory entries\n    type            comfort;\n")
		assert.Contains(t, text, "    tolerance       0.0001;\n")
		assert.Contains(t, text, "    executeInterval -1;\n")
		assert.Equal(t, ComfortDefaults.Merge(c), ParseComfort(text))
	}
	{ // defaults
		assert.Equal(t, ComfortDefaults, ParseComfort(BuildComfort(Comfort{})))
		assert.Equal(t, Comfort{}, ParseComfort("functions\n{\n}\n"))
	}
	{ // merge keeps what the override leaves unset
		base := Comfort{Clothing: Float(0.9), Region: "zone", Log: Bool(false)}
		got := base.Merge(Comfort{Clothing: Float(1), Log: Bool(true), ExecuteControl: "timeStep"})
		assert.Equal(t, Comfort{Clothing: Float(1), Region: "zone", Log: Bool(true), ExecuteControl: "timeStep"}, got)
	}
}

func TestApplyGeneral(t *testing.T) {
	existing := BuildComfort(Comfort{Clothing: Float(0.9), Region: "zone"})
	ctx := newCase(t, map[string]string{boundary.TemperatureFile: temperature, ComfortFile: existing})

	written, err := ApplyGeneral(ctx, General{
		InitialT:     "25",
		InitialTUnit: units.Celsius,
		Gravity:      "0 0 -9.81",
		Comfort:      Comfort{MetabolicRate: Float(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{boundary.TemperatureFile, GravityFile, ComfortFile}, written)

	g, err := LoadGeneral(ctx)
	require.NoError(t, err)
	k, ok := units.ParseNumber(g.InitialT)
	require.True(t, ok)
	assert.InDelta(t, 298.15, k, 1e-9)
	assert.Equal(t, units.Kelvin, g.InitialTUnit)
	assert.Equal(t, "0 0 -9.81", g.Gravity)
	assert.Equal(t, 0.9, *g.Comfort.Clothing)
	assert.Equal(t, 2., *g.Comfort.MetabolicRate)
	assert.Equal(t, "zone", g.Comfort.Region)

	t.Run("blank fields leave files alone", func(t *testing.T) {
		ctx := newCase(t, map[string]string{boundary.TemperatureFile: temperature})
		written, err := ApplyGeneral(ctx, General{InitialT: " ", InitialTUnit: units.Kelvin})
		require.NoError(t, err)
		assert.Equal(t, []string{ComfortFile}, written)
		assert.Equal(t, temperature, read(t, ctx, boundary.TemperatureFile))

		g, err := LoadGeneral(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", g.Gravity)
		assert.Equal(t, ComfortDefaults, g.Comfort)
	})
}

func TestFactorTriple(t *testing.T) {
	for n, want := range map[int][3]int{
		-3: {1, 1, 1},
		1:  {1, 1, 1},
		4:  {2, 1, 2},
		6:  {2, 1, 3},
		7:  {7, 1, 1},
		8:  {2, 2, 2},
		12: {2, 2, 3},
	} {
		got := FactorTriple(n)
		assert.Equal(t, want, got, "n=%d", n)
		assert.Equal(t, max(1, n), got[0]*got[1]*got[2])
	}
}

func TestDecompose(t *testing.T) {
	{ // autogenerated file
		want := DefaultDecompose + "numberOfSubdomains 6;\nmethod          hierarchical;\n\ncoeffs\n{\n    n               (2 1 3);\n}\n"
		if diff := cmp.Diff(want, ApplyDecompose(DefaultDecompose, 6)); diff != "" {
			t.Errorf("decompose (-want +got):\n%s", diff)
		}
	}
	{ // existing hierarchicalCoeffs keeps its other entries
		in := "numberOfSubdomains 4;\n\nmethod          scotch;\n\nhierarchicalCoeffs\n{\n    n               (2 2 1);\n    order           xyz;\n}\n"
		want := "numberOfSubdomains 8;\n\nmethod          hierarchical;\n\nhierarchicalCoeffs\n{\n    n               (2 2 2);\n    order           xyz;\n}\n"
		assert.Equal(t, want, ApplyDecompose(in, 8))
		assert.Equal(t, want, ApplyDecompose(want, 8))
	}
	{ // n goes first into a coeffs block without one
		got := SetNTuple("coeffs\n{\n    order xyz;\n}\n", [3]int{1, 1, 1})
		assert.Equal(t, "coeffs\n{\n    n               (1 1 1);\n    order xyz;\n}\n", got)
		n, ok := ParseNTuple(got)
		assert.True(t, ok)
		assert.Equal(t, [3]int{1, 1, 1}, n)
	}
}

func TestApplySolver(t *testing.T) {
	ctx := newCase(t, map[string]string{ControlFile: controlDict})
	written, err := ApplySolver(ctx, Solver{EndTime: "2000", DeltaT: " 1 ", Subdomains: 8})
	require.NoError(t, err)
	assert.Equal(t, []string{ControlFile, DecomposeFile}, written)

	want := strings.Replace(controlDict, "endTime         1000;", "endTime         2000;", 1)
	want = strings.Replace(want, "functions\n", "deltaT          1;\n\nfunctions\n", 1)
	if diff := cmp.Diff(want, read(t, ctx, ControlFile)); diff != "" {
		t.Errorf("controlDict (-want +got):\n%s", diff)
	}

	s, err := LoadSolver(ctx)
	require.NoError(t, err)
	assert.Equal(t, Solver{StartTime: "0", EndTime: "2000", DeltaT: "1", WriteInterval: "100", Subdomains: 8}, s)

	{ // subdomains from the n tuple alone
		ctx := newCase(t, map[string]string{ControlFile: controlDict, DecomposeFile: "coeffs\n{\n    n (2 3 1);\n}\n"})
		s, err := LoadSolver(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, s.Subdomains)
	}
	{ // no decomposition requested, missing controlDict
		ctx := newCase(t, nil)
		written, err := ApplySolver(ctx, Solver{StartTime: "0"})
		require.NoError(t, err)
		assert.Equal(t, []string{ControlFile}, written)
		assert.Equal(t, "startTime       0;\n", read(t, ctx, ControlFile))
		s, err := LoadSolver(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Subdomains)
	}
}
