package boundary

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
)

const groupText = `boundaryField
{
    inlet_1
    {
        type            fixedValue;
        value           uniform (1 0 0);
    }

    inlet_2
    {
        type            fixedValue;
        value           uniform (2 0 0);
    }

    inlet_3
    {
        type            fixedValue;
        value           uniform (3 0 0);
    }

    floor
    {
        type            noSlip;
    }
}
`

func zeroInlet(int) []string {
	return fixedValueBody(DefaultInletU)
}

func TestListIndexedPatches(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, ListIndexedPatches(groupText, "inlet"))
	assert.Nil(t, ListIndexedPatches(groupText, "outlet"))
	assert.Equal(t, 3, MaxIndex(groupText, "inlet"))
	assert.Equal(t, 0, MaxIndex(groupText, "wall"))
	text := "boundaryField\n{\n    my_inlet_4 { }\n    inlet_2 { }\n    inlet_10{ }\n    inlet_2 { }\n}\n"
	assert.Equal(t, []int{2, 10}, ListIndexedPatches(text, "inlet"))
}

func TestReconcile(t *testing.T) {
	{ // Count invariant
		for _, prefix := range []string{"inlet", "object", "wall", "outlet"} {
			for n := 0; n <= 5; n++ {
				out := Reconcile(groupText, Group{Prefix: prefix, Count: n, Body: zeroInlet})
				got := ListIndexedPatches(out, prefix)
				var want []int
				for i := 1; i <= n; i++ {
					want = append(want, i)
				}
				assert.Equal(t, want, got, "%s count %d", prefix, n)
				assert.True(t, foamdict.HasBlock(out, "floor"))
			}
		}
	}
	{ // Idempotence
		groups := []Group{
			{Prefix: "inlet", Count: 2, Body: zeroInlet, Value: func(i int) string { return "(9 9 9)" }},
			{Prefix: "inlet", Count: 5, Body: zeroInlet},
			{Prefix: "wall", Count: 2, Body: zeroInlet, Overwrite: true},
			{Prefix: "inlet", Count: 0},
		}
		for _, g := range groups {
			once := Reconcile(groupText, g)
			twice := Reconcile(once, g)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("second reconcile of %s/%d changed text (-once +twice):\n%s", g.Prefix, g.Count, diff)
			}
		}
	}
	{ // Existing bodies survive an upsert, overwrite replaces them
		out := Reconcile(groupText, Group{Prefix: "inlet", Count: 3, Body: zeroInlet})
		assert.Equal(t, groupText, out)
		out = Reconcile(groupText, Group{Prefix: "inlet", Count: 3, Body: zeroInlet, Overwrite: true})
		b, ok := foamdict.GetBlock(out, "inlet_3")
		require.True(t, ok)
		assert.Equal(t, "(0 0 0)", foamdict.ExtractUniformValue(b.Inner))
	}
	{ // Shrink removes surplus from both fields
		u := groupText
		tt := strings.ReplaceAll(groupText, "(1 0 0)", "295")
		g := Group{Prefix: "inlet", Count: 1, Body: zeroInlet}
		u, tt = Reconcile(u, g), Reconcile(tt, g)
		for _, text := range []string{u, tt} {
			assert.Equal(t, []int{1}, ListIndexedPatches(text, "inlet"))
			assert.False(t, foamdict.HasBlock(text, "inlet_2"))
			assert.False(t, foamdict.HasBlock(text, "inlet_3"))
		}
		b, _ := foamdict.GetBlock(tt, "inlet_1")
		assert.Equal(t, "295", foamdict.ExtractUniformValue(b.Inner))
	}
	{ // Zero and padded indices are never kept
		text := "boundaryField\n{\n    wall_0\n    {\n    }\n    wall_01\n    {\n    }\n}\n"
		out := Reconcile(text, Group{Prefix: "wall", Count: 1, Body: func(int) []string { return noSlipBody }})
		assert.Equal(t, []int{1}, ListIndexedPatches(out, "wall"))
		assert.False(t, foamdict.HasBlock(out, "wall_01"))
		assert.False(t, foamdict.HasBlock(out, "wall_0"))
		assert.True(t, foamdict.HasBlock(out, "wall_1"))
	}
	{ // Names glued to the previous closing brace are still seen
		text := "boundaryField\n{\n    inlet_1\n    {\n        type            fixedValue;\n    }inlet_2\n    {\n        type            fixedValue;\n    }\n}\n"
		assert.Equal(t, []int{1, 2}, ListIndexedPatches(text, "inlet"))
		out := Reconcile(text, Group{Prefix: "inlet", Count: 1, Body: zeroInlet})
		assert.Equal(t, []int{1}, ListIndexedPatches(out, "inlet"))
		assert.False(t, foamdict.HasBlock(out, "inlet_2"))
		assert.NotContains(t, out, "inlet_2")
		assert.True(t, foamdict.HasBlock(out, "inlet_1"))
	}
	{ // Malformed input is inert
		text := "boundaryField\n{\n    inlet_1\n    {\n        type            fixedValue;\n    }\n"
		out := Reconcile(text, Group{Prefix: "inlet", Count: 2, Body: zeroInlet})
		assert.True(t, strings.HasPrefix(out, strings.TrimRight(text, "\n")))
		assert.True(t, foamdict.HasBlock(out, "inlet_2"))
		assert.Equal(t, 2, strings.Count(out, "boundaryField"))
	}
}

func TestNormalizeLegacy(t *testing.T) {
	{ // Renamed when no indexed variant exists
		text := "boundaryField\n{\n    inlet\n    {\n        type            fixedValue;\n    }\n    wall\n    {\n        type            noSlip;\n    }\n}\n"
		out := NormalizeLegacy(text, "inlet", "object", "wall")
		for _, prefix := range []string{"inlet", "wall"} {
			assert.False(t, foamdict.HasBlock(out, prefix))
			assert.True(t, foamdict.HasBlock(out, prefix+"_1"))
		}
		assert.Equal(t, out, NormalizeLegacy(out, "inlet", "object", "wall"))
	}
	{ // Indexed variant wins
		text := "boundaryField\n{\n    object\n    {\n        type            zeroGradient;\n    }\n    object_1\n    {\n        type            fixedValue;\n    }\n}\n"
		out := NormalizeLegacy(text, "object")
		assert.False(t, foamdict.HasBlock(out, "object"))
		b, ok := foamdict.GetBlock(out, "object_1")
		require.True(t, ok)
		assert.Equal(t, "fixedValue", foamdict.ExtractType(b.Inner))
	}
}

func TestModes(t *testing.T) {
	text := "boundaryField\n{\n    object_1\n    {\n        type            fixedValue;\n        value           uniform 308;\n    }\n}\n"
	b, _ := foamdict.GetBlock(text, "object_1")
	assert.Equal(t, types.Mode_Fixed, DetectMode(b.Inner))

	out := foamdict.SetBody(text, "object_1", TypeBodyForMode(types.Mode_Driven, 0))
	b, ok := foamdict.GetBlock(out, "object_1")
	require.True(t, ok)
	assert.Equal(t, "\n        type            zeroGradient;\n    ", b.Inner)
	assert.Equal(t, "", foamdict.ExtractUniformValue(b.Inner))
	assert.Equal(t, types.Mode_Driven, DetectMode(b.Inner))

	assert.Equal(t, []string{"type            fixedGradient;", "gradient        uniform -12.5;"}, TypeBodyForMode(types.Mode_Flux, -12.5))
	assert.Equal(t, types.Mode_Flux, DetectMode("type fixedGradient; gradient uniform 1;"))
	assert.Equal(t, types.Mode_Fixed, DetectMode("type            calculated;\nvalue uniform 300;"))
	assert.Equal(t, types.Mode_Driven, DetectMode("type            calculated;"))
	assert.Equal(t, types.Mode_Fixed, DetectMode("type            compressible::fixedValue;"))
	assert.Equal(t, types.Mode_Flux, DetectMode("type            compressible::fixedGradient;\ngradient uniform 2;"))
	assert.Equal(t, types.Mode_Driven, DetectMode("type            compressible::zeroGradient;\nvalue uniform 300;"))

	body, ok := AuxBody("epsilon", types.Role_Wall)
	require.True(t, ok)
	assert.Equal(t, []string{
		"type            epsilonWallFunction;",
		"Cmu             0.09;",
		"kappa           0.41;",
		"E               9.8;",
		"value           $internalField;",
	}, body)
	_, ok = AuxBody("epsilon", types.Role_Outlet)
	assert.False(t, ok)
	_, ok = AuxBody("T", types.Role_Inlet)
	assert.False(t, ok)
}
