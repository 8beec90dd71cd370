package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorhvac/hvaccase/settings"
)

func writeFile(t *testing.T, path, text string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
}

func TestReadParameters(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "case.yaml")
	writeFile(t, file, exampleFile)

	c := &cobra.Command{Use: "test"}
	addParameterFlags(c)
	{ // no file
		_, err := readParameters(c)
		assert.Error(t, err)
	}
	require.NoError(t, c.Flags().Set("inputParametersFile", file))
	ip, err := readParameters(c)
	require.NoError(t, err)
	assert.Equal(t, "Office", ip.Title)
	require.NotNil(t, ip.Boundaries)
	assert.Len(t, ip.Boundaries.Inlets, 1)
	require.NotNil(t, ip.Solver)
	assert.Equal(t, 4, ip.Solver.Subdomains)
}

func TestSolverCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, settings.ControlFile), "startTime       0;\n\nendTime         100;\n")
	file := filepath.Join(t.TempDir(), "case.yaml")
	writeFile(t, file, "Solver:\n  endTime: \"2000\"\n  subdomains: 4\n")

	rootCmd.SetArgs([]string{"-C", root, "solver", "-I", file})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(root, settings.ControlFile))
	require.NoError(t, err)
	assert.Equal(t, "startTime       0;\n\nendTime         2000;\n", string(data))
	data, err = os.ReadFile(filepath.Join(root, settings.DecomposeFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "numberOfSubdomains 4;")
	assert.Contains(t, string(data), "(2 1 2)")

	{ // a parameter file without the section is refused
		writeFile(t, file, "Title: nothing\n")
		rootCmd.SetArgs([]string{"-C", root, "solver", "-I", file})
		assert.Error(t, rootCmd.Execute())
	}
}
