/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tensorhvac/hvaccase/InputParameters"
	"github.com/tensorhvac/hvaccase/mesh"
	"github.com/tensorhvac/hvaccase/readers"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Rewrite snappyHexMeshDict, blockMeshDict and surfaceFeatureExtractDict",
	Long: `
Fits the background block to the surfaces in constant/triSurface and rewrites the
geometry, refinement, feature and location entries for the checked surfaces.
Surface counts are raised to what the surface file names show.

hvaccase mesh -I office.yaml
hvaccase mesh --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		if s, _ := cmd.Flags().GetBool("show"); s {
			p, err := mesh.Load(ctx)
			if err != nil {
				return err
			}
			return show(&InputParameters.CaseParameters{Title: ctx.CaseRoot, Mesh: &mesh.Settings{
				Checklist:        p.Checklist,
				Counts:           p.Counts,
				GlobalResolution: "medium",
				LocalResolution:  p.LocalResolution,
			}})
		}
		ip, err := readParameters(cmd)
		if err != nil {
			return err
		}
		if err = InputParameters.Section("Mesh", ip.Mesh != nil); err != nil {
			return err
		}
		s := *ip.Mesh
		if s.IncludedAngle == 0 && viper.IsSet("includedAngle") {
			s.IncludedAngle = viper.GetFloat64("includedAngle")
		}
		names, err := readers.SurfaceNames(ctx)
		if err != nil {
			return err
		}
		s.Counts = readers.MergeCounts(s.Counts, readers.DetectCounts(names))
		box, err := readers.BoundingBox(ctx)
		if err != nil {
			return err
		}
		rep, err := mesh.Apply(ctx, s, box)
		if err != nil {
			return err
		}
		printWritten(rep.Written)
		fmt.Printf("%8.5f\t\t= Cell Size\n", rep.Delta)
		fmt.Printf("%v\t\t= Cells\n", rep.Cells)
		fmt.Printf("%v\t= Location In Mesh (%s)\n", rep.Location, rep.LocationSource)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	addParameterFlags(MeshCmd)
}
