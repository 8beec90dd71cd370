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
	"github.com/spf13/cobra"

	"github.com/tensorhvac/hvaccase/InputParameters"
	"github.com/tensorhvac/hvaccase/settings"
)

// SolverCmd represents the solver command
var SolverCmd = &cobra.Command{
	Use:   "solver",
	Short: "Apply run control and parallel decomposition",
	Long: `
Sets startTime, endTime, deltaT and writeInterval in system/controlDict and a
hierarchical decomposition in system/decomposeParDict.

hvaccase solver -I office.yaml
hvaccase solver --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		if s, _ := cmd.Flags().GetBool("show"); s {
			sv, err := settings.LoadSolver(ctx)
			if err != nil {
				return err
			}
			return show(&InputParameters.CaseParameters{Title: ctx.CaseRoot, Solver: &sv})
		}
		ip, err := readParameters(cmd)
		if err != nil {
			return err
		}
		if err = InputParameters.Section("Solver", ip.Solver != nil); err != nil {
			return err
		}
		written, err := settings.ApplySolver(ctx, *ip.Solver)
		printWritten(written)
		return err
	},
}

func init() {
	rootCmd.AddCommand(SolverCmd)
	addParameterFlags(SolverCmd)
}
