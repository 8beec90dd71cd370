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

	"github.com/tensorhvac/hvaccase/InputParameters"
	"github.com/tensorhvac/hvaccase/boundary"
)

// BoundariesCmd represents the boundaries command
var BoundariesCmd = &cobra.Command{
	Use:   "boundaries",
	Short: "Apply inlet, outlet, object, wall, floor, ceiling and wind conditions",
	Long: `
Rewrites the patches of 0/U, 0/T and the auxiliary fields (alphat, k, nut, omega,
epsilon, p, p_rgh) so that every patch group holds exactly the configured rows.

hvaccase boundaries -I office.yaml
hvaccase boundaries --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		if s, _ := cmd.Flags().GetBool("show"); s {
			cfg, err := boundary.Load(ctx)
			if err != nil {
				return err
			}
			return show(&InputParameters.CaseParameters{Title: ctx.CaseRoot, Boundaries: &cfg})
		}
		ip, err := readParameters(cmd)
		if err != nil {
			return err
		}
		if err = InputParameters.Section("Boundaries", ip.Boundaries != nil); err != nil {
			return err
		}
		written, err := boundary.Apply(ctx, *ip.Boundaries)
		printWritten(written)
		if err != nil {
			return fmt.Errorf("boundaries partially applied: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(BoundariesCmd)
	addParameterFlags(BoundariesCmd)
}
