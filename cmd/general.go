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

// GeneralCmd represents the general command
var GeneralCmd = &cobra.Command{
	Use:   "general",
	Short: "Apply the initial temperature, gravity and comfort settings",
	Long: `
Writes internalField of 0/T, constant/g and system/FOcomfort. Comfort entries
the parameter file leaves out keep their current values.

hvaccase general -I office.yaml
hvaccase general --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		if s, _ := cmd.Flags().GetBool("show"); s {
			g, err := settings.LoadGeneral(ctx)
			if err != nil {
				return err
			}
			return show(&InputParameters.CaseParameters{Title: ctx.CaseRoot, General: &g})
		}
		ip, err := readParameters(cmd)
		if err != nil {
			return err
		}
		if err = InputParameters.Section("General", ip.General != nil); err != nil {
			return err
		}
		written, err := settings.ApplyGeneral(ctx, *ip.General)
		printWritten(written)
		return err
	},
}

func init() {
	rootCmd.AddCommand(GeneralCmd)
	addParameterFlags(GeneralCmd)
}
