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
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tensorhvac/hvaccase/readers"
)

// GeometryCmd represents the geometry command
var GeometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "List the surface files of the case with their counts and bounding box",
	Long: `
Lists constant/triSurface. With --watch it keeps reporting after every change
until interrupted.

hvaccase geometry
hvaccase geometry --watch
hvaccase geometry import part.stl inlet_1.stl
hvaccase geometry clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		if w, _ := cmd.Flags().GetBool("watch"); !w {
			printSnapshot(readers.TakeSnapshot(ctx))
			return nil
		}
		sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		printSnapshot(readers.TakeSnapshot(ctx))
		watcher, err := readers.NewWatcher(ctx, printSnapshot)
		if err != nil {
			return err
		}
		return watcher.Run(sctx)
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Copy STL/OBJ files into constant/triSurface",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		for _, name := range args {
			data, err := ioutil.ReadFile(name)
			if err != nil {
				return err
			}
			rel, err := readers.Import(ctx, name, data)
			if err != nil {
				return err
			}
			fmt.Printf("imported %s\n", rel)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every STL/OBJ file from constant/triSurface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := caseContext()
		if err != nil {
			return err
		}
		n, err := readers.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d surface files\n", n)
		return nil
	},
}

func printSnapshot(s readers.Snapshot) {
	for _, name := range s.Names {
		fmt.Println(name)
	}
	fmt.Printf("[%d %d %d %d]\t\t= Inlets Objects Outlets Walls\n",
		s.Counts.Inlets, s.Counts.Objects, s.Counts.Outlets, s.Counts.Walls)
	if s.Err != nil {
		fmt.Printf("error: %s\n", s.Err.Error())
		return
	}
	fmt.Printf("%s - %s\t= Bounding Box\n", vec(s.Box.Min), vec(s.Box.Max))
}

func vec(v r3.Vec) string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

func init() {
	rootCmd.AddCommand(GeometryCmd)
	GeometryCmd.AddCommand(importCmd, clearCmd)
	GeometryCmd.Flags().BoolP("watch", "w", false, "keep watching constant/triSurface for changes")
}
