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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tensorhvac/hvaccase/InputParameters"
	"github.com/tensorhvac/hvaccase/casefile"
)

var (
	cfgFile string
	logger  *zap.Logger
	prof    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hvaccase",
	Short: "Set up the OpenFOAM dictionaries of an HVAC room case",
	Long: `
Edits the dictionaries of an OpenFOAM HVAC case in place: boundary conditions,
mesh dictionaries, initial and comfort settings and run control.

hvaccase -C ./office boundaries -I office.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		if logger, err = config.Build(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if p, _ := cmd.Flags().GetString("profile"); p != "" {
			prof = profile.Start(profileMode(p), profile.ProfilePath("."), profile.Quiet)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if prof != nil {
			prof.Stop()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hvaccase.yaml)")
	rootCmd.PersistentFlags().StringP("case", "C", ".", "OpenFOAM case directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("profile", "", "write a profile to the working directory: cpu or mem")
	_ = viper.BindPFlag("case", rootCmd.PersistentFlags().Lookup("case"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".hvaccase")
	}
	viper.SetEnvPrefix("HVACCASE")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func profileMode(name string) func(*profile.Profile) {
	if name == "mem" {
		return profile.MemProfile
	}
	return profile.CPUProfile
}

// caseContext opens the case directory named by --case, the config file or HVACCASE_CASE
func caseContext() (*casefile.Context, error) {
	root, err := filepath.Abs(viper.GetString("case"))
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, casefile.ErrNoCase)
	}
	return casefile.NewContext(root, casefile.NewOsFS(), logger)
}

const exampleFile = `
########################################
Title: "Office"
Boundaries:
  Inlets:
    - U: (0 0 -1.5)
      T: "18"
      TUnit: C
  Outlets:
    - {}
  Walls:
    - Mode: driven
Mesh:
  checklist: {inlet: true, outlet: true, wall: true, floor: true, ceiling: true}
  globalResolution: medium
  localResolution: medium
General:
  initialT: "22"
  initialTUnit: C
Solver:
  endTime: "2000"
  subdomains: 4
########################################
`

// readParameters parses the -I case parameter file
func readParameters(cmd *cobra.Command) (ip *InputParameters.CaseParameters, err error) {
	name, _ := cmd.Flags().GetString("inputParametersFile")
	if len(name) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
	}
	var data []byte
	if data, err = ioutil.ReadFile(name); err != nil {
		return nil, err
	}
	ip = &InputParameters.CaseParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if viper.GetBool("verbose") {
		ip.Print()
	}
	return ip, nil
}

func addParameterFlags(c *cobra.Command) {
	c.Flags().StringP("inputParametersFile", "I", "", "YAML case parameter file")
	c.Flags().Bool("show", false, "print the current settings of the case as YAML instead of applying")
}

func show(cp *InputParameters.CaseParameters) error {
	data, err := cp.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func printWritten(written []string) {
	for _, w := range written {
		fmt.Printf("wrote %s\n", w)
	}
}
