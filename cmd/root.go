package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/pkg/api/bpsolver"
)

type rootOpts struct {
	configFile string
	verbose    bool
}

var rootopts = rootOpts{}

// cfg is loaded before any subcommand runs.
var cfg = bpsolver.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "bpsolver",
	Short: "bpsolver decides whether items fit into a fixed number of bins",
	Long:  `The tool answers bin packing feasibility questions with a constraint propagation search, backed by a pseudo-boolean SAT encoding for cross-checks`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(rootopts.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		level := logrus.InfoLevel
		if cfg.LogLevel != "" {
			if level, err = logrus.ParseLevel(cfg.LogLevel); err != nil {
				return err
			}
		}
		if rootopts.verbose {
			level = logrus.DebugLevel
		}
		logrus.SetLevel(level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&rootopts.configFile, "config", "", "configuration file written by 'bpsolver init', defaults are used if empty")
	rootCmd.PersistentFlags().BoolVarP(&rootopts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(NewSolveCmd())
	rootCmd.AddCommand(NewBoundCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewStretchCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
