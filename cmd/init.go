package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/pkg/config"
)

type InitOpts struct {
	output string
	force  bool
}

var initopts = InitOpts{}

func NewInitCmd() *cobra.Command {

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "create a bpsolver.yaml file with the default configuration",
		Long:  `create a bpsolver.yaml file with the default configuration which can be passed to every command with --config`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := (&config.ConfigInit{ConfigFile: initopts.output, Force: initopts.force}).Init()
			if err != nil {
				return err
			}
			logrus.Infof("Wrote %s", initopts.output)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&initopts.output, "output", "o", "bpsolver.yaml", "configuration file to write")
	initCmd.Flags().BoolVar(&initopts.force, "force", false, "overwrite an existing file")
	return initCmd
}
