package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/pkg/cache"
)

type cacheOpts struct {
	clear bool
}

var cacheopts = cacheOpts{}

func NewCacheCmd() *cobra.Command {

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "show or clear the verdict cache",
		Long:  `show the location and size of the persistent verdict cache, or remove it`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath(cfg)
			if err != nil {
				return fmt.Errorf("failed to determine cache location: %v", err)
			}
			verdicts, err := cache.Open(path)
			if err != nil {
				return err
			}
			if cacheopts.clear {
				if err := verdicts.Clear(); err != nil {
					return err
				}
				logrus.Infof("Removed the verdict cache %s", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\nEntries: %d\n", verdicts.Path(), verdicts.Len())
			return nil
		},
	}

	cacheCmd.Flags().BoolVar(&cacheopts.clear, "clear", false, "remove all cached verdicts")
	return cacheCmd
}
