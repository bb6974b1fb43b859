package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/pkg/stretch"
)

type stretchOpts struct {
	bins       int
	capacity   int
	weights    []int
	lowerBound int
	upperBound int
	noMemo     bool
	dot        string
}

var stretchopts = stretchOpts{}

func NewStretchCmd() *cobra.Command {

	stretchCmd := &cobra.Command{
		Use:   "stretch",
		Short: "search an adversary for online bin stretching",
		Long: `search an adversary which forces every online algorithm to load a bin above the lower bound.
Items arrive one by one and have to be placed immediately, while the items so far always fit into the bins offline.
The configured backend, timeout and node limit apply to every feasibility check of the adversary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the adversary asks the oracle the same questions over and over
			// again within one run only
			checkCfg := *cfg
			checkCfg.Cache.Enabled = false
			opts, _, err := toOptions(&checkCfg)
			if err != nil {
				return err
			}

			logrus.Infof("Searching an adversary for %d bins of capacity %d", stretchopts.bins, stretchopts.capacity)
			res, err := stretch.Run(cmd.Context(), stretchopts.bins, stretchopts.capacity, stretch.Options{
				Weights:    stretchopts.weights,
				LowerBound: stretchopts.lowerBound,
				UpperBound: stretchopts.upperBound,
				NoMemo:     stretchopts.noMemo,
				Oracle:     opts,
			})
			if err != nil {
				return err
			}
			logrus.Infof("Searched %d nodes with %d feasibility checks in %s", res.Stats.Nodes, res.Stats.FeasibilityChecks, res.Stats.Elapsed)

			if stretchopts.dot != "" {
				if err := writeDOT(stretchopts.dot, res.Backtrack); err != nil {
					return err
				}
				logrus.Infof("Wrote %d backtrack nodes to %s", res.Backtrack.Len(), stretchopts.dot)
			}
			printStretch(cmd, res)
			return nil
		},
	}

	stretchCmd.Flags().IntVarP(&stretchopts.bins, "bins", "m", 2, "number of bins")
	stretchCmd.Flags().IntVarP(&stretchopts.capacity, "capacity", "c", 0, "capacity of every bin")
	stretchCmd.Flags().IntSliceVar(&stretchopts.weights, "weights", nil, "item sizes the adversary may use, every size up to the capacity if empty")
	stretchCmd.Flags().IntVar(&stretchopts.lowerBound, "lower-bound", 0, "load to beat, floor(4C/3) if 0")
	stretchCmd.Flags().IntVar(&stretchopts.upperBound, "upper-bound", 0, "load at which a branch is good enough, ceil(26C/17) if 0")
	stretchCmd.Flags().BoolVar(&stretchopts.noMemo, "no-memo", false, "don't remember visited positions")
	stretchCmd.Flags().StringVar(&stretchopts.dot, "dot", "", "write the kept branches of the search as graphviz file")
	return stretchCmd
}

func printStretch(cmd *cobra.Command, res *stretch.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Weights: %v\n", res.Weights)
	fmt.Fprintf(out, "Window: %d..%d\n", res.LowerBound, res.UpperBound)
	fmt.Fprintf(out, "Nodes: %d\n", res.Stats.Nodes)
	fmt.Fprintf(out, "Feasibility checks: %d (%s)\n", res.Stats.FeasibilityChecks, res.Stats.FeasibilityTime)
	fmt.Fprintf(out, "Memo hits: %d\n", res.Stats.MemoHits)
	if res.Improved() {
		fmt.Fprintf(out, "Stretching factor >= %d/%d = %.4f\n", res.Value, res.Capacity, res.Factor())
		return
	}
	fmt.Fprintf(out, "No load above %d forced, stretching factor stays at %d/%d\n", res.LowerBound, res.LowerBound, res.Capacity)
}
