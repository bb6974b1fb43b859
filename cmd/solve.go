package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/cmd/template"
	"github.com/bpsolver/bpsolver/pkg/metrics"
	"github.com/bpsolver/bpsolver/pkg/solver"
	"github.com/bpsolver/bpsolver/pkg/trace"
)

type solveOpts struct {
	file        string
	bins        int
	capacity    int
	backend     string
	timeout     string
	nodeLimit   int64
	parallelism int
	noPreflight bool
	cache       bool
	traceDOT    string
	metricsFile string
}

var solveopts = solveOpts{}

func NewSolveCmd() *cobra.Command {

	solveCmd := &cobra.Command{
		Use:   "solve [sizes...]",
		Short: "decide whether the items fit into the bins",
		Long:  `decide whether the items, given as arguments or in an instance file, fit into the bins and print a packing if they do`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(solveopts.file, args, solveopts.bins, solveopts.capacity)
			if err != nil {
				return err
			}
			// flags win over the configuration file
			flags := cmd.Flags()
			if flags.Changed("backend") {
				cfg.Backend = solveopts.backend
			}
			if flags.Changed("timeout") {
				cfg.Timeout = solveopts.timeout
			}
			if flags.Changed("node-limit") {
				cfg.NodeLimit = solveopts.nodeLimit
			}
			if flags.Changed("parallel") {
				cfg.Parallelism = solveopts.parallelism
			}
			if flags.Changed("no-preflight") {
				cfg.Preflight = !solveopts.noPreflight
			}
			if flags.Changed("cache") {
				cfg.Cache.Enabled = solveopts.cache
			}

			opts, verdicts, err := toOptions(cfg)
			if err != nil {
				return err
			}
			var tree *trace.Tree
			if solveopts.traceDOT != "" {
				if cfg.Parallelism > 1 {
					logrus.Warnf("The parallel search is not traced, %s will only contain the root", solveopts.traceDOT)
				}
				tree = trace.NewSearchTree()
				opts = append(opts, solver.WithTracer(tree))
			}
			var recorder *metrics.Recorder
			if solveopts.metricsFile != "" {
				recorder = metrics.NewRecorder()
				opts = append(opts, solver.WithMetrics(recorder))
			}

			logrus.Infof("Solving %s with the %s backend", inst.String(), cfg.Backend)
			res, err := solver.New(inst.Items, inst.Bins, inst.Capacity, opts...).Solve(cmd.Context())
			if err != nil {
				return err
			}
			logrus.Infof("Decided after %s", res.Stats.Elapsed)

			if verdicts != nil {
				if err := verdicts.Save(); err != nil {
					return err
				}
			}
			if tree != nil {
				if err := writeDOT(solveopts.traceDOT, tree); err != nil {
					return err
				}
				logrus.Infof("Wrote %d search nodes to %s", tree.Len(), solveopts.traceDOT)
			}
			if recorder != nil {
				if err := recorder.WriteTextfile(solveopts.metricsFile); err != nil {
					return err
				}
			}
			return template.Render(cmd.OutOrStdout(), inst, res)
		},
	}

	solveCmd.Flags().StringVarP(&solveopts.file, "file", "f", "", "instance file written by 'bpsolver generate'")
	solveCmd.Flags().IntVarP(&solveopts.bins, "bins", "m", 0, "number of bins")
	solveCmd.Flags().IntVarP(&solveopts.capacity, "capacity", "c", 0, "capacity of every bin")
	solveCmd.Flags().StringVar(&solveopts.backend, "backend", "cp", "engine for instances the preflight can't decide (cp, sat)")
	solveCmd.Flags().StringVar(&solveopts.timeout, "timeout", "30s", "give up with UNKNOWN after this duration, empty for no limit")
	solveCmd.Flags().Int64Var(&solveopts.nodeLimit, "node-limit", 0, "give up with UNKNOWN after this many search nodes, 0 for no limit")
	solveCmd.Flags().IntVar(&solveopts.parallelism, "parallel", 1, "number of root branches explored concurrently")
	solveCmd.Flags().BoolVar(&solveopts.noPreflight, "no-preflight", false, "skip the heuristic preflight")
	solveCmd.Flags().BoolVar(&solveopts.cache, "cache", false, "look up and store verdicts in the persistent cache")
	solveCmd.Flags().StringVar(&solveopts.traceDOT, "trace-dot", "", "write the search tree as graphviz file")
	solveCmd.Flags().StringVar(&solveopts.metricsFile, "metrics-file", "", "write prometheus metrics in text format to this file")
	return solveCmd
}

type dotWriter interface {
	WriteDOT(w io.Writer) error
}

func writeDOT(path string, tree dotWriter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := tree.WriteDOT(f); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return f.Close()
}
