package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/api/bpsolver"
	"github.com/bpsolver/bpsolver/pkg/config"
	"github.com/bpsolver/bpsolver/pkg/instance"
	"github.com/bpsolver/bpsolver/pkg/solver"
)

type VerifyOpts struct {
	file        string
	count       int
	seed        int64
	maxItems    int
	maxBins     int
	maxCapacity int
}

var verifyopts = VerifyOpts{}

func NewVerifyCmd() *cobra.Command {

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "cross-check the search against the SAT backend",
		Long:  `decide an instance file or random instances with the constraint search and the SAT backend and report every disagreement`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var instances []*api.Instance
			if verifyopts.file != "" {
				inst, err := config.LoadInstanceFile(verifyopts.file)
				if err != nil {
					return err
				}
				instances = append(instances, inst)
			} else {
				seed := verifyopts.seed
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				logrus.Infof("Generating %d instances from seed %d", verifyopts.count, seed)
				instances = randomInstances(rand.New(rand.NewSource(seed)), verifyopts)
			}

			opts, err := verifyOptions(cfg)
			if err != nil {
				return err
			}
			var errs error
			for _, inst := range instances {
				if err := crossCheck(cmd.Context(), inst, opts); err != nil {
					logrus.Errorf("%v", err)
					errs = multierr.Append(errs, err)
				}
			}
			if errs != nil {
				return fmt.Errorf("%d of %d instances disagree", len(multierr.Errors(errs)), len(instances))
			}
			logrus.Infof("All %d instances agree", len(instances))
			return nil
		},
	}

	verifyCmd.Flags().StringVarP(&verifyopts.file, "file", "f", "", "instance file to check instead of random instances")
	verifyCmd.Flags().IntVar(&verifyopts.count, "count", 100, "number of random instances")
	verifyCmd.Flags().Int64Var(&verifyopts.seed, "seed", 0, "random seed, 0 picks one from the clock")
	verifyCmd.Flags().IntVar(&verifyopts.maxItems, "max-items", 9, "maximum number of items of a random instance")
	verifyCmd.Flags().IntVar(&verifyopts.maxBins, "max-bins", 4, "maximum number of bins of a random instance")
	verifyCmd.Flags().IntVar(&verifyopts.maxCapacity, "max-capacity", 12, "maximum bin capacity of a random instance")
	return verifyCmd
}

// randomInstances mixes uniformly drawn instances with planted ones, which are
// always feasible.
func randomInstances(r *rand.Rand, opts VerifyOpts) []*api.Instance {
	instances := make([]*api.Instance, 0, opts.count)
	for k := 0; k < opts.count; k++ {
		bins := 1 + r.Intn(opts.maxBins)
		capacity := 1 + r.Intn(opts.maxCapacity)
		var sizes []int
		if k%2 == 0 {
			sizes, _ = instance.Generate(r, bins, capacity, r.Intn(2) == 0)
		} else {
			sizes = make([]int, 1+r.Intn(opts.maxItems))
			for i := range sizes {
				sizes[i] = 1 + r.Intn(capacity)
			}
		}
		instances = append(instances, &api.Instance{
			Name:     fmt.Sprintf("random-%d", k),
			Items:    sizes,
			Bins:     bins,
			Capacity: capacity,
		})
	}
	return instances
}

// verifyOptions takes the budgets of the configuration. Cached verdicts would
// hide disagreements, so the cache stays off.
func verifyOptions(cfg *bpsolver.Config) ([]solver.Option, error) {
	uncached := *cfg
	uncached.Cache.Enabled = false
	opts, _, err := toOptions(&uncached)
	return opts, err
}

// crossCheck decides inst without preflight on both backends. A packing
// reported by either one is checked as well. Instances one backend could not
// decide within its budget are skipped.
func crossCheck(ctx context.Context, inst *api.Instance, opts []solver.Option) error {
	results := map[api.Backend]*api.Result{}
	for _, backend := range []api.Backend{api.BackendCP, api.BackendSAT} {
		backendOpts := append(append([]solver.Option(nil), opts...),
			solver.WithBackend(backend),
			solver.WithPreflight(false),
		)
		res, err := solver.New(inst.Items, inst.Bins, inst.Capacity, backendOpts...).Solve(ctx)
		if err != nil {
			return fmt.Errorf("%s: %s backend failed: %v", inst.String(), backend, err)
		}
		if res.Feasible() {
			if err := checkPacking(inst, res.Assignment); err != nil {
				return fmt.Errorf("%s: %s backend returned an invalid packing: %v", inst.String(), backend, err)
			}
		}
		results[backend] = res
	}
	cp, sat := results[api.BackendCP], results[api.BackendSAT]
	if cp.Verdict == api.VerdictUnknown || sat.Verdict == api.VerdictUnknown {
		logrus.Warnf("%s: skipped, search says %s, SAT says %s", inst.String(), cp.Verdict, sat.Verdict)
		return nil
	}
	if cp.Verdict != sat.Verdict {
		return fmt.Errorf("%s: search says %s, SAT says %s", inst.String(), cp.Verdict, sat.Verdict)
	}
	logrus.Debugf("%s: both backends report %s", inst.String(), cp.Verdict)
	return nil
}

func checkPacking(inst *api.Instance, assignment []int) error {
	if len(assignment) != len(inst.Items) {
		return fmt.Errorf("expected %d assigned items, got %d", len(inst.Items), len(assignment))
	}
	loads := make([]int, inst.Bins)
	for i, b := range assignment {
		if b < 0 || b >= inst.Bins {
			return fmt.Errorf("item %d is assigned to unknown bin %d", i, b)
		}
		loads[b] += inst.Items[i]
	}
	for b, load := range loads {
		if load > inst.Capacity {
			return fmt.Errorf("bin %d holds %d, capacity is %d", b, load, inst.Capacity)
		}
	}
	return nil
}
