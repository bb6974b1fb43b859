package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/config"
	"github.com/bpsolver/bpsolver/pkg/instance"
)

type generateOpts struct {
	name     string
	bins     int
	capacity int
	full     bool
	seed     int64
	output   string
}

var generateopts = generateOpts{}

func NewGenerateCmd() *cobra.Command {

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a random feasible instance",
		Long:  `generate a random instance with a planted packing into the given bins and write it as yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := generateopts.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			sizes, _ := instance.Generate(rand.New(rand.NewSource(seed)), generateopts.bins, generateopts.capacity, generateopts.full)
			inst := &api.Instance{
				Name:     generateopts.name,
				Items:    sizes,
				Bins:     generateopts.bins,
				Capacity: generateopts.capacity,
			}
			logrus.Infof("Generated %s from seed %d", inst.String(), seed)

			if generateopts.output == "" {
				data, err := yaml.Marshal(inst)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := config.WriteInstanceFile(generateopts.output, inst); err != nil {
				return fmt.Errorf("failed to write instance file %s: %v", generateopts.output, err)
			}
			return nil
		},
	}

	generateCmd.Flags().StringVar(&generateopts.name, "name", "", "name stored in the instance")
	generateCmd.Flags().IntVarP(&generateopts.bins, "bins", "m", 4, "number of bins")
	generateCmd.Flags().IntVarP(&generateopts.capacity, "capacity", "c", 100, "capacity of every bin")
	generateCmd.Flags().BoolVar(&generateopts.full, "full", false, "fill every bin exactly")
	generateCmd.Flags().Int64Var(&generateopts.seed, "seed", 0, "random seed, 0 picks one from the clock")
	generateCmd.Flags().StringVarP(&generateopts.output, "output", "o", "", "instance file to write, stdout if empty")
	return generateCmd
}
