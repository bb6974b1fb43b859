package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpsolver/bpsolver/pkg/instance"
)

type boundOpts struct {
	file     string
	capacity int
}

var boundopts = boundOpts{}

func NewBoundCmd() *cobra.Command {

	boundCmd := &cobra.Command{
		Use:   "bound [sizes...]",
		Short: "print lower bounds on the number of bins",
		Long:  `print the continuous bound L1 and the Martello-Toth bound L2 on the number of bins the items need`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(boundopts.file, args, 0, boundopts.capacity)
			if err != nil {
				return err
			}
			// bins don't matter for the bounds
			in, err := instance.New(inst.Items, 0, inst.Capacity)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "L1: %d\nL2: %d\n", in.LowerBoundL1(), in.LowerBoundL2())
			if boundopts.file != "" {
				fmt.Fprintf(out, "Bins: %d\n", inst.Bins)
			}
			return nil
		},
	}

	boundCmd.Flags().StringVarP(&boundopts.file, "file", "f", "", "instance file written by 'bpsolver generate'")
	boundCmd.Flags().IntVarP(&boundopts.capacity, "capacity", "c", 0, "capacity of every bin")
	return boundCmd
}
