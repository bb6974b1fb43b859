package template

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bpsolver/bpsolver/pkg/api"
)

// Render prints the verdict of a decision and, if a witness is known, the
// content of every bin.
func Render(writer io.Writer, inst *api.Instance, res *api.Result) error {
	decidedBy := string(res.Source)
	if res.Backend != "" {
		decidedBy = fmt.Sprintf("%s (%s)", res.Source, res.Backend)
	}
	if _, err := fmt.Fprintf(writer, "Instance: %s\nVerdict: %s\nDecided by: %s\n", inst.String(), res.Verdict, decidedBy); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}
	if res.Reason != "" {
		if _, err := fmt.Fprintf(writer, "Reason: %s\n", res.Reason); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
	}

	if bins := res.Bins(inst.Bins); bins != nil {
		tabWriter := tabwriter.NewWriter(writer, 0, 8, 1, '\t', 0)
		if _, err := fmt.Fprintln(tabWriter, "Bin\tLoad\tFree\tItems"); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
		for b, items := range bins {
			load := 0
			entries := make([]string, 0, len(items))
			for _, i := range items {
				load += inst.Items[i]
				entries = append(entries, fmt.Sprintf("#%d:%d", i, inst.Items[i]))
			}
			if _, err := fmt.Fprintf(tabWriter, "%d\t%d/%d\t%d\t%s\n", b, load, inst.Capacity, inst.Capacity-load, strings.Join(entries, " ")); err != nil {
				return fmt.Errorf("failed to write entry: %v", err)
			}
		}
		if err := tabWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush table: %v", err)
		}
	}

	s := res.Stats
	if _, err := fmt.Fprintf(writer, "Nodes: %d, Backtracks: %d, Propagations: %d, Max depth: %d\n", s.Nodes, s.Backtracks, s.Propagations, s.MaxDepth); err != nil {
		return fmt.Errorf("failed to write summary: %v", err)
	}
	return nil
}
