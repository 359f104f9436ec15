package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vmsizer/vmsizer/internal/model"
)

// TableReporter outputs a report as formatted terminal text.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, rep Report) error {
	fmt.Fprintf(r.w, "\n")
	if rep.ClusterName != "" {
		fmt.Fprintf(r.w, "Cluster:     %s\n", rep.ClusterName)
	}

	t := rep.Topology
	fmt.Fprintf(r.w, "Topology:    %s\n", t.Description)
	fmt.Fprintf(r.w, "  Control plane:  %d nodes (schedulable: %v)\n", t.ControlPlaneNodeCount, t.SchedulableControlPlane)
	fmt.Fprintf(r.w, "  Workers:        %d x %s (%s)\n", t.WorkerNodeCount, t.WorkerNode.Description, formatVector(t.WorkerNode.Resources))
	fmt.Fprintf(r.w, "  CPU over-commit: %g\n", t.CPUOverCommitRatio)
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))

	e := rep.Estimate
	fmt.Fprintf(r.w, "Capacity estimate\n")
	fmt.Fprintf(r.w, "  Consumed by system:     %s\n", formatVector(e.ConsumedBySystem))
	fmt.Fprintf(r.w, "  Reserved for overhead:  %s\n", formatVector(e.ReservedForOverhead))
	fmt.Fprintf(r.w, "  Available to workloads: %s\n", formatVector(e.AvailableToWorkloads))
	if len(e.Reasoning) > 0 {
		fmt.Fprintf(r.w, "  Reasoning:\n")
		for _, reason := range e.Reasoning {
			fmt.Fprintf(r.w, "    - %s\n", reason)
		}
	}

	if rep.Workload != nil && rep.Fit != nil {
		w := rep.Workload
		fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 60))
		fmt.Fprintf(r.w, "Workload:    %d x %s\n", w.VMCount, w.InstanceType.Name)
		fmt.Fprintf(r.w, "  Footprint/instance:  %s\n", formatVector(w.InstanceType.Footprint()))
		fmt.Fprintf(r.w, "  Requested (guest):   %s\n", formatVector(rep.Required))
		fmt.Fprintf(r.w, "  Headroom:            %s\n", formatDelta(rep.Headroom))
		fmt.Fprintf(r.w, "  Max instances:       %d (constrained by %s)\n", rep.Fit.Count, rep.Fit.BindingDimension)

		fits := w.VMCount <= rep.Fit.Count
		fmt.Fprintf(r.w, "  Fits:                %v\n", fits)

		if rep.Leftover != nil {
			fmt.Fprintf(r.w, "  Stranded at max fit: %s\n", formatVector(rep.Leftover.Stranded))
			for _, d := range model.CanonicalDimensions(rep.Estimate.AvailableToWorkloads) {
				if u, ok := rep.Leftover.Utilization[d]; ok {
					fmt.Fprintf(r.w, "    %-8s %5.1f%% used\n", d, u*100)
				}
			}
		}
	}

	if rep.Sizing != nil {
		s := rep.Sizing
		fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 60))
		fmt.Fprintf(r.w, "Minimal topology for %d instances\n", s.TargetCount)
		fmt.Fprintf(r.w, "  Workers:                  %d\n", s.Topology.WorkerNodeCount)
		fmt.Fprintf(r.w, "  Schedulable control plane: %v\n", s.Topology.SchedulableControlPlane)
		fmt.Fprintf(r.w, "  Fit on result:            %d (constrained by %s)\n", s.Fit.Count, s.Fit.BindingDimension)
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}
