package report

import (
	"context"
	"fmt"
	"io"

	"github.com/vmsizer/vmsizer/internal/model"
)

// MarkdownReporter outputs a report as a markdown document.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, rep Report) error {
	title := "Capacity estimate"
	if rep.ClusterName != "" {
		title = fmt.Sprintf("Capacity estimate: %s", rep.ClusterName)
	}
	fmt.Fprintf(r.w, "# %s\n\n", title)

	t := rep.Topology
	fmt.Fprintf(r.w, "## Topology\n\n")
	fmt.Fprintf(r.w, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Control plane nodes | %d |\n", t.ControlPlaneNodeCount)
	fmt.Fprintf(r.w, "| Schedulable control plane | %v |\n", t.SchedulableControlPlane)
	fmt.Fprintf(r.w, "| Worker nodes | %d |\n", t.WorkerNodeCount)
	fmt.Fprintf(r.w, "| Worker template | %s |\n", formatVector(t.WorkerNode.Resources))
	fmt.Fprintf(r.w, "| CPU over-commit ratio | %g |\n\n", t.CPUOverCommitRatio)

	e := rep.Estimate
	fmt.Fprintf(r.w, "## Capacity\n\n")
	fmt.Fprintf(r.w, "| | %s |\n|---|---|\n", dimensionHeader(e.AvailableToWorkloads))
	fmt.Fprintf(r.w, "| Consumed by system | %s |\n", dimensionRow(e.AvailableToWorkloads, e.ConsumedBySystem))
	fmt.Fprintf(r.w, "| Reserved for overhead | %s |\n", dimensionRow(e.AvailableToWorkloads, e.ReservedForOverhead))
	fmt.Fprintf(r.w, "| Available to workloads | %s |\n\n", dimensionRow(e.AvailableToWorkloads, e.AvailableToWorkloads))

	if len(e.Reasoning) > 0 {
		fmt.Fprintf(r.w, "## Reasoning\n\n")
		for _, reason := range e.Reasoning {
			fmt.Fprintf(r.w, "- %s\n", reason)
		}
		fmt.Fprintf(r.w, "\n")
	}

	if rep.Workload != nil && rep.Fit != nil {
		w := rep.Workload
		fmt.Fprintf(r.w, "## Workload fit\n\n")
		fmt.Fprintf(r.w, "| Field | Value |\n|---|---|\n")
		fmt.Fprintf(r.w, "| Instance type | %s |\n", w.InstanceType.Name)
		fmt.Fprintf(r.w, "| Requested count | %d |\n", w.VMCount)
		fmt.Fprintf(r.w, "| Footprint per instance | %s |\n", formatVector(w.InstanceType.Footprint()))
		fmt.Fprintf(r.w, "| Max instances | %d |\n", rep.Fit.Count)
		fmt.Fprintf(r.w, "| Binding constraint | %s |\n", rep.Fit.BindingDimension)
		fmt.Fprintf(r.w, "| Fits | %v |\n\n", w.VMCount <= rep.Fit.Count)
	}

	if rep.Sizing != nil {
		s := rep.Sizing
		fmt.Fprintf(r.w, "## Minimal topology\n\n")
		fmt.Fprintf(r.w, "| Field | Value |\n|---|---|\n")
		fmt.Fprintf(r.w, "| Target instances | %d |\n", s.TargetCount)
		fmt.Fprintf(r.w, "| Worker nodes | %d |\n", s.Topology.WorkerNodeCount)
		fmt.Fprintf(r.w, "| Schedulable control plane | %v |\n", s.Topology.SchedulableControlPlane)
		fmt.Fprintf(r.w, "| Fit on result | %d |\n\n", s.Fit.Count)
	}

	return nil
}

func dimensionHeader(reference model.ResourceVector) string {
	out := ""
	for _, d := range model.CanonicalDimensions(reference) {
		if out != "" {
			out += " | "
		}
		out += string(d)
	}
	return out
}

func dimensionRow(reference, v model.ResourceVector) string {
	out := ""
	for _, d := range model.CanonicalDimensions(reference) {
		if out != "" {
			out += " | "
		}
		out += formatQuantity(d, v.Get(d))
	}
	return out
}
