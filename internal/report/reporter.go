package report

import (
	"context"
	"io"

	"github.com/vmsizer/vmsizer/internal/fitting"
	"github.com/vmsizer/vmsizer/internal/model"
)

// Report is the presentation payload of one estimate, fit, or sizing run.
// Sections not produced by the run are nil and omitted from output.
type Report struct {
	ClusterName string                        `json:"cluster_name,omitempty"`
	Topology    model.ClusterTopology         `json:"topology"`
	Estimate    model.ClusterCapacityEstimate `json:"estimate"`

	// Fit sections (fit command)
	Workload *model.Workload         `json:"workload,omitempty"`
	Fit      *model.FitResult        `json:"fit,omitempty"`
	Required model.ResourceVector    `json:"required,omitempty"`
	Headroom model.ResourceDelta     `json:"headroom,omitempty"`
	Leftover *fitting.LeftoverReport `json:"leftover,omitempty"`

	// Sizing section (size command)
	Sizing *model.SizingOutcome `json:"sizing,omitempty"`
}

// Reporter formats and writes a report to an output destination.
type Reporter interface {
	Report(ctx context.Context, rep Report) error
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
