// Package orchestrator coordinates the estimate/fit/size pipelines over a
// topology, an overhead profile, and the configured engines.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vmsizer/vmsizer/internal/capacity"
	"github.com/vmsizer/vmsizer/internal/config"
	"github.com/vmsizer/vmsizer/internal/fitting"
	"github.com/vmsizer/vmsizer/internal/metrics"
	"github.com/vmsizer/vmsizer/internal/model"
	"github.com/vmsizer/vmsizer/internal/report"
	"github.com/vmsizer/vmsizer/internal/sizing"
)

// Orchestrator wires the estimator, fitting engine and sizer together.
type Orchestrator struct {
	Estimator *capacity.Estimator
	Sizer     *sizing.Sizer
	Config    config.Config
	Writer    io.Writer
}

// New builds an orchestrator from the configuration. The base overhead
// profile comes from config, overridden by a measured profile file when one
// is configured.
func New(cfg config.Config) (*Orchestrator, error) {
	profile, err := cfg.Overhead.Profile()
	if err != nil {
		return nil, err
	}

	if cfg.Overhead.ProfileFile != "" {
		collector := metrics.NewStaticCollector(cfg.Overhead.ProfileFile)
		measured, err := collector.Measure(context.Background(), metrics.MeasureOptions{})
		if err != nil {
			return nil, fmt.Errorf("loading overhead profile: %w", err)
		}
		profile = measured
	}

	estimator := capacity.NewEstimatorWithProfile(profile)
	sizer := sizing.NewSizer(estimator)
	sizer.MaxWorkerNodes = cfg.Sizing.MaxWorkerNodes
	sizer.Policy = sizing.PolicyByName(cfg.Sizing.ControlPlanePolicy)

	return &Orchestrator{
		Estimator: estimator,
		Sizer:     sizer,
		Config:    cfg,
		// Progress lines must not mix with reports on stdout, where
		// JSON output may be piped to other tooling.
		Writer: os.Stderr,
	}, nil
}

// Estimate computes the capacity estimate for a topology.
func (o *Orchestrator) Estimate(ctx context.Context, topology model.ClusterTopology) (report.Report, error) {
	est, err := o.Estimator.Estimate(topology)
	if err != nil {
		return report.Report{}, fmt.Errorf("estimating capacity: %w", err)
	}

	return report.Report{
		ClusterName: o.Config.Cluster.Name,
		Topology:    topology,
		Estimate:    est,
	}, nil
}

// Fit computes the estimate for a topology and fits a workload into it.
func (o *Orchestrator) Fit(ctx context.Context, topology model.ClusterTopology, workload model.Workload) (report.Report, error) {
	rep, err := o.Estimate(ctx, topology)
	if err != nil {
		return report.Report{}, err
	}

	available := rep.Estimate.AvailableToWorkloads
	fit, err := fitting.Fit(available, workload.InstanceType)
	if err != nil {
		return report.Report{}, err
	}

	required := workload.RequiredResources()
	leftover := fitting.AnalyzeLeftover(available, workload.InstanceType, fit.Count)

	rep.Workload = &workload
	rep.Fit = &fit
	rep.Required = required
	rep.Headroom = available.Delta(required)
	rep.Leftover = &leftover
	return rep, nil
}

// Size derives the minimal topology for a target instance count and reports
// it together with the estimate and fit on the result.
func (o *Orchestrator) Size(ctx context.Context, target int64, it model.InstanceType, template model.ClusterTopology) (report.Report, error) {
	fmt.Fprintf(o.Writer, "Searching topologies up to %d workers for %d x %s...\n",
		o.Sizer.MaxWorkerNodes, target, it.Name)

	outcome, err := o.Sizer.SizeFor(target, it, template)
	if err != nil {
		return report.Report{}, err
	}

	return report.Report{
		ClusterName: o.Config.Cluster.Name,
		Topology:    outcome.Topology,
		Estimate:    outcome.Estimate,
		Sizing:      &outcome,
	}, nil
}
