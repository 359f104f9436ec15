package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/model"
	"github.com/vmsizer/vmsizer/internal/orchestrator"
	"github.com/vmsizer/vmsizer/internal/report"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Compute how many workload instances fit into a topology",
	Long: `Estimates the topology's capacity and computes the maximum number of
instances of the given type that fit, reporting the binding resource
dimension, the headroom against the requested count, and the capacity
stranded by the non-binding dimensions.`,
	RunE: runFit,
}

func init() {
	addTopologyFlags(fitCmd)
	f := fitCmd.Flags()
	f.String("instance-type", "", "built-in instance type preset (default: u1.medium)")
	f.String("instance-file", "", "path to an instance type JSON file")
	f.Int64("count", 1, "requested instance count")
	f.String("output-file", "", "write output to file")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	topology, err := resolveTopology(cmd)
	if err != nil {
		return err
	}
	instanceType, err := resolveInstanceType(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt64("count")

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return err
	}

	rep, err := orch.Fit(ctx, topology, model.Workload{
		InstanceType: instanceType,
		VMCount:      count,
	})
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return report.NewReporter(cfg.Output.Format, w).Report(ctx, rep)
}
